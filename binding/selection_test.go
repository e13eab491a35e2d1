package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSelectionWidget mimics a list widget's native selection.
type fakeSelectionWidget struct {
	selected  []int
	listeners []func(bool)
	sets      int
}

func (w *fakeSelectionWidget) SelectedIndices() []int {
	out := make([]int, len(w.selected))
	copy(out, w.selected)
	return out
}

func (w *fakeSelectionWidget) SetSelectedIndices(indices []int) {
	w.selected = append([]int(nil), indices...)
	w.sets++
	for _, l := range w.listeners {
		l(false)
	}
}

func (w *fakeSelectionWidget) OnSelectionChanged(l func(adjusting bool)) {
	w.listeners = append(w.listeners, l)
}

// gesture simulates a user selection, optionally mid-adjustment.
func (w *fakeSelectionWidget) gesture(indices []int, adjusting bool) {
	w.selected = append([]int(nil), indices...)
	for _, l := range w.listeners {
		l(adjusting)
	}
}

// fakeIndexSelection is a selector stand-in on the data side.
type fakeIndexSelection struct {
	indices   []int
	listeners []func()
	sets      int
}

func (s *fakeIndexSelection) Indices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

func (s *fakeIndexSelection) SetIndices(indices []int) {
	s.indices = append([]int(nil), indices...)
	s.sets++
	for _, l := range s.listeners {
		l()
	}
}

func (s *fakeIndexSelection) OnChanged(l func()) { s.listeners = append(s.listeners, l) }

// reverseMapper maps view index = n-1-model index, as a descending sort
// over n rows would.
func reverseMapper(n int) *IndexMapper {
	rev := func(i int) int {
		if i < 0 || i >= n {
			return -1
		}
		return n - 1 - i
	}
	return &IndexMapper{ViewToModel: rev, ModelToView: rev}
}

func TestSelectionRoundTripThroughReversingMapper(t *testing.T) {
	const n = 10
	w := &fakeSelectionWidget{}
	data := &fakeIndexSelection{}
	NewSelection(w, data, reverseMapper(n))

	data.SetIndices([]int{0, 2})
	assert.ElementsMatch(t, []int{n - 1, n - 3}, w.SelectedIndices())

	// Selecting the same view indices back lands on the original data
	// indices: the round trip is lossless.
	w.gesture([]int{n - 1, n - 3}, false)
	assert.ElementsMatch(t, []int{0, 2}, data.Indices())
}

func TestSelectionIdentityWithoutMapper(t *testing.T) {
	w := &fakeSelectionWidget{}
	data := &fakeIndexSelection{indices: []int{4}}
	NewSelection(w, data, nil)

	// Initial sync applied the existing data selection.
	assert.Equal(t, []int{4}, w.SelectedIndices())

	w.gesture([]int{1, 2}, false)
	assert.Equal(t, []int{1, 2}, data.Indices())
}

func TestSelectionGuardsAgainstFeedbackLoop(t *testing.T) {
	w := &fakeSelectionWidget{}
	data := &fakeIndexSelection{}
	NewSelection(w, data, nil)

	dataSets := data.sets
	data.SetIndices([]int{3})
	// The widget write our own sync caused must not bounce back into
	// the data selection.
	assert.Equal(t, dataSets+1, data.sets)

	widgetSets := w.sets
	w.gesture([]int{5}, false)
	assert.Equal(t, widgetSets, w.sets, "a user gesture must not echo back into the widget")
}

func TestSelectionIgnoresAdjustingGestures(t *testing.T) {
	w := &fakeSelectionWidget{}
	data := &fakeIndexSelection{}
	NewSelection(w, data, nil)

	w.gesture([]int{1}, true)
	assert.Empty(t, data.Indices())

	w.gesture([]int{1}, false)
	assert.Equal(t, []int{1}, data.Indices())
}

func TestSelectionDropsUnmappableIndices(t *testing.T) {
	const n = 3
	w := &fakeSelectionWidget{}
	data := &fakeIndexSelection{}
	NewSelection(w, data, reverseMapper(n))

	data.SetIndices([]int{1, 7}) // 7 is outside the view
	require.Equal(t, []int{1}, w.SelectedIndices())
}
