package dataset

import "sort"

// SelCurrent is the conventional selector name used as the "current row"
// cursor of a table. AppendRow folds newly added rows into it.
const SelCurrent = "current"

// Selector is a named, ordered set of row indices within one table,
// used as a selection cursor (e.g. for master/detail navigation).
// Indices are kept sorted and unique.
type Selector struct {
	table     *Table
	name      string
	indices   []int
	listeners []SelectorListener
}

func (s *Selector) Name() string  { return s.name }
func (s *Selector) Table() *Table { return s.table }

// OnChanged registers a listener for index-set changes.
func (s *Selector) OnChanged(l SelectorListener) {
	s.listeners = append(s.listeners, l)
}

// Index returns the first selected index, or -1 when nothing is selected.
func (s *Selector) Index() int {
	if len(s.indices) == 0 {
		return -1
	}
	return s.indices[0]
}

// Indices returns a copy of the sorted selected indices.
func (s *Selector) Indices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// SetIndex replaces the selection with a single index. A negative index
// clears the selection.
func (s *Selector) SetIndex(i int) {
	if i < 0 {
		s.SetIndices(nil)
		return
	}
	s.SetIndices([]int{i})
}

// SetIndices replaces the selection. Duplicates are dropped and the
// result is sorted. Listeners fire only when the set actually changes.
func (s *Selector) SetIndices(indices []int) {
	next := normalizeIndices(indices)
	if equalIndices(s.indices, next) {
		return
	}
	old := s.indices
	s.indices = next
	ev := SelectorEvent{Selector: s, Old: old, New: s.Indices()}
	for _, l := range s.listeners {
		l(ev)
	}
}

// Rows returns the selected rows, skipping indices that fell out of
// range as rows were discarded.
func (s *Selector) Rows() []*Row {
	out := make([]*Row, 0, len(s.indices))
	for _, i := range s.indices {
		if i >= 0 && i < len(s.table.rows) {
			out = append(out, s.table.rows[i])
		}
	}
	return out
}

func normalizeIndices(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, i := range in {
		if i < 0 || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func equalIndices(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
