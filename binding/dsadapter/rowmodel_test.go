package dsadapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databind/binding"
	"databind/dataset"
)

// textWidget is a minimal bindable text widget for tests.
type textWidget struct {
	value     interface{}
	listeners []func()
}

func (w *textWidget) WidgetValue() interface{} { return w.value }

func (w *textWidget) SetWidgetValue(v interface{}) {
	if v == nil {
		v = ""
	}
	w.value = v
	for _, l := range w.listeners {
		l()
	}
}

func (w *textWidget) OnWidgetChanged(l func()) { w.listeners = append(w.listeners, l) }

func (w *textWidget) typeText(s string) {
	w.value = s
	for _, l := range w.listeners {
		l()
	}
}

func contactsTable() *dataset.Table {
	t := dataset.NewTable("contacts")
	name := t.CreateColumn("name", dataset.TypeOf(""))
	name.SetRequired(true)
	t.CreateColumn("city", dataset.TypeOf(""))
	return t
}

func cleanRow(t *dataset.Table, name, city string) *dataset.Row {
	r := t.AppendRowNoEvent()
	r.SetValueNamed("name", name)
	r.SetValueNamed("city", city)
	r.SetStatus(dataset.StatusUnchanged)
	return r
}

func TestPullEditPushAgainstDatasetRow(t *testing.T) {
	tbl := contactsTable()
	row := tbl.AppendRow() // INSERTED, defaults nil
	_ = row

	cursor := tbl.Selector(dataset.SelCurrent)
	model := NewRowModel(tbl, cursor)
	w := &textWidget{}
	b := binding.New(model, "name", w)

	// Pull shows the empty default; required leaves the binding invalid.
	require.True(t, b.Pull())
	assert.Equal(t, "", w.WidgetValue())
	assert.Equal(t, binding.Invalid, b.State())

	w.typeText("Ann")
	assert.True(t, b.IsModified())
	assert.True(t, b.IsValid())
	require.True(t, b.Push())

	r := model.Row()
	assert.Equal(t, "Ann", r.ValueNamed("name"))
	// Appended rows keep their sticky INSERTED status across edits.
	assert.Equal(t, dataset.StatusInserted, r.Status())
	assert.False(t, b.IsModified())
}

func TestPushMarksCleanRowUpdated(t *testing.T) {
	tbl := contactsTable()
	cleanRow(tbl, "Ann", "Oslo")

	cursor := tbl.Selector(dataset.SelCurrent)
	cursor.SetIndex(0)
	model := NewRowModel(tbl, cursor)
	w := &textWidget{}
	b := binding.New(model, "name", w)
	b.Pull()

	w.typeText("Bob")
	require.True(t, b.Push())
	assert.Equal(t, dataset.StatusUpdated, model.Row().Status())
}

func TestCursorMoveRepullsBindings(t *testing.T) {
	tbl := contactsTable()
	cleanRow(tbl, "Ann", "Oslo")
	cleanRow(tbl, "Bob", "Bergen")

	cursor := tbl.Selector(dataset.SelCurrent)
	cursor.SetIndex(0)
	model := NewRowModel(tbl, cursor)
	w := &textWidget{}
	b := binding.New(model, "name", w)
	b.Pull()
	require.Equal(t, "Ann", w.WidgetValue())

	cursor.SetIndex(1)
	assert.Equal(t, "Bob", w.WidgetValue())
	assert.False(t, b.IsModified())
}

func TestNoCurrentRowYieldsNilValues(t *testing.T) {
	tbl := contactsTable()
	cursor := tbl.Selector(dataset.SelCurrent)
	model := NewRowModel(tbl, cursor)

	assert.Nil(t, model.Row())
	assert.Nil(t, model.FieldValue("name"))
	assert.NotPanics(t, func() { model.SetFieldValue("name", "x") })
}

func TestModelValidatorsThroughHandler(t *testing.T) {
	tbl := contactsTable()
	// The row starts out violating the cross-field rule.
	cleanRow(tbl, "Oslo", "Oslo")
	cursor := tbl.Selector(dataset.SelCurrent)
	cursor.SetIndex(0)

	model := NewRowModel(tbl, cursor)
	model.AddValidator(func(m binding.Model) error {
		if m.FieldValue("name") == m.FieldValue("city") {
			return errors.New("name and city must differ")
		}
		return nil
	})

	wName := &textWidget{}
	wCity := &textWidget{}
	h := binding.NewHandler(nil)
	h.Add(binding.New(model, "name", wName))
	h.Add(binding.New(model, "city", wCity))
	h.Pull()

	// Model-level validators check the model's current state; while the
	// row violates the rule no push goes through, edits or not.
	wName.typeText("Ann")
	assert.False(t, h.Push())
	assert.Equal(t, "Oslo", model.Row().ValueNamed("name"))
	assert.Equal(t, []string{"name and city must differ"}, h.Errors())

	// Repairing the row directly clears the way for the push.
	model.Row().SetValueNamed("city", "Bergen")
	wName.typeText("Ann")
	require.True(t, h.Push())
	assert.Equal(t, "Ann", model.Row().ValueNamed("name"))
}

func TestHandlerPushKeepsEverySiblingEdit(t *testing.T) {
	tbl := contactsTable()
	cleanRow(tbl, "Ann", "Oslo")
	cursor := tbl.Selector(dataset.SelCurrent)
	cursor.SetIndex(0)
	model := NewRowModel(tbl, cursor)

	wName := &textWidget{}
	wCity := &textWidget{}
	h := binding.NewHandler(nil)
	h.Add(binding.New(model, "name", wName))
	h.Add(binding.New(model, "city", wCity))
	h.Pull()

	// The first push flips the clean row to UPDATED, which the model
	// reports as a whole-row change; that must not wipe the second
	// binding's edit before it pushes.
	wName.typeText("Bea")
	wCity.typeText("Bergen")
	require.True(t, h.Push())

	r := model.Row()
	assert.Equal(t, "Bea", r.ValueNamed("name"))
	assert.Equal(t, "Bergen", r.ValueNamed("city"))
	assert.Equal(t, dataset.StatusUpdated, r.Status())
	assert.Equal(t, "Bergen", wCity.WidgetValue())
}

func TestSelectorSelectionRoundTrip(t *testing.T) {
	tbl := contactsTable()
	for i := 0; i < 5; i++ {
		cleanRow(tbl, "n", "c")
	}
	sel := tbl.Selector("picked")
	data := NewSelectorSelection(sel)

	notified := 0
	data.OnChanged(func() { notified++ })

	data.SetIndices([]int{2, 0})
	assert.Equal(t, []int{0, 2}, sel.Indices())
	assert.Equal(t, []int{0, 2}, data.Indices())
	assert.Equal(t, 1, notified)
}
