// Package dsadapter bridges the dataset engine to the binding engine:
// a table plus a cursor selector becomes a binding.Model, and a dataset
// selector becomes the data side of a selection binding.
package dsadapter

import (
	"reflect"

	"databind/binding"
	"databind/dataset"
)

// RowModel exposes the row under a cursor selector as a binding.Model.
// Fields are column names; moving the cursor notifies bindings so they
// re-pull from the newly current row (master/detail navigation).
type RowModel struct {
	table  *dataset.Table
	cursor *dataset.Selector

	listeners  []func(string)
	validators []binding.ModelValidator
}

// NewRowModel creates a model over the table's rows, positioned by the
// cursor selector (conventionally the table's "current" selector).
func NewRowModel(t *dataset.Table, cursor *dataset.Selector) *RowModel {
	m := &RowModel{table: t, cursor: cursor}
	cursor.OnChanged(func(dataset.SelectorEvent) { m.notify("") })
	t.OnRowChange(func(ev dataset.RowEvent) {
		if ev.Row != m.Row() {
			return
		}
		switch ev.Kind {
		case dataset.RowCellChanged:
			m.notify(ev.Column.Name())
		case dataset.RowStatusChanged:
			// Computed fields (e.g. a status display) may depend on the
			// row status, so treat it as a whole-row change.
			m.notify("")
		}
	})
	t.OnTableChange(func(ev dataset.TableEvent) {
		switch ev.Kind {
		case dataset.TableLoadComplete, dataset.TableCleared, dataset.TableRowDiscarded:
			m.notify("")
		}
	})
	return m
}

// Row returns the row the cursor points at, or nil.
func (m *RowModel) Row() *dataset.Row {
	i := m.cursor.Index()
	if i < 0 || i >= m.table.RowCount() {
		return nil
	}
	return m.table.RowAt(i)
}

func (m *RowModel) notify(field string) {
	for _, l := range m.listeners {
		l(field)
	}
}

func (m *RowModel) FieldValue(field string) interface{} {
	r := m.Row()
	if r == nil {
		return nil
	}
	return r.ValueNamed(field)
}

func (m *RowModel) SetFieldValue(field string, value interface{}) {
	r := m.Row()
	if r == nil {
		return
	}
	r.SetValueNamed(field, value)
}

func (m *RowModel) FieldRequired(field string) bool {
	return m.table.MustColumn(field).Required()
}

func (m *RowModel) FieldType(field string) reflect.Type {
	return m.table.MustColumn(field).Type()
}

func (m *RowModel) OnModelChanged(l func(field string)) {
	m.listeners = append(m.listeners, l)
}

// AddValidator registers a model-level (cross-field) validator.
func (m *RowModel) AddValidator(v binding.ModelValidator) {
	m.validators = append(m.validators, v)
}

func (m *RowModel) ModelValidators() []binding.ModelValidator {
	return m.validators
}
