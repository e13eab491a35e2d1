package dataset

import "fmt"

// RowStatus is the lifecycle tag of a row, telling a provider what
// persistence action the row needs.
type RowStatus int

const (
	StatusUnchanged RowStatus = iota
	StatusInserted
	StatusUpdated
	StatusDeleted
)

func (s RowStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "UNCHANGED"
	case StatusInserted:
		return "INSERTED"
	case StatusUpdated:
		return "UPDATED"
	case StatusDeleted:
		return "DELETED"
	}
	return fmt.Sprintf("RowStatus(%d)", int(s))
}

// cell is one row/column intersection: the last-known-persisted reference
// value, the live current value and the derived changed flag. The initial
// assignment at cell creation establishes the baseline and is never a
// "change".
type cell struct {
	ref     interface{}
	cur     interface{}
	changed bool
}

// Row is one record of a table: one cell per table column plus a derived
// lifecycle status. Rows are created via Table.AppendRow and identified
// by object identity and position within their table.
type Row struct {
	table  *Table
	cells  map[*Column]*cell
	status RowStatus
}

// Table returns the owning table.
func (r *Row) Table() *Table { return r.table }

// Status returns the row's current lifecycle status.
func (r *Row) Status() RowStatus { return r.status }

func (r *Row) cellFor(col *Column) *cell {
	c, ok := r.cells[col]
	if !ok {
		panic(fmt.Sprintf("dataset: column %q does not belong to table %q", col.name, r.table.name))
	}
	return c
}

// Value returns the current value of the given column. If the column has
// a computed expression, the expression result is returned instead of the
// stored cell value.
func (r *Row) Value(col *Column) interface{} {
	c := r.cellFor(col)
	if col.expr != nil {
		return col.expr.Eval(r)
	}
	return c.cur
}

// ValueNamed resolves the column by name on the owning table.
func (r *Row) ValueNamed(column string) interface{} {
	return r.Value(r.table.MustColumn(column))
}

// ReferenceValue returns the baseline value of the given column.
func (r *Row) ReferenceValue(col *Column) interface{} {
	return r.cellFor(col).ref
}

// Changed reports whether the given column's cell differs from its
// reference value under the active comparator.
func (r *Row) Changed(col *Column) bool {
	return r.cellFor(col).changed
}

// SetValue updates the current value of the given column. If the cell's
// changed flag flips, a RowCellChanged event carrying the prior value is
// fired; the row status is re-derived afterwards.
func (r *Row) SetValue(col *Column, value interface{}) {
	c := r.cellFor(col)
	old := c.cur
	c.cur = value
	newChanged := !r.table.sameValue(col, c.ref, c.cur)
	if newChanged != c.changed {
		c.changed = newChanged
		r.table.fireRowEvent(RowEvent{Row: r, Kind: RowCellChanged, Column: col, OldValue: old})
	}
	r.deriveStatus()
}

// SetValueNamed resolves the column by name on the owning table.
func (r *Row) SetValueNamed(column string, value interface{}) {
	r.SetValue(r.table.MustColumn(column), value)
}

// SetReferenceValue updates the baseline value of the given column and
// re-derives the changed flag and row status. No cell-level event is
// fired; this path exists for provider-driven reconciliation.
func (r *Row) SetReferenceValue(col *Column, value interface{}) {
	c := r.cellFor(col)
	c.ref = value
	c.changed = !r.table.sameValue(col, c.ref, c.cur)
	r.deriveStatus()
}

// ResetToReference discards the local edit of the given column, setting
// the current value back to the reference value.
func (r *Row) ResetToReference(col *Column) {
	r.SetValue(col, r.cellFor(col).ref)
}

// ResetAllToReference discards every local edit on the row.
func (r *Row) ResetAllToReference() {
	for _, col := range r.table.columns {
		r.ResetToReference(col)
	}
}

// SetStatus overrides the row status. Setting StatusUnchanged atomically
// rebases every cell: the current value becomes the new reference value
// and all changed flags are cleared.
func (r *Row) SetStatus(status RowStatus) {
	if status == StatusUnchanged {
		for _, c := range r.cells {
			c.ref = c.cur
			c.changed = false
		}
	}
	if status != r.status {
		old := r.status
		r.status = status
		r.table.fireRowEvent(RowEvent{Row: r, Kind: RowStatusChanged, OldStatus: old, NewStatus: status})
	}
}

// deriveStatus recomputes the status from cell state. INSERTED and
// DELETED are sticky: cell edits never move a row away from them.
func (r *Row) deriveStatus() {
	if r.status == StatusInserted || r.status == StatusDeleted {
		return
	}
	status := StatusUnchanged
	for _, c := range r.cells {
		if c.changed {
			status = StatusUpdated
			break
		}
	}
	if status != r.status {
		old := r.status
		r.status = status
		r.table.fireRowEvent(RowEvent{Row: r, Kind: RowStatusChanged, OldStatus: old, NewStatus: status})
	}
}

// Index returns the row's current position in its table, or -1 after the
// row has been discarded. Positions shift as earlier rows are discarded.
func (r *Row) Index() int {
	for i, row := range r.table.rows {
		if row == r {
			return i
		}
	}
	return -1
}
