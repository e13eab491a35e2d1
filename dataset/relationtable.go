package dataset

// RelationTable is a materialized, auto-refreshing view over a relation:
// its row list is rebuilt whenever the driving parent selection or the
// child table changes. The rows are the child table's own row objects,
// shared, not copied. The view is read-only as a table: save, provider
// assignment, append and delete are all refused.
type RelationTable struct {
	Table

	relation       *Relation
	parentSelector *Selector
	parentTable    *Table
}

// NewRelationTable creates a view over rel. The parent source is set
// afterwards with FollowSelector or FollowTable; without one the view
// materializes the whole child table.
func NewRelationTable(name string, rel *Relation) *RelationTable {
	rt := &RelationTable{Table: *NewTable(name), relation: rel}
	rt.readOnlyView = true
	rt.allowAppend = false
	rt.allowDelete = false
	if child := rel.childTable(); child != nil {
		// Columns are the child table's columns. The name map is shared
		// by reference; the slice header must be re-copied whenever the
		// child adds or drops a column, or the view's column list goes
		// stale.
		rt.columns = child.columns
		rt.columnsByName = child.columnsByName
		child.OnTableChange(func(ev TableEvent) {
			switch ev.Kind {
			case TableRowAdded, TableRowDeleted, TableRowDiscarded,
				TableCleared, TableLoadComplete:
				rt.Refresh()
			case TableColumnAdded, TableColumnRemoved:
				rt.columns = child.columns
				rt.Refresh()
			}
		})
		child.OnRowChange(func(ev RowEvent) {
			if ev.Kind == RowCellChanged && ev.Column == rel.childColumn {
				rt.Refresh()
			}
		})
	}
	rt.Refresh()
	return rt
}

func (rel *Relation) childTable() *Table {
	if rel.childColumn == nil {
		return nil
	}
	return rel.childColumn.table
}

// Relation returns the relation this view materializes.
func (rt *RelationTable) Relation() *Relation { return rt.relation }

// FollowSelector drives the view from the given parent-table selector:
// the view shows the child rows of the currently selected parent rows.
func (rt *RelationTable) FollowSelector(s *Selector) {
	rt.parentSelector = s
	rt.parentTable = nil
	s.OnChanged(func(SelectorEvent) { rt.Refresh() })
	rt.Refresh()
}

// FollowTable drives the view from all rows of the given parent table.
func (rt *RelationTable) FollowTable(parent *Table) {
	rt.parentTable = parent
	rt.parentSelector = nil
	parent.OnTableChange(func(TableEvent) { rt.Refresh() })
	rt.Refresh()
}

// Refresh clears and rebuilds the row list by re-running the relation,
// then tries to preserve each selector's logical selection by matching
// key-column values. The rescan is brute force; at typical UI row counts
// correctness beats cleverness here.
func (rt *RelationTable) Refresh() {
	child := rt.relation.childTable()

	keyCols := rt.keyColumns()
	remembered := make(map[string][][]interface{}, len(rt.selectors))
	if len(keyCols) > 0 {
		for name, sel := range rt.selectors {
			var keys [][]interface{}
			for _, r := range sel.Rows() {
				keys = append(keys, keyValues(r, keyCols))
			}
			remembered[name] = keys
		}
	}

	rt.rows = nil
	switch {
	case rt.parentSelector != nil:
		for _, parent := range rt.parentSelector.Rows() {
			rt.rows = append(rt.rows, rt.relation.Rows(parent)...)
		}
	case rt.parentTable != nil:
		for _, parent := range rt.parentTable.rows {
			rt.rows = append(rt.rows, rt.relation.Rows(parent)...)
		}
	default:
		if child != nil {
			rt.rows = append(rt.rows, child.rows...)
		}
	}
	rt.fireTableEvent(TableEvent{Kind: TableLoadComplete})

	for name, keys := range remembered {
		sel := rt.selectors[name]
		var indices []int
		for _, want := range keys {
			for i, r := range rt.rows {
				if equalKeyValues(keyValues(r, keyCols), want) {
					indices = append(indices, i)
					break
				}
			}
		}
		sel.SetIndices(indices)
	}
}

func (rt *RelationTable) keyColumns() []*Column {
	var out []*Column
	for _, col := range rt.columns {
		if col.key {
			out = append(out, col)
		}
	}
	return out
}

func keyValues(r *Row, cols []*Column) []interface{} {
	out := make([]interface{}, len(cols))
	for i, col := range cols {
		out[i] = r.Value(col)
	}
	return out
}

func equalKeyValues(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalValues(a[i], b[i]) {
			return false
		}
	}
	return true
}
