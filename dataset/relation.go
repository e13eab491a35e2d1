package dataset

// Relation is a single-column equality join between a parent and a child
// table (possibly the same table). It is not a row container: it computes
// the child rows matching a given parent row on demand.
type Relation struct {
	name         string
	parentColumn *Column
	childColumn  *Column
}

// NewRelation creates a relation joining parentColumn to childColumn.
// Either column may be nil; an incompletely wired relation simply yields
// empty results.
func NewRelation(name string, parentColumn, childColumn *Column) *Relation {
	return &Relation{name: name, parentColumn: parentColumn, childColumn: childColumn}
}

func (rel *Relation) Name() string          { return rel.name }
func (rel *Relation) ParentColumn() *Column { return rel.parentColumn }
func (rel *Relation) ChildColumn() *Column  { return rel.childColumn }

func (rel *Relation) SetParentColumn(col *Column) { rel.parentColumn = col }
func (rel *Relation) SetChildColumn(col *Column)  { rel.childColumn = col }

// Rows returns the child-table rows whose child-column value equals the
// parent row's parent-column value, by structural equality (the table's
// comparator machinery is deliberately not consulted). The result is
// empty when either column is unset or parentRow is nil; relations are
// optional wiring, so no error is raised.
func (rel *Relation) Rows(parentRow *Row) []*Row {
	if rel.parentColumn == nil || rel.childColumn == nil || parentRow == nil {
		return nil
	}
	childTable := rel.childColumn.table
	if childTable == nil {
		return nil
	}
	parentVal := parentRow.Value(rel.parentColumn)
	var out []*Row
	for _, r := range childTable.rows {
		if equalValues(r.Value(rel.childColumn), parentVal) {
			out = append(out, r)
		}
	}
	return out
}
