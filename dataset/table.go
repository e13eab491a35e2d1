package dataset

import (
	"fmt"
	"reflect"

	"databind/internal/debuglog"
)

const logPrefix = "dataset"

// Table is an ordered collection of rows over a set of named columns.
// It owns the comparators used for change detection and fires structural
// and per-row events. Tables are not safe for concurrent mutation; all
// mutators are expected to run on a single logical thread.
type Table struct {
	name    string
	dataSet *DataSet

	columns       []*Column
	columnsByName map[string]*Column
	rows          []*Row
	selectors     map[string]*Selector

	typeComparators map[reflect.Type]Comparator
	identityCompare bool

	allowAppend bool
	allowDelete bool

	provider Provider
	uiRun    func(func())

	// readOnlyView marks materialized join views (RelationTable); they
	// reject save and provider assignment with a logged warning.
	readOnlyView bool

	tableListeners []TableListener
	rowListeners   []RowListener
}

// NewTable creates an empty standalone table. Identity comparison is
// enabled by default: change detection uses plain equality of interface
// values rather than comparator machinery, trading correctness for
// speed. Integrators that store mutable values should switch it off.
func NewTable(name string) *Table {
	return &Table{
		name:            name,
		columnsByName:   make(map[string]*Column),
		selectors:       make(map[string]*Selector),
		typeComparators: make(map[reflect.Type]Comparator),
		identityCompare: true,
		allowAppend:     true,
		allowDelete:     true,
		uiRun:           func(fn func()) { fn() },
	}
}

func (t *Table) Name() string      { return t.name }
func (t *Table) DataSet() *DataSet { return t.dataSet }

func (t *Table) AllowAppend() bool       { return t.allowAppend }
func (t *Table) SetAllowAppend(ok bool)  { t.allowAppend = ok }
func (t *Table) AllowDelete() bool       { return t.allowDelete }
func (t *Table) SetAllowDelete(ok bool)  { t.allowDelete = ok }
func (t *Table) IdentityCompare() bool   { return t.identityCompare }
func (t *Table) SetIdentityCompare(b bool) { t.identityCompare = b }

// SetUIRunner installs the function used to marshal chunked provider
// results onto the UI thread (e.g. fyne.Do). The default runs inline.
func (t *Table) SetUIRunner(run func(func())) {
	if run == nil {
		run = func(fn func()) { fn() }
	}
	t.uiRun = run
}

// RunOnUI executes fn through the configured UI runner.
func (t *Table) RunOnUI(fn func()) { t.uiRun(fn) }

// OnTableChange registers a listener for structural table events.
func (t *Table) OnTableChange(l TableListener) {
	t.tableListeners = append(t.tableListeners, l)
}

// OnRowChange registers a listener for per-row events.
func (t *Table) OnRowChange(l RowListener) {
	t.rowListeners = append(t.rowListeners, l)
}

func (t *Table) fireTableEvent(ev TableEvent) {
	ev.Table = t
	for _, l := range t.tableListeners {
		l(ev)
	}
}

func (t *Table) fireRowEvent(ev RowEvent) {
	for _, l := range t.rowListeners {
		l(ev)
	}
}

// Columns returns the columns in creation order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column { return t.columnsByName[name] }

// MustColumn returns the named column and panics when it does not exist;
// a missing column here is a caller bug, not a runtime condition.
func (t *Table) MustColumn(name string) *Column {
	col, ok := t.columnsByName[name]
	if !ok {
		panic(fmt.Sprintf("dataset: table %q has no column %q", t.name, name))
	}
	return col
}

// CreateColumn adds a column and backfills a default-valued cell into
// every existing row. Column names are unique within the table.
func (t *Table) CreateColumn(name string, typ reflect.Type) *Column {
	if _, exists := t.columnsByName[name]; exists {
		panic(fmt.Sprintf("dataset: table %q already has column %q", t.name, name))
	}
	col := &Column{table: t, name: name, typ: typ}
	t.columns = append(t.columns, col)
	t.columnsByName[name] = col
	for _, r := range t.rows {
		r.cells[col] = &cell{ref: col.defaultVal, cur: col.defaultVal}
	}
	t.fireTableEvent(TableEvent{Kind: TableColumnAdded, Column: col})
	return col
}

// DropColumn removes the named column, drops its cell from every row and
// severs any relation referencing it so relations never dangle.
func (t *Table) DropColumn(name string) {
	col, ok := t.columnsByName[name]
	if !ok {
		return
	}
	delete(t.columnsByName, name)
	for i, c := range t.columns {
		if c == col {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			break
		}
	}
	for _, r := range t.rows {
		delete(r.cells, col)
	}
	if t.dataSet != nil {
		t.dataSet.severColumn(col)
	}
	col.table = nil
	t.fireTableEvent(TableEvent{Kind: TableColumnRemoved, Column: col})
}

// Rows returns the rows in positional order.
func (t *Table) Rows() []*Row {
	out := make([]*Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// RowCount returns the number of rows, including DELETED ones still
// awaiting physical removal by a provider.
func (t *Table) RowCount() int { return len(t.rows) }

// RowAt returns the row at the given position.
func (t *Table) RowAt(i int) *Row { return t.rows[i] }

func (t *Table) newRow() *Row {
	r := &Row{table: t, cells: make(map[*Column]*cell, len(t.columns)), status: StatusInserted}
	for _, col := range t.columns {
		r.cells[col] = &cell{ref: col.defaultVal, cur: col.defaultVal}
	}
	return r
}

// AppendRow creates a row seeded with column defaults (status INSERTED),
// fires TableRowAdded and folds the new row into the "current" selector.
// Returns nil when appending is not permitted.
func (t *Table) AppendRow() *Row {
	if !t.allowAppend {
		debuglog.Log(logPrefix, debuglog.LevelWarn, debuglog.UseGlobal,
			"append rejected: table %q does not allow appending", t.name)
		return nil
	}
	r := t.newRow()
	t.rows = append(t.rows, r)
	t.fireTableEvent(TableEvent{Kind: TableRowAdded, Row: r})
	t.Selector(SelCurrent).SetIndex(len(t.rows) - 1)
	return r
}

// AppendRowNoEvent is the bulk-load variant of AppendRow: no events, no
// selector folding. Providers and document readers use it to avoid O(n)
// event storms. It bypasses the append capability flag, which governs
// user-driven appends only; a load must be able to fill any table.
func (t *Table) AppendRowNoEvent() *Row {
	r := t.newRow()
	t.rows = append(t.rows, r)
	return r
}

// DeleteRow marks the row DELETED and fires TableRowDeleted. The row
// stays in the table until a provider physically removes it. Deleting is
// a no-op with a logged warning when the table does not permit it.
func (t *Table) DeleteRow(r *Row) {
	if !t.allowDelete {
		debuglog.Log(logPrefix, debuglog.LevelWarn, debuglog.UseGlobal,
			"delete rejected: table %q does not allow deleting", t.name)
		return
	}
	t.mustOwn(r)
	r.SetStatus(StatusDeleted)
	t.fireTableEvent(TableEvent{Kind: TableRowDeleted, Row: r})
}

// DiscardRow removes the row from the table unconditionally, with no
// provider round-trip. The row is no longer tracked afterwards.
func (t *Table) DiscardRow(r *Row) {
	for i, row := range t.rows {
		if row == r {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			t.fireTableEvent(TableEvent{Kind: TableRowDiscarded, Row: r})
			return
		}
	}
}

// Clear drops all rows and fires TableCleared.
func (t *Table) Clear() {
	t.rows = nil
	t.fireTableEvent(TableEvent{Kind: TableCleared})
}

// Value is a convenience for r.Value with membership checking.
func (t *Table) Value(r *Row, column string) interface{} {
	t.mustOwn(r)
	return r.Value(t.MustColumn(column))
}

// SetValue is a convenience for r.SetValue with membership checking.
func (t *Table) SetValue(r *Row, column string, value interface{}) {
	t.mustOwn(r)
	r.SetValue(t.MustColumn(column), value)
}

func (t *Table) mustOwn(r *Row) {
	if r.table != t {
		panic(fmt.Sprintf("dataset: row does not belong to table %q", t.name))
	}
}

// Selector returns the named selector, creating it on first use.
func (t *Table) Selector(name string) *Selector {
	s, ok := t.selectors[name]
	if !ok {
		s = &Selector{table: t, name: name}
		t.selectors[name] = s
	}
	return s
}

// Selectors returns all selectors created on this table.
func (t *Table) Selectors() []*Selector {
	out := make([]*Selector, 0, len(t.selectors))
	for _, s := range t.selectors {
		out = append(out, s)
	}
	return out
}

// SetTypeComparator installs a comparator for every column of the given
// value type that has no column-specific comparator.
func (t *Table) SetTypeComparator(typ reflect.Type, cmp Comparator) {
	t.typeComparators[typ] = cmp
}

// ColumnComparator resolves the comparator used for change detection on
// the given column: column-specific, else type-specific, else the
// structural default.
func (t *Table) ColumnComparator(col *Column) Comparator {
	if col.comparator != nil {
		return col.comparator
	}
	if col.typ != nil {
		if cmp, ok := t.typeComparators[col.typ]; ok {
			return cmp
		}
	}
	return equalValues
}

// sameValue decides whether two cell values count as the same. The
// table-wide identity flag short-circuits the comparator chain.
func (t *Table) sameValue(col *Column, a, b interface{}) bool {
	if t.identityCompare {
		return identicalValues(a, b)
	}
	return t.ColumnComparator(col)(a, b)
}

// identicalValues is plain interface equality, guarded so uncomparable
// dynamic types (slices, maps) report not-same instead of panicking.
func identicalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

// equalValues is the default structural comparator.
func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}
