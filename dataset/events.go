package dataset

// RowEventKind identifies what changed on a row.
type RowEventKind int

const (
	// RowStatusChanged is fired when a row's lifecycle status flips.
	RowStatusChanged RowEventKind = iota
	// RowCellChanged is fired when a cell's changed flag flips.
	RowCellChanged
)

// RowEvent describes a change to a single row. For RowStatusChanged the
// OldStatus/NewStatus fields are set; for RowCellChanged the Column and
// OldValue fields are set.
type RowEvent struct {
	Row       *Row
	Kind      RowEventKind
	Column    *Column
	OldValue  interface{}
	OldStatus RowStatus
	NewStatus RowStatus
}

// TableEventKind identifies a structural table change.
type TableEventKind int

const (
	TableLoadStart TableEventKind = iota
	TableLoadComplete
	TableSaveStart
	TableSaveComplete
	TableCleared
	TableRowAdded
	TableRowDeleted
	TableRowDiscarded
	TableColumnAdded
	TableColumnRemoved
)

// TableEvent describes a structural change to a table. Row is set for the
// row kinds, Column for the column kinds.
type TableEvent struct {
	Table  *Table
	Kind   TableEventKind
	Row    *Row
	Column *Column
}

// SelectorEvent is fired when a selector's index set changes.
type SelectorEvent struct {
	Selector *Selector
	Old      []int
	New      []int
}

// Listeners are invoked synchronously, in registration order, on whatever
// goroutine performs the mutation. Callers on a UI toolkit thread must
// marshal themselves.
type (
	RowListener      func(RowEvent)
	TableListener    func(TableEvent)
	SelectorListener func(SelectorEvent)
)
