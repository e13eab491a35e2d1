// Package dataset implements an in-memory relational dataset: tables of
// rows with per-cell change tracking, derived row statuses, single-column
// equality relations, named selection cursors and a top-level registry
// that orchestrates load/save through a pluggable Provider.
package dataset

import "reflect"

// Comparator reports whether two cell values are to be considered the
// same for change detection. Returning true means "not changed".
type Comparator func(a, b interface{}) bool

// Expression derives a column value from a row, overriding the stored
// cell value on reads. Implementations must not mutate the row.
type Expression interface {
	Eval(r *Row) interface{}
}

// ExprFunc adapts a plain function to the Expression interface.
type ExprFunc func(r *Row) interface{}

func (f ExprFunc) Eval(r *Row) interface{} { return f(r) }

// Column holds the metadata of one table column. Columns are created via
// Table.CreateColumn and belong to exactly one table.
type Column struct {
	table      *Table
	name       string
	typ        reflect.Type
	required   bool
	readOnly   bool
	key        bool
	defaultVal interface{}
	expr       Expression
	comparator Comparator
}

func (c *Column) Name() string       { return c.name }
func (c *Column) Type() reflect.Type { return c.typ }
func (c *Column) Table() *Table      { return c.table }

func (c *Column) Required() bool         { return c.required }
func (c *Column) SetRequired(req bool)   { c.required = req }
func (c *Column) ReadOnly() bool         { return c.readOnly }
func (c *Column) SetReadOnly(ro bool)    { c.readOnly = ro }
func (c *Column) Default() interface{}   { return c.defaultVal }
func (c *Column) SetDefault(v interface{}) { c.defaultVal = v }

// Key reports whether the column is a (unique) key column.
func (c *Column) Key() bool { return c.key }

// SetKey marks the column as a key column. A key column is always
// required; clearing the key flag leaves required untouched.
func (c *Column) SetKey(key bool) {
	c.key = key
	if key {
		c.required = true
	}
}

// Expr returns the column's computed-value expression, or nil.
func (c *Column) Expr() Expression { return c.expr }

// SetExpr installs a computed-value expression. While set, reads of this
// column always evaluate the expression instead of the stored cell value.
// Writes are still accepted; they only become visible again once the
// expression is removed.
func (c *Column) SetExpr(e Expression) { c.expr = e }

// Comparator returns the column-specific comparator, or nil.
func (c *Column) Comparator() Comparator { return c.comparator }

// SetComparator installs a column-specific comparator used for change
// detection, taking precedence over type-level comparators.
func (c *Column) SetComparator(cmp Comparator) { c.comparator = cmp }
