package sqlprovider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databind/dataset"
)

func employeeTable() *dataset.Table {
	t := dataset.NewTable("employees")
	id := t.CreateColumn("id", dataset.TypeOf(0))
	id.SetKey(true)
	t.CreateColumn("name", dataset.TypeOf(""))
	t.CreateColumn("salary", dataset.TypeOf(0.0))
	initials := t.CreateColumn("initials", dataset.TypeOf(""))
	initials.SetExpr(dataset.ExprFunc(func(r *dataset.Row) interface{} {
		return "" // computed; never stored
	}))
	return t
}

func TestSelectSQLExcludesComputedColumns(t *testing.T) {
	tbl := employeeTable()
	assert.Equal(t, `SELECT "id", "name", "salary" FROM "employees"`, selectSQL(tbl))
}

func TestInsertStatement(t *testing.T) {
	tbl := employeeTable()
	r := tbl.AppendRowNoEvent()
	r.SetValueNamed("id", 7)
	r.SetValueNamed("name", "Ann")
	r.SetValueNamed("salary", 1000.0)

	sql, args := insertStatement(tbl, r)
	assert.Equal(t, `INSERT INTO "employees" ("id", "name", "salary") VALUES ($1, $2, $3)`, sql)
	assert.Equal(t, []interface{}{7, "Ann", 1000.0}, args)
}

func TestUpdateStatementLocatesByReferenceKey(t *testing.T) {
	tbl := employeeTable()
	r := tbl.AppendRowNoEvent()
	r.SetValueNamed("id", 7)
	r.SetValueNamed("name", "Ann")
	r.SetValueNamed("salary", 1000.0)
	r.SetStatus(dataset.StatusUnchanged)

	// Edit the key itself: the WHERE clause must still use the loaded
	// (reference) key value.
	r.SetValueNamed("id", 8)
	r.SetValueNamed("name", "Bob")

	sql, args := updateStatement(tbl, r)
	assert.Equal(t, `UPDATE "employees" SET "name" = $1, "salary" = $2 WHERE "id" = $3`, sql)
	assert.Equal(t, []interface{}{"Bob", 1000.0, 7}, args)
}

func TestDeleteStatement(t *testing.T) {
	tbl := employeeTable()
	r := tbl.AppendRowNoEvent()
	r.SetValueNamed("id", 7)
	r.SetStatus(dataset.StatusUnchanged)
	tbl.DeleteRow(r)

	sql, args := deleteStatement(tbl, r)
	assert.Equal(t, `DELETE FROM "employees" WHERE "id" = $1`, sql)
	assert.Equal(t, []interface{}{7}, args)
}

func TestQuoteEscapesIdentifiers(t *testing.T) {
	assert.Equal(t, `"odd""name"`, quote(`odd"name`))
}

func TestLoadRequiresConnection(t *testing.T) {
	p := New("postgres://localhost/none")
	require.False(t, p.Connected())
	err := p.Load(employeeTable())
	require.Error(t, err)
	err = p.Save(employeeTable())
	require.Error(t, err)
}
