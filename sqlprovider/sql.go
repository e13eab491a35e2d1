package sqlprovider

import (
	"fmt"
	"strings"

	"databind/dataset"
)

// storedColumns are the columns that exist in the database: everything
// except computed (expression) columns.
func storedColumns(t *dataset.Table) []*dataset.Column {
	var out []*dataset.Column
	for _, col := range t.Columns() {
		if col.Expr() == nil {
			out = append(out, col)
		}
	}
	return out
}

func keyColumns(t *dataset.Table) []*dataset.Column {
	var out []*dataset.Column
	for _, col := range storedColumns(t) {
		if col.Key() {
			out = append(out, col)
		}
	}
	return out
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func selectSQL(t *dataset.Table) string {
	cols := storedColumns(t)
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = quote(col.Name())
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), quote(t.Name()))
}

func insertStatement(t *dataset.Table, r *dataset.Row) (string, []interface{}) {
	cols := storedColumns(t)
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, col := range cols {
		names[i] = quote(col.Name())
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = r.Value(col)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.Name()), strings.Join(names, ", "), strings.Join(placeholders, ", "))
	return sql, args
}

// updateStatement sets every non-key stored column and locates the row
// by the reference values of its key columns, so a row whose key was
// edited still updates the record it was loaded from.
func updateStatement(t *dataset.Table, r *dataset.Row) (string, []interface{}) {
	keys := keyColumns(t)
	var sets []string
	var args []interface{}
	n := 1
	for _, col := range storedColumns(t) {
		if col.Key() {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", quote(col.Name()), n))
		args = append(args, r.Value(col))
		n++
	}
	var wheres []string
	for _, col := range keys {
		wheres = append(wheres, fmt.Sprintf("%s = $%d", quote(col.Name()), n))
		args = append(args, r.ReferenceValue(col))
		n++
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quote(t.Name()), strings.Join(sets, ", "), strings.Join(wheres, " AND "))
	return sql, args
}

func deleteStatement(t *dataset.Table, r *dataset.Row) (string, []interface{}) {
	keys := keyColumns(t)
	var wheres []string
	var args []interface{}
	for i, col := range keys {
		wheres = append(wheres, fmt.Sprintf("%s = $%d", quote(col.Name()), i+1))
		args = append(args, r.ReferenceValue(col))
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", quote(t.Name()), strings.Join(wheres, " AND "))
	return sql, args
}
