package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateColumnBackfillsExistingRows(t *testing.T) {
	tbl := NewTable("person")
	tbl.CreateColumn("id", TypeOf(0))
	r1 := tbl.AppendRowNoEvent()
	r2 := tbl.AppendRowNoEvent()

	col := tbl.CreateColumn("name", TypeOf(""))
	col.SetDefault("n/a")

	// The default at backfill time was still nil; only rows appended
	// after the default was set pick it up.
	assert.Nil(t, r1.Value(col))
	assert.Nil(t, r2.Value(col))
	r3 := tbl.AppendRowNoEvent()
	assert.Equal(t, "n/a", r3.Value(col))
}

func TestCreateColumnDefaultBackfill(t *testing.T) {
	tbl := NewTable("person")
	tbl.AppendRowNoEvent()

	c := tbl.CreateColumn("id", TypeOf(0))
	for _, r := range tbl.Rows() {
		require.Contains(t, r.cells, c)
		assert.False(t, r.Changed(c))
	}
}

func TestDropColumnRemovesCells(t *testing.T) {
	tbl := newPersonTable()
	r := tbl.AppendRowNoEvent()
	name := tbl.MustColumn("name")

	tbl.DropColumn("name")
	assert.Nil(t, tbl.Column("name"))
	assert.Panics(t, func() { r.Value(name) })
	assert.Len(t, tbl.Columns(), 1)
}

func TestAppendRowFoldsIntoCurrentSelector(t *testing.T) {
	tbl := newPersonTable()
	tbl.AppendRow()
	tbl.AppendRow()
	assert.Equal(t, 1, tbl.Selector(SelCurrent).Index())
}

func TestAppendRowNoEventIsSilent(t *testing.T) {
	tbl := newPersonTable()
	var events int
	tbl.OnTableChange(func(TableEvent) { events++ })

	tbl.AppendRowNoEvent()
	assert.Equal(t, 0, events)
	assert.Equal(t, -1, tbl.Selector(SelCurrent).Index())

	tbl.AppendRow()
	assert.Equal(t, 1, events)
}

func TestAppendDeleteCapabilityFlags(t *testing.T) {
	tbl := newPersonTable()
	tbl.SetAllowAppend(false)
	assert.Nil(t, tbl.AppendRow())
	assert.Equal(t, 0, tbl.RowCount())

	// The flag only governs user-driven appends; the bulk-load path must
	// still be able to fill the table.
	require.NotNil(t, tbl.AppendRowNoEvent())
	assert.Equal(t, 1, tbl.RowCount())

	tbl.SetAllowAppend(true)
	r := tbl.AppendRow()
	tbl.SetAllowDelete(false)
	tbl.DeleteRow(r)
	assert.NotEqual(t, StatusDeleted, r.Status())
}

func TestDeleteRowKeepsRowUntilDiscard(t *testing.T) {
	tbl := newPersonTable()
	r := appendClean(tbl, map[string]interface{}{"id": 1, "name": "Ann"})

	var kinds []TableEventKind
	tbl.OnTableChange(func(ev TableEvent) { kinds = append(kinds, ev.Kind) })

	tbl.DeleteRow(r)
	assert.Equal(t, StatusDeleted, r.Status())
	assert.Equal(t, 1, tbl.RowCount())

	tbl.DiscardRow(r)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, -1, r.Index())
	assert.Equal(t, []TableEventKind{TableRowDeleted, TableRowDiscarded}, kinds)
}

func TestIdentityCompareIsDefault(t *testing.T) {
	tbl := NewTable("t")
	col := tbl.CreateColumn("v", nil)
	r := appendClean(tbl, map[string]interface{}{"v": []string{"a"}})

	// Identity comparison treats two distinct slices as different even
	// when structurally equal; uncomparable types never count as same.
	r.SetValue(col, []string{"a"})
	assert.Equal(t, StatusUpdated, r.Status())

	tbl.SetIdentityCompare(false)
	r2 := appendClean(tbl, map[string]interface{}{"v": []string{"a"}})
	r2.SetValue(col, []string{"a"})
	assert.Equal(t, StatusUnchanged, r2.Status())
}

func TestComparatorResolutionOrder(t *testing.T) {
	tbl := NewTable("t")
	tbl.SetIdentityCompare(false)
	col := tbl.CreateColumn("name", TypeOf(""))

	// Type comparator: case-insensitive strings.
	tbl.SetTypeComparator(TypeOf(""), func(a, b interface{}) bool {
		as, aok := a.(string)
		bs, bok := b.(string)
		return aok && bok && strings.EqualFold(as, bs)
	})
	r := appendClean(tbl, map[string]interface{}{"name": "Ann"})
	r.SetValue(col, "ANN")
	assert.Equal(t, StatusUnchanged, r.Status())

	// Column comparator wins over the type comparator.
	col.SetComparator(func(a, b interface{}) bool { return a == b })
	r.SetValue(col, "aNN")
	assert.Equal(t, StatusUpdated, r.Status())
}

func TestClearFiresCleared(t *testing.T) {
	tbl := newPersonTable()
	tbl.AppendRowNoEvent()
	var got []TableEventKind
	tbl.OnTableChange(func(ev TableEvent) { got = append(got, ev.Kind) })
	tbl.Clear()
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, []TableEventKind{TableCleared}, got)
}

func TestListenerOrderIsRegistrationOrder(t *testing.T) {
	tbl := newPersonTable()
	var order []int
	tbl.OnTableChange(func(TableEvent) { order = append(order, 1) })
	tbl.OnTableChange(func(TableEvent) { order = append(order, 2) })
	tbl.OnTableChange(func(TableEvent) { order = append(order, 3) })
	tbl.AppendRow()
	assert.Equal(t, []int{1, 2, 3}, order)
}
