package dataset

import (
	"fmt"
	"reflect"
)

// DataSet is the top-level registry of tables, relations and named
// scalar values. Names are unique across the union of the three
// registries. It also orchestrates bulk load/save/refresh across all
// member tables.
type DataSet struct {
	tables     map[string]*Table
	tableOrder []string
	relations  map[string]*Relation
	values     map[string]interface{}

	valueListeners []ValueListener
}

// ValueListener observes named scalar value changes.
type ValueListener func(name string, oldValue, newValue interface{})

// New creates an empty dataset.
func New() *DataSet {
	return &DataSet{
		tables:    make(map[string]*Table),
		relations: make(map[string]*Relation),
		values:    make(map[string]interface{}),
	}
}

func (ds *DataSet) nameTaken(name string) bool {
	if _, ok := ds.tables[name]; ok {
		return true
	}
	if _, ok := ds.relations[name]; ok {
		return true
	}
	_, ok := ds.values[name]
	return ok
}

func (ds *DataSet) mustBeFree(name string) {
	if ds.nameTaken(name) {
		panic(fmt.Sprintf("dataset: name %q already registered", name))
	}
}

// CreateTable creates and registers an empty table.
func (ds *DataSet) CreateTable(name string) *Table {
	ds.mustBeFree(name)
	t := NewTable(name)
	t.dataSet = ds
	ds.tables[name] = t
	ds.tableOrder = append(ds.tableOrder, name)
	return t
}

// AddTable registers an existing standalone table.
func (ds *DataSet) AddTable(t *Table) {
	ds.mustBeFree(t.name)
	t.dataSet = ds
	ds.tables[t.name] = t
	ds.tableOrder = append(ds.tableOrder, t.name)
}

// Table returns the named table, or nil.
func (ds *DataSet) Table(name string) *Table { return ds.tables[name] }

// Tables returns the tables in registration order.
func (ds *DataSet) Tables() []*Table {
	out := make([]*Table, 0, len(ds.tableOrder))
	for _, name := range ds.tableOrder {
		out = append(out, ds.tables[name])
	}
	return out
}

// CreateRelation creates and registers a relation.
func (ds *DataSet) CreateRelation(name string, parentColumn, childColumn *Column) *Relation {
	ds.mustBeFree(name)
	rel := NewRelation(name, parentColumn, childColumn)
	ds.relations[name] = rel
	return rel
}

// Relation returns the named relation, or nil.
func (ds *DataSet) Relation(name string) *Relation { return ds.relations[name] }

// Relations returns all registered relations.
func (ds *DataSet) Relations() []*Relation {
	out := make([]*Relation, 0, len(ds.relations))
	for _, rel := range ds.relations {
		out = append(out, rel)
	}
	return out
}

// SetValue stores a named scalar value. The name must not collide with a
// table or relation name. Listeners fire only on an actual change.
func (ds *DataSet) SetValue(name string, value interface{}) {
	old, exists := ds.values[name]
	if !exists {
		ds.mustBeFree(name)
	}
	ds.values[name] = value
	if exists && equalValues(old, value) {
		return
	}
	for _, l := range ds.valueListeners {
		l(name, old, value)
	}
}

// OnValueChange registers a listener for named scalar value changes.
func (ds *DataSet) OnValueChange(l ValueListener) {
	ds.valueListeners = append(ds.valueListeners, l)
}

// Value returns the named scalar value, or nil.
func (ds *DataSet) Value(name string) interface{} { return ds.values[name] }

// Rename changes the registry key of whichever member holds the old
// name. The rename is transactional: it either fully succeeds or, when
// the new name is taken or the old name unknown, fails with an error and
// no registry is touched.
func (ds *DataSet) Rename(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	if ds.nameTaken(newName) {
		return fmt.Errorf("dataset: name %q already registered", newName)
	}
	if t, ok := ds.tables[oldName]; ok {
		delete(ds.tables, oldName)
		t.name = newName
		ds.tables[newName] = t
		for i, n := range ds.tableOrder {
			if n == oldName {
				ds.tableOrder[i] = newName
			}
		}
		return nil
	}
	if rel, ok := ds.relations[oldName]; ok {
		delete(ds.relations, oldName)
		rel.name = newName
		ds.relations[newName] = rel
		return nil
	}
	if v, ok := ds.values[oldName]; ok {
		delete(ds.values, oldName)
		ds.values[newName] = v
		return nil
	}
	return fmt.Errorf("dataset: no member named %q", oldName)
}

// severColumn clears the dropped column from every relation referencing
// it, so relations never dangle.
func (ds *DataSet) severColumn(col *Column) {
	for _, rel := range ds.relations {
		if rel.parentColumn == col {
			rel.parentColumn = nil
		}
		if rel.childColumn == col {
			rel.childColumn = nil
		}
	}
}

// SetUIRunner installs the UI-thread runner on every registered table.
func (ds *DataSet) SetUIRunner(run func(func())) {
	for _, t := range ds.tables {
		t.SetUIRunner(run)
	}
}

// LoadAndWait reloads every table through its provider, grouping tables
// that share a provider into one Load call, blocking until done. Table
// mutations and events go through each table's UI runner; the loading
// goroutine never touches a table the UI thread may be reading.
func (ds *DataSet) LoadAndWait() {
	for _, group := range ds.providerGroups() {
		for _, t := range group {
			t.RunOnUI(func() {
				t.fireTableEvent(TableEvent{Kind: TableLoadStart})
				t.Clear()
			})
		}
		if err := group[0].provider.Load(group...); err != nil {
			logProviderFailure("load", group, err)
		}
		for _, t := range group {
			t.RunOnUI(func() {
				t.fireTableEvent(TableEvent{Kind: TableLoadComplete})
			})
		}
	}
}

// Load runs LoadAndWait on the shared background worker.
func (ds *DataSet) Load() {
	submit("dataset load", func() { ds.LoadAndWait() })
}

// SaveAndWait persists every table through its provider, grouping tables
// that share a provider, blocking until done. There is no transactional
// rollback across tables: a failing provider leaves its tables in
// whatever partial state it managed to apply.
func (ds *DataSet) SaveAndWait() {
	for _, group := range ds.providerGroups() {
		for _, t := range group {
			t.RunOnUI(func() {
				t.fireTableEvent(TableEvent{Kind: TableSaveStart})
			})
		}
		if err := group[0].provider.Save(group...); err != nil {
			logProviderFailure("save", group, err)
		}
		for _, t := range group {
			t.RunOnUI(func() {
				t.fireTableEvent(TableEvent{Kind: TableSaveComplete})
			})
		}
	}
}

// Save runs SaveAndWait on the shared background worker.
func (ds *DataSet) Save() {
	submit("dataset save", func() { ds.SaveAndWait() })
}

// Refresh is LoadAndWait run asynchronously; an alias kept for callers
// that think in terms of refreshing stale views.
func (ds *DataSet) Refresh() { ds.Load() }

// providerGroups buckets tables by provider identity, in table
// registration order, skipping tables without one.
func (ds *DataSet) providerGroups() [][]*Table {
	var groups [][]*Table
	index := make(map[Provider]int)
	for _, name := range ds.tableOrder {
		t := ds.tables[name]
		if t.provider == nil || t.readOnlyView {
			continue
		}
		if i, ok := index[t.provider]; ok {
			groups[i] = append(groups[i], t)
			continue
		}
		index[t.provider] = len(groups)
		groups = append(groups, []*Table{t})
	}
	return groups
}

func logProviderFailure(op string, group []*Table, err error) {
	names := make([]string, len(group))
	for i, t := range group {
		names[i] = t.name
	}
	debugLogf("%s of tables %v failed: %v", op, names, err)
}

// TypeOf is a small helper for callers declaring column types:
// dataset.TypeOf("") yields the string type, dataset.TypeOf(0) int, etc.
func TypeOf(v interface{}) reflect.Type { return reflect.TypeOf(v) }
