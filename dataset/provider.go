package dataset

import (
	"databind/internal/debuglog"
)

// Provider is the narrow persistence boundary of the dataset layer.
// Implementations fill tables on Load and persist row statuses on Save.
// A provider applying many rows should do so in chunks through
// Table.RunOnUI so a slow source does not freeze the UI.
type Provider interface {
	Load(tables ...*Table) error
	Save(tables ...*Table) error
}

// Connection is an optional open/close companion to a Provider with a
// logical connected flag. A failed open is logged, not propagated.
type Connection interface {
	Open() error
	Close() error
	Connected() bool
}

// SetProvider assigns the table's provider. Materialized join views
// reject the assignment with a logged warning.
func (t *Table) SetProvider(p Provider) {
	if t.readOnlyView {
		debuglog.Log(logPrefix, debuglog.LevelWarn, debuglog.UseGlobal,
			"setProvider ignored: table %q is a read-only relation view", t.name)
		return
	}
	t.provider = p
}

// Provider returns the table's provider, or nil.
func (t *Table) Provider() Provider { return t.provider }

// LoadAndWait clears the table and reloads it through its provider,
// blocking until done. Provider failures are logged and leave the table
// in whatever partial state the provider managed to apply; the load
// complete event fires either way. The clear and the events go through
// the UI runner: when the load runs on the background worker, the UI
// thread may be reading the table concurrently, so every mutation and
// notification must land on the UI thread alongside the row chunks.
func (t *Table) LoadAndWait() {
	if t.provider == nil {
		return
	}
	t.RunOnUI(func() {
		t.fireTableEvent(TableEvent{Kind: TableLoadStart})
		t.Clear()
	})
	if err := t.provider.Load(t); err != nil {
		debuglog.Log(logPrefix, debuglog.LevelError, debuglog.UseGlobal,
			"load of table %q failed: %v", t.name, err)
	}
	t.RunOnUI(func() {
		t.fireTableEvent(TableEvent{Kind: TableLoadComplete})
	})
}

// Load runs LoadAndWait on the shared background worker so a slow
// provider does not block the caller. There is no cancellation; the task
// runs to completion or fails via a logged error.
func (t *Table) Load() {
	submit("load "+t.name, func() { t.LoadAndWait() })
}

// SaveAndWait persists the table through its provider, blocking until
// done. Join views refuse with a logged warning.
func (t *Table) SaveAndWait() {
	if t.readOnlyView {
		debuglog.Log(logPrefix, debuglog.LevelWarn, debuglog.UseGlobal,
			"save ignored: table %q is a read-only relation view", t.name)
		return
	}
	if t.provider == nil {
		return
	}
	t.RunOnUI(func() {
		t.fireTableEvent(TableEvent{Kind: TableSaveStart})
	})
	if err := t.provider.Save(t); err != nil {
		debuglog.Log(logPrefix, debuglog.LevelError, debuglog.UseGlobal,
			"save of table %q failed: %v", t.name, err)
	}
	t.RunOnUI(func() {
		t.fireTableEvent(TableEvent{Kind: TableSaveComplete})
	})
}

// Save runs SaveAndWait on the shared background worker.
func (t *Table) Save() {
	submit("save "+t.name, func() { t.SaveAndWait() })
}
