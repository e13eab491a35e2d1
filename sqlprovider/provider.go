// Package sqlprovider persists dataset tables in Postgres through a
// single pgx connection. Table and column names map directly to SQL
// identifiers; computed (expression) columns are excluded from all
// statements.
package sqlprovider

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"databind/dataset"
	"databind/internal/debuglog"
)

const logPrefix = "sqlprovider"

// loadChunkSize bounds how many rows are applied to a table per UI-
// runner invocation, keeping event storms small and letting the UI
// render progressively during a long load.
const loadChunkSize = 50

// Provider implements dataset.Provider and dataset.Connection over one
// physical Postgres connection. A single connection is not safe for
// concurrent statement execution, so every operation serializes on mu.
type Provider struct {
	dsn string

	mu   sync.Mutex
	conn *pgx.Conn
}

func New(dsn string) *Provider { return &Provider{dsn: dsn} }

// Open establishes the connection. A failure is logged and leaves the
// provider disconnected.
func (p *Provider) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return nil
	}
	conn, err := pgx.Connect(context.Background(), p.dsn)
	if err != nil {
		debuglog.Log(logPrefix, debuglog.LevelError, debuglog.UseGlobal, "connect failed: %v", err)
		return err
	}
	p.conn = conn
	return nil
}

// Close tears down the connection; safe to call when not connected.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close(context.Background())
	p.conn = nil
	return err
}

// Connected reports whether a physical connection is established.
func (p *Provider) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

// Load fills each table from its backing SQL table, applying rows to
// the dataset in chunks through the table's UI runner.
func (p *Provider) Load(tables ...*dataset.Table) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return fmt.Errorf("sqlprovider: not connected")
	}
	for _, t := range tables {
		if err := p.loadTable(t); err != nil {
			return fmt.Errorf("sqlprovider: load %s: %w", t.Name(), err)
		}
	}
	return nil
}

func (p *Provider) loadTable(t *dataset.Table) error {
	cols := storedColumns(t)
	if len(cols) == 0 {
		return nil
	}
	rows, err := p.conn.Query(context.Background(), selectSQL(t))
	if err != nil {
		return err
	}
	defer rows.Close()

	var batch [][]interface{}
	flush := func() {
		if len(batch) == 0 {
			return
		}
		records := batch
		batch = nil
		t.RunOnUI(func() { applyRecords(t, cols, records) })
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		batch = append(batch, values)
		if len(batch) >= loadChunkSize {
			flush()
		}
	}
	flush()
	return rows.Err()
}

func applyRecords(t *dataset.Table, cols []*dataset.Column, records [][]interface{}) {
	for _, rec := range records {
		r := t.AppendRowNoEvent()
		for i, col := range cols {
			if i < len(rec) {
				r.SetValue(col, rec[i])
			}
		}
		r.SetStatus(dataset.StatusUnchanged)
	}
}

// Save walks each table's rows and issues DELETE, UPDATE or INSERT per
// row status, then reconciles the dataset: deleted rows are physically
// discarded and every surviving row rebases to UNCHANGED. Tables
// without key columns cannot be updated or deleted, only inserted into.
func (p *Provider) Save(tables ...*dataset.Table) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return fmt.Errorf("sqlprovider: not connected")
	}
	for _, t := range tables {
		if err := p.saveTable(t); err != nil {
			return fmt.Errorf("sqlprovider: save %s: %w", t.Name(), err)
		}
	}
	return nil
}

func (p *Provider) saveTable(t *dataset.Table) error {
	ctx := context.Background()
	keys := keyColumns(t)
	var discard []*dataset.Row
	var rebase []*dataset.Row

	for _, r := range t.Rows() {
		switch r.Status() {
		case dataset.StatusDeleted:
			if len(keys) == 0 {
				debuglog.Log(logPrefix, debuglog.LevelWarn, debuglog.UseGlobal,
					"cannot delete from %q: no key columns", t.Name())
				continue
			}
			sql, args := deleteStatement(t, r)
			if _, err := p.conn.Exec(ctx, sql, args...); err != nil {
				return err
			}
			discard = append(discard, r)
		case dataset.StatusUpdated:
			if len(keys) == 0 {
				debuglog.Log(logPrefix, debuglog.LevelWarn, debuglog.UseGlobal,
					"cannot update %q: no key columns", t.Name())
				continue
			}
			sql, args := updateStatement(t, r)
			if _, err := p.conn.Exec(ctx, sql, args...); err != nil {
				return err
			}
			rebase = append(rebase, r)
		case dataset.StatusInserted:
			sql, args := insertStatement(t, r)
			if _, err := p.conn.Exec(ctx, sql, args...); err != nil {
				return err
			}
			rebase = append(rebase, r)
		}
	}

	t.RunOnUI(func() {
		for _, r := range discard {
			t.DiscardRow(r)
		}
		for _, r := range rebase {
			r.SetStatus(dataset.StatusUnchanged)
		}
	})
	return nil
}
