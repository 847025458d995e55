package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rusenback/bpmmon/internal/audit"
	_ "modernc.org/sqlite"
)

// ErrClosed is returned by Write once the storage is closed
var ErrClosed = errors.New("storage closed")

// Storage is the local audit database
type Storage struct {
	db        *sql.DB
	retention time.Duration
	writeChan chan audit.Event
	closeChan chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewStorage opens (and creates if needed) the database at dbPath and
// starts the background writer. retention <= 0 disables cleanup.
func NewStorage(dbPath string, retention time.Duration) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Storage{
		db:        db,
		retention: retention,
		writeChan: make(chan audit.Event, 1000),
		closeChan: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writer()

	if retention > 0 {
		s.wg.Add(1)
		go s.cleanup()
	}

	return s, nil
}

// createTables creates the database schema
func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS process_instances (
		id INTEGER PRIMARY KEY,
		process_def_id TEXT NOT NULL,
		process_name TEXT,
		deployment_id TEXT,
		server_template_id TEXT,
		status INTEGER,
		start_date INTEGER
	);

	CREATE TABLE IF NOT EXISTS node_instance_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		process_instance_id INTEGER NOT NULL,
		log_date INTEGER NOT NULL,
		node_name TEXT,
		node_type TEXT NOT NULL,
		type INTEGER NOT NULL,
		work_item_id INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_node_log_instance
	ON node_instance_log(process_instance_id, log_date);

	CREATE TABLE IF NOT EXISTS tasks (
		server_template_id TEXT NOT NULL,
		deployment_id TEXT NOT NULL,
		work_item_id INTEGER NOT NULL,
		task_id INTEGER,
		name TEXT,
		actual_owner TEXT,
		created_on INTEGER,
		description TEXT,
		status TEXT,
		PRIMARY KEY (server_template_id, deployment_id, work_item_id)
	);

	CREATE TABLE IF NOT EXISTS case_role_assignments (
		process_instance_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		users TEXT,
		groups_ TEXT,
		PRIMARY KEY (process_instance_id, name)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return createNodeKey(db)
}

// createNodeKey adds the natural key of node log rows, so replayed events
// without an engine log id are ignored too. Rows duplicated before the key
// existed are removed first.
func createNodeKey(db *sql.DB) error {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_node_log_natural'`).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := db.Exec(`
		DELETE FROM node_instance_log WHERE id NOT IN (
			SELECT MIN(id) FROM node_instance_log
			GROUP BY process_instance_id, log_date, IFNULL(node_name, ''), node_type, type, IFNULL(work_item_id, -1)
		)`); err != nil {
		return fmt.Errorf("failed to remove duplicate log rows: %w", err)
	}

	if _, err := db.Exec(`
		CREATE UNIQUE INDEX idx_node_log_natural ON node_instance_log(
			process_instance_id, log_date, IFNULL(node_name, ''), node_type, type, IFNULL(work_item_id, -1)
		)`); err != nil {
		return fmt.Errorf("failed to create log key: %w", err)
	}
	return nil
}

// Write queues an event for the background writer. It blocks while the
// queue is full, until ctx is done or the storage is closed.
func (s *Storage) Write(ctx context.Context, e audit.Event) error {
	select {
	case <-s.closeChan:
		return ErrClosed
	default:
	}

	select {
	case s.writeChan <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closeChan:
		return ErrClosed
	}
}

// Apply writes events synchronously in one transaction
func (s *Storage) Apply(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	return s.batchWrite(ctx, events)
}

// writer runs in background and batch writes to database
func (s *Storage) writer() {
	defer s.wg.Done()

	buffer := make([]audit.Event, 0, 100)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		if err := s.batchWrite(context.Background(), buffer); err != nil {
			log.Printf("storage: batch write of %d events failed: %v", len(buffer), err)
		}
		buffer = buffer[:0]
	}

	for {
		select {
		case e := <-s.writeChan:
			buffer = append(buffer, e)
			if len(buffer) >= 50 {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-s.closeChan:
			// Drain whatever is still queued, then final flush
			for {
				select {
				case e := <-s.writeChan:
					buffer = append(buffer, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// batchWrite writes a batch of events to the database
func (s *Storage) batchWrite(ctx context.Context, events []audit.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		if err := writeEvent(ctx, tx, e); err != nil {
			return fmt.Errorf("failed to write %s event for instance %d: %w", e.Kind, e.ProcessInstanceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func writeEvent(ctx context.Context, tx *sql.Tx, e audit.Event) error {
	switch e.Kind {
	case audit.KindProcessInstance:
		p := e.Instance()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO process_instances
			(id, process_def_id, process_name, deployment_id, server_template_id, status, start_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				process_name = COALESCE(NULLIF(excluded.process_name, ''), process_name),
				server_template_id = COALESCE(NULLIF(excluded.server_template_id, ''), server_template_id)
		`,
			p.ID,
			p.ProcessDefID,
			p.ProcessName,
			p.DeploymentID,
			p.ServerTemplateID,
			int(p.Status),
			p.StartDate.UnixMilli(),
		)
		return err

	case audit.KindNode:
		var logID any
		if e.LogID > 0 {
			logID = e.LogID
		}
		var workItemID any
		if e.WorkItemID != nil {
			workItemID = *e.WorkItemID
		}
		logType := 0
		if e.Completed {
			logType = 1
		}
		// the engine log id, or the natural key when there is none, makes
		// replays of the same stream idempotent
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO node_instance_log
			(id, process_instance_id, log_date, node_name, node_type, type, work_item_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			logID,
			e.ProcessInstanceID,
			e.Date.UnixMilli(),
			e.NodeName,
			e.NodeType,
			logType,
			workItemID,
		)
		return err

	case audit.KindTask:
		t := e.Task()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks
			(server_template_id, deployment_id, work_item_id, task_id, name, actual_owner, created_on, description, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(server_template_id, deployment_id, work_item_id) DO UPDATE SET
				task_id = excluded.task_id,
				name = excluded.name,
				actual_owner = excluded.actual_owner,
				description = excluded.description,
				status = excluded.status
		`,
			e.ServerTemplateID,
			e.DeploymentID,
			t.WorkItemID,
			t.TaskID,
			t.Name,
			t.ActualOwner,
			t.CreatedOn.UnixMilli(),
			t.Description,
			t.Status,
		)
		return err

	case audit.KindRole:
		r := e.Role()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO case_role_assignments (process_instance_id, name, users, groups_)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(process_instance_id, name) DO UPDATE SET
				users = excluded.users,
				groups_ = excluded.groups_
		`,
			e.ProcessInstanceID,
			r.Name,
			joinList(r.Users),
			joinList(r.Groups),
		)
		return err

	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
}

// cleanup removes old log rows periodically
func (s *Storage) cleanup() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-s.retention)
			if _, err := s.DeleteBefore(context.Background(), cutoff); err != nil {
				log.Printf("storage: cleanup failed: %v", err)
			}

		case <-s.closeChan:
			return
		}
	}
}

// DeleteBefore removes node log rows older than cutoff in batches to
// prevent long-running locks. It returns the number of rows removed.
func (s *Storage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const batchSize = 1000
	var total int64

	for {
		result, err := s.db.ExecContext(ctx, `
			DELETE FROM node_instance_log WHERE id IN (
				SELECT id FROM node_instance_log WHERE log_date < ? LIMIT ?
			)`,
			cutoff.UnixMilli(),
			batchSize,
		)
		if err != nil {
			return total, fmt.Errorf("failed to delete old log rows: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return total, err
		}
		total += rowsAffected
		if rowsAffected < batchSize {
			return total, nil
		}

		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Close flushes queued events and closes the database
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})
	s.wg.Wait()
	return s.db.Close()
}
