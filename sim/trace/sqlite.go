package trace

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
)

const (
	createPoolTable = `CREATE TABLE IF NOT EXISTS pool_events (
		run       TEXT    NOT NULL,
		seq       INTEGER NOT NULL,
		clock     REAL    NOT NULL,
		pool      TEXT    NOT NULL,
		kind      TEXT    NOT NULL,
		in_use    INTEGER NOT NULL,
		capacity  INTEGER NOT NULL,
		queue_len INTEGER NOT NULL
	)`
	createEventTable = `CREATE TABLE IF NOT EXISTS executed_events (
		run     TEXT    NOT NULL,
		seq     INTEGER NOT NULL,
		clock   REAL    NOT NULL,
		process TEXT    NOT NULL
	)`
	insertPool  = `INSERT INTO pool_events (run, seq, clock, pool, kind, in_use, capacity, queue_len) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertEvent = `INSERT INTO executed_events (run, seq, clock, process) VALUES (?, ?, ?, ?)`
)

// SQLiteWriter buffers trace records and writes them to a SQLite database in
// batches. Buffered records are flushed on Close and, as a fallback, when the
// process leaves through atexit.Exit.
type SQLiteWriter struct {
	db        *sql.DB
	path      string
	batchSize int

	pools  []PoolRecord
	events []EventRecord
	closed bool
}

// NewSQLiteWriter creates the database file and its tables. An empty path
// picks a unique name in the working directory. Refuses to overwrite an
// existing file.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if path == "" {
		path = "regsim_trace_" + xid.New().String()
	}
	if !strings.HasSuffix(path, ".sqlite3") {
		path += ".sqlite3"
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("trace database %s already exists", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}
	for _, stmt := range []string{createPoolTable, createEventTable} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating trace tables: %w", err)
		}
	}
	logrus.Infof("Database created for tracing: %s", path)

	w := &SQLiteWriter{
		db:        db,
		path:      path,
		batchSize: 100000,
	}
	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			logrus.Errorf("flushing trace database %s: %v", w.path, err)
		}
	})
	return w, nil
}

// Path returns the database file name.
func (w *SQLiteWriter) Path() string {
	return w.path
}

// Write buffers all records of st, flushing when the buffer is full.
func (w *SQLiteWriter) Write(st *SimulationTrace) error {
	if w.closed {
		return fmt.Errorf("trace database %s is closed", w.path)
	}
	if st == nil {
		return nil
	}
	w.pools = append(w.pools, st.Pools...)
	w.events = append(w.events, st.Events...)
	if len(w.pools)+len(w.events) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes every buffered record in a single transaction.
func (w *SQLiteWriter) Flush() error {
	if w.closed || (len(w.pools) == 0 && len(w.events) == 0) {
		return nil
	}
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning trace transaction: %w", err)
	}
	if err := w.insertAll(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trace records: %w", err)
	}
	logrus.Debugf("Flushed %d pool and %d event records to %s", len(w.pools), len(w.events), w.path)
	w.pools = w.pools[:0]
	w.events = w.events[:0]
	return nil
}

func (w *SQLiteWriter) insertAll(tx *sql.Tx) error {
	poolStmt, err := tx.Prepare(insertPool)
	if err != nil {
		return fmt.Errorf("preparing pool insert: %w", err)
	}
	defer func() { _ = poolStmt.Close() }()
	for _, r := range w.pools {
		if _, err := poolStmt.Exec(r.Run, r.Seq, r.Clock, r.Pool, string(r.Kind), r.InUse, r.Capacity, r.QueueLen); err != nil {
			return fmt.Errorf("inserting pool record: %w", err)
		}
	}

	eventStmt, err := tx.Prepare(insertEvent)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer func() { _ = eventStmt.Close() }()
	for _, r := range w.events {
		if _, err := eventStmt.Exec(r.Run, int64(r.Seq), r.Clock, r.Process); err != nil {
			return fmt.Errorf("inserting event record: %w", err)
		}
	}
	return nil
}

// Close flushes outstanding records and closes the database.
func (w *SQLiteWriter) Close() error {
	if w.closed {
		return nil
	}
	flushErr := w.Flush()
	w.closed = true
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("closing trace database: %w", err)
	}
	return flushErr
}

// CountPoolRecords returns the number of stored pool records for run, or for
// every run when run is empty.
func (w *SQLiteWriter) CountPoolRecords(run string) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("trace database %s is closed", w.path)
	}
	query := `SELECT COUNT(*) FROM pool_events`
	args := []any{}
	if run != "" {
		query += ` WHERE run = ?`
		args = append(args, run)
	}
	var n int
	if err := w.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pool records: %w", err)
	}
	return n, nil
}
