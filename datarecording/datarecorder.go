// Package datarecording stores simulation records in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder buffers rows and writes them to tables in batches.
type DataRecorder interface {
	// CreateTable creates a table with one column per field of the sample
	// entry. Fields must be exported and of a basic kind.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers a row. The entry must have the type of the table's
	// sample entry.
	InsertData(tableName string, entry any)

	// ListTables returns the tables in creation order.
	ListTables() []string

	// Flush writes the buffered rows in one transaction.
	Flush()

	// Close records the end of the run, flushes and closes the database.
	// Closing twice is a no-op.
	Close() error
}

const defaultBatchSize = 100000

// New creates a DataRecorder that writes to path + ".sqlite3". An empty path
// picks a unique name. The file must not exist yet. The start and end of the
// current process are recorded in the exec_info table, and the recorder is
// closed at exit if the caller does not close it.
func New(path string) DataRecorder {
	if path == "" {
		path = "casesim_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w := newSQLiteWriter(db)
	w.exec = newExecRecorder(w)
	w.exec.Start()

	atexit.Register(func() { _ = w.Close() })

	return w
}

// NewWithDB creates a DataRecorder on an open database. No exec_info is
// recorded and the database is only flushed at exit.
func NewWithDB(db *sql.DB) DataRecorder {
	w := newSQLiteWriter(db)

	atexit.Register(w.Flush)

	return w
}

type table struct {
	name     string
	rowType  reflect.Type
	columns  []string
	buffered []any
}

type sqliteWriter struct {
	lock sync.Mutex

	db        *sql.DB
	tables    map[string]*table
	order     []*table
	batchSize int
	buffered  int

	exec   *execRecorder
	closed bool
}

func newSQLiteWriter(db *sql.DB) *sqliteWriter {
	return &sqliteWriter{
		db:        db,
		tables:    make(map[string]*table),
		batchSize: defaultBatchSize,
	}
}

// columnType maps a field kind to a SQLite column type. Kinds that cannot
// be stored return "".
func columnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.String:
		return "TEXT"
	default:
		return ""
	}
}

func columnsOf(entry any) ([]string, error) {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entry %T is not a struct", entry)
	}

	columns := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			return nil, fmt.Errorf("field %s of %s is not exported", field.Name, t)
		}

		sqlType := columnType(field.Type.Kind())
		if sqlType == "" {
			return nil, fmt.Errorf("field %s of %s is not a basic type", field.Name, t)
		}

		columns = append(columns, field.Name+" "+sqlType)
	}

	return columns, nil
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	w.lock.Lock()
	defer w.lock.Unlock()

	columns, err := columnsOf(sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, exists := w.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	w.mustExecute(fmt.Sprintf("CREATE TABLE %s (\n\t%s\n);",
		tableName, strings.Join(columns, ",\n\t")))

	t := &table{
		name:    tableName,
		rowType: reflect.TypeOf(sampleEntry),
		columns: structs.Names(sampleEntry),
	}
	w.tables[tableName] = t
	w.order = append(w.order, t)
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	w.lock.Lock()
	defer w.lock.Unlock()

	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.rowType {
		panic(fmt.Sprintf("entry of type %T does not fit table %s",
			entry, tableName))
	}

	t.buffered = append(t.buffered, entry)
	w.buffered++

	if w.buffered >= w.batchSize {
		w.flushLocked()
	}
}

func (w *sqliteWriter) ListTables() []string {
	w.lock.Lock()
	defer w.lock.Unlock()

	names := make([]string, len(w.order))
	for i, t := range w.order {
		names[i] = t.name
	}

	return names
}

func (w *sqliteWriter) Flush() {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.flushLocked()
}

func (w *sqliteWriter) flushLocked() {
	if w.buffered == 0 {
		return
	}

	tx, err := w.db.Begin()
	if err != nil {
		panic(err)
	}

	for _, t := range w.order {
		if len(t.buffered) == 0 {
			continue
		}

		if err := insertRows(tx, t); err != nil {
			_ = tx.Rollback()
			panic(fmt.Errorf("write table %s: %w", t.name, err))
		}

		t.buffered = nil
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}

	w.buffered = 0
}

func insertRows(tx *sql.Tx, t *table) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.name, strings.Join(t.columns, ", "), placeholders))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.buffered {
		if _, err := stmt.Exec(structs.Values(row)...); err != nil {
			return err
		}
	}

	return nil
}

func (w *sqliteWriter) Close() error {
	w.lock.Lock()
	if w.closed {
		w.lock.Unlock()
		return nil
	}

	w.closed = true
	exec := w.exec
	w.lock.Unlock()

	if exec != nil {
		exec.End()
	}

	w.Flush()

	return w.db.Close()
}

func (w *sqliteWriter) mustExecute(query string) {
	if _, err := w.db.Exec(query); err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}
}
