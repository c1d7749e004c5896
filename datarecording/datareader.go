package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// Filter narrows the rows that a read returns.
type Filter struct {
	// Where is a condition without the "WHERE" keyword, for example
	// "Time > ? AND Reason = ?".
	Where string
	Args  []any

	// OrderBy is a sort clause without the "ORDER BY" keywords.
	OrderBy string

	// Limit caps the number of rows. 0 reads all rows.
	Limit  int
	Offset int
}

func (f Filter) whereClause() string {
	if f.Where == "" {
		return ""
	}

	return " WHERE " + f.Where
}

// Reader reads back the tables that a DataRecorder wrote.
type Reader struct {
	db *sql.DB
}

// OpenReader opens a recording file for reading.
func OpenReader(filename string) (*Reader, error) {
	db, err := sql.Open("sqlite3", "file:"+filename+"?mode=ro")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open recording %s: %w", filename, err)
	}

	return &Reader{db: db}, nil
}

// NewReaderWithDB reads from an already opened database. Closing the
// reader closes the database.
func NewReaderWithDB(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// Tables lists the tables in the recording, sorted by name.
func (r *Reader) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// Count returns the number of rows in the table that pass the filter.
// Ordering and paging are ignored.
func (r *Reader) Count(
	ctx context.Context,
	table string,
	filter Filter,
) (int, error) {
	var n int

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+filter.whereClause(),
		filter.Args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	return n, nil
}

// ExecInfo returns the properties that an ExecRecorder wrote, keyed by
// property name.
func (r *Reader) ExecInfo(ctx context.Context) (map[string]string, error) {
	entries, err := Select[ExecInfo](ctx, r, execInfoTable, Filter{})
	if err != nil {
		return nil, err
	}

	info := make(map[string]string, len(entries))
	for _, e := range entries {
		info[e.Property] = e.Value
	}

	return info, nil
}

// Close closes the underlying database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Select reads the rows of a table into entries of type T. The table must
// have been created with a T sample entry, so that every exported field of
// T names a column.
func Select[T any](
	ctx context.Context,
	r *Reader,
	table string,
	filter Filter,
) ([]T, error) {
	var sample T
	if reflect.TypeOf(sample).Kind() != reflect.Struct {
		return nil, fmt.Errorf("select %s: %T is not a struct", table, sample)
	}

	columns := structs.Names(sample)

	var q strings.Builder

	q.WriteString("SELECT ")
	q.WriteString(strings.Join(columns, ", "))
	q.WriteString(" FROM ")
	q.WriteString(table)
	q.WriteString(filter.whereClause())

	if filter.OrderBy != "" {
		q.WriteString(" ORDER BY " + filter.OrderBy)
	}

	if filter.Limit > 0 {
		fmt.Fprintf(&q, " LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, q.String(), filter.Args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var entries []T

	for rows.Next() {
		var e T

		v := reflect.ValueOf(&e).Elem()
		targets := make([]any, len(columns))

		for i, c := range columns {
			targets[i] = v.FieldByName(c).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("select %s: %w", table, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
