// Package memo implements the Standalone Builder's single-row memoization
// table (spec.md §6.3: "memoizes prior answers in a SQLite table keyed by
// column, offering the previous value as a default on the next run").
//
// Grounded on standalone.py's Standalone.__init__/ask: a table with one row
// and one column per question, created if absent, updated in place as each
// question is answered. The connection-pooling and driver-selection shape
// (typed Store wrapping *sql.DB, functional options, a DSN-vs-embedded-file
// switch) is grounded on the donor's pkg/database.Client, which opens
// lib/pq for Postgres; here the same DSN switch selects lib/pq when
// PROVTOOL_MEMO_DSN is set, or mattn/go-sqlite3 against the embedded
// per-directory default otherwise (SPEC_FULL.md DOMAIN STACK).
package memo

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// columns are the eight remembered fields from standalone.py's
// Standalone.__init__, in their original order.
var columns = []string{
	"entity_path",
	"author_family_name", "author_given_name",
	"activity_location", "activity_label", "activity_means", "activity_time",
	"entity_id",
}

// Store is the Standalone Builder's memoization backend: one row, one
// column per question, read-modify-update per Ask call.
type Store struct {
	db     *sql.DB
	driver string
}

// OpenSQLite opens (creating if absent) the embedded single-row memo
// database at path, mirroring standalone.py's sqlite3.connect(db) plus its
// "create table if not exists" / "insert ... values ('', '', ...)" bootstrap.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("memo: open sqlite: %w", err)
	}
	return open(db, "sqlite3")
}

// OpenPostgres opens the memo table against a Postgres DSN (lib/pq), used
// when PROVTOOL_MEMO_DSN is set (SPEC_FULL.md DOMAIN STACK: lib/pq kept for
// this component rather than dropped).
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("memo: open postgres: %w", err)
	}
	return open(db, "postgres")
}

func open(db *sql.DB, driver string) (*Store, error) {
	s := &Store{db: db, driver: driver}
	if err := s.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap() error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c + " varchar"
	}
	if _, err := s.db.Exec(fmt.Sprintf("create table if not exists provtool (%s)", strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("memo: create table: %w", err)
	}
	var count int
	if err := s.db.QueryRow("select count(*) from provtool").Scan(&count); err != nil {
		return fmt.Errorf("memo: count rows: %w", err)
	}
	if count == 0 {
		placeholders := make([]string, len(columns))
		for i := range placeholders {
			placeholders[i] = "''"
		}
		q := fmt.Sprintf("insert into provtool (%s) values (%s)", strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("memo: seed row: %w", err)
		}
	}
	return nil
}

// Get returns the remembered value for key (one of columns), or "" if
// never set.
func (s *Store) Get(key string) (string, error) {
	var v sql.NullString
	if err := s.db.QueryRow(fmt.Sprintf("select %s from provtool", key)).Scan(&v); err != nil {
		return "", fmt.Errorf("memo: get %s: %w", key, err)
	}
	return v.String, nil
}

// Set overwrites the remembered value for key, mirroring standalone.py's
// "update provtool set {} = ?" statement. Postgres requires its own
// positional placeholder syntax, unlike sqlite3's "?".
func (s *Store) Set(key, value string) error {
	placeholder := "?"
	if s.driver == "postgres" {
		placeholder = "$1"
	}
	_, err := s.db.Exec(fmt.Sprintf("update provtool set %s = %s", key, placeholder), value)
	if err != nil {
		return fmt.Errorf("memo: set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }
