package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements [Store] on a single on-device SQLite file. The
// pure-Go driver keeps the kiosk free of cgo and an external database
// server.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// questionTables maps each category to its table and scoping column.
// General rows carry no scoping columns at all.
var questionTables = map[Category]struct {
	table    string
	scopeCol string
}{
	CategoryGeneral: {table: "general_questions"},
	CategoryGroup:   {table: "group_questions", scopeCol: "grupa"},
	CategorySeries:  {table: "series_questions", scopeCol: "serie"},
}

// OpenSQLite opens (or creates) the database at path, enables WAL mode,
// and ensures the schema exists. Parent directories are created if needed.
func OpenSQLite(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	logger.Info("knowledge base opened", "path", path)
	return s, nil
}

// createSchema creates the identity and question tables if they do not exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS students (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			nume       TEXT NOT NULL UNIQUE,
			grupa      TEXT NOT NULL DEFAULT '',
			serie      TEXT NOT NULL DEFAULT '',
			facultate  TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS general_questions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			intrebare  TEXT NOT NULL,
			raspuns    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS group_questions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			facultate  TEXT NOT NULL DEFAULT '',
			grupa      TEXT NOT NULL DEFAULT '',
			intrebare  TEXT NOT NULL,
			raspuns    TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS series_questions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			facultate  TEXT NOT NULL DEFAULT '',
			serie      TEXT NOT NULL DEFAULT '',
			intrebare  TEXT NOT NULL,
			raspuns    TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// FindStudent looks a student up by exact name match.
func (s *SQLiteStore) FindStudent(ctx context.Context, name string) (*Student, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT nume, grupa, serie, facultate FROM students WHERE nume = ?", name)

	var st Student
	err := row.Scan(&st.Name, &st.Group, &st.Series, &st.Faculty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find student %q: %w", name, err)
	}
	return &st, nil
}

// AddStudent inserts an identity row.
func (s *SQLiteStore) AddStudent(ctx context.Context, st *Student) error {
	if err := st.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO students (nume, grupa, serie, facultate) VALUES (?, ?, ?, ?)",
		st.Name, st.Group, st.Series, st.Faculty)
	if err != nil {
		return fmt.Errorf("store: add student %q: %w", st.Name, err)
	}
	s.logger.Info("student added", "name", st.Name, "group", st.Group)
	return nil
}

// QuestionsByCategory returns every row of one category table, ordered by
// insertion (rowid) so candidate order is stable across calls.
func (s *SQLiteStore) QuestionsByCategory(ctx context.Context, c Category) ([]QuestionRecord, error) {
	meta, ok := questionTables[c]
	if !ok {
		return nil, fmt.Errorf("store: category %q is invalid", c)
	}

	query := "SELECT intrebare, raspuns FROM " + meta.table + " ORDER BY id"
	if meta.scopeCol != "" {
		query = "SELECT intrebare, raspuns, facultate, " + meta.scopeCol +
			" FROM " + meta.table + " ORDER BY id"
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: scan %s: %w", meta.table, err)
	}
	defer rows.Close()

	var records []QuestionRecord
	for rows.Next() {
		rec := QuestionRecord{Category: c}
		if meta.scopeCol != "" {
			err = rows.Scan(&rec.Question, &rec.Answer, &rec.Faculty, &rec.Scope)
		} else {
			err = rows.Scan(&rec.Question, &rec.Answer)
		}
		if err != nil {
			return nil, fmt.Errorf("store: scan %s row: %w", meta.table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan %s: %w", meta.table, err)
	}
	return records, nil
}

// AddQuestion inserts a question row into its category table.
func (s *SQLiteStore) AddQuestion(ctx context.Context, q *QuestionRecord) error {
	if err := q.Validate(); err != nil {
		return err
	}
	meta := questionTables[q.Category]

	var err error
	if meta.scopeCol == "" {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO general_questions (intrebare, raspuns) VALUES (?, ?)",
			q.Question, q.Answer)
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO "+meta.table+" (facultate, "+meta.scopeCol+", intrebare, raspuns) VALUES (?, ?, ?, ?)",
			q.Faculty, q.Scope, q.Question, q.Answer)
	}
	if err != nil {
		return fmt.Errorf("store: add %s question: %w", q.Category, err)
	}
	s.logger.Info("question added", "category", q.Category, "question", q.Question)
	return nil
}

// AllQuestionText returns every question and answer string across the
// three category tables.
func (s *SQLiteStore) AllQuestionText(ctx context.Context) ([]string, error) {
	var texts []string
	for _, c := range []Category{CategoryGeneral, CategoryGroup, CategorySeries} {
		records, err := s.QuestionsByCategory(ctx, c)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if rec.Question != "" {
				texts = append(texts, rec.Question)
			}
			if rec.Answer != "" {
				texts = append(texts, rec.Answer)
			}
		}
	}
	return texts, nil
}

// Ping verifies the database handle, for readiness checks.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
