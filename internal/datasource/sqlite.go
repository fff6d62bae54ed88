package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/bubbles/pkg/model"
)

// SQLiteReader provides read access to a dataset table
type SQLiteReader struct {
	db    *sql.DB
	path  string
	table string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}
	if !tableName.MatchString(source.Table) {
		return nil, fmt.Errorf("invalid table name %q", source.Table)
	}

	// Open in read-only mode
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:    db,
		path:  source.Path,
		table: source.Table,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords reads the name and value columns in rowid order. Values are
// read as text so that they go through the same parsing as file sources.
func (r *SQLiteReader) LoadRecords(ctx context.Context) ([]model.Record, error) {
	// table is validated against tableName, so quoting it is sufficient.
	query := fmt.Sprintf(`SELECT name, CAST(value AS TEXT) FROM "%s" ORDER BY rowid`, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var name, value sql.NullString
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", r.table, len(records), err)
		}
		records = append(records, model.Record{Name: name.String, Value: value.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of rows in the table
func (r *SQLiteReader) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, r.table)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// WriteSQLite creates (or replaces) table in the database at path and fills
// it with records.
func WriteSQLite(ctx context.Context, path, table string, records []model.Record) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table),
		fmt.Sprintf(`CREATE TABLE "%s" (name TEXT NOT NULL, value TEXT)`, table),
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("prepare table: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO "%s" (name, value) VALUES (?, ?)`, table))
	if err != nil {
		return err
	}
	defer insert.Close()
	for i, rec := range records {
		if _, err := insert.ExecContext(ctx, rec.Name, rec.Value); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}
