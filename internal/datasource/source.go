// Package datasource finds and reads the datasets a chart is drawn from: the
// bundled refugee fixture, JSON and JSONL files, and SQLite tables.
package datasource

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeBuiltin is the refugee dataset compiled into the binary
	SourceTypeBuiltin SourceType = "builtin"
	// SourceTypeJSON is a file holding one JSON array of records
	SourceTypeJSON SourceType = "json"
	// SourceTypeJSONL is a file holding one JSON record per line
	SourceTypeJSONL SourceType = "jsonl"
	// SourceTypeSQLite is a table in a SQLite database
	SourceTypeSQLite SourceType = "sqlite"
)

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "refugees"

// DataSource describes where a dataset lives.
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the file path; empty for the builtin source
	Path string `json:"path,omitempty"`
	// Table is the SQLite table holding name and value columns
	Table string `json:"table,omitempty"`
}

// Builtin is the bundled refugee dataset.
var Builtin = DataSource{Type: SourceTypeBuiltin}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	switch s.Type {
	case SourceTypeBuiltin:
		return "builtin refugee dataset"
	case SourceTypeSQLite:
		return fmt.Sprintf("%s (sqlite, table=%s)", s.Path, s.Table)
	}
	return fmt.Sprintf("%s (%s)", s.Path, s.Type)
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sqliteMagic opens every SQLite 3 database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// Detect picks the source type for path from its extension, falling back to
// sniffing the SQLite header. An empty path selects the builtin dataset.
func Detect(path, table string) (DataSource, error) {
	if path == "" {
		return Builtin, nil
	}
	if table == "" {
		table = DefaultTable
	}

	src := DataSource{Path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		src.Type = SourceTypeJSON
	case ".jsonl", ".ndjson":
		src.Type = SourceTypeJSONL
	case ".db", ".sqlite", ".sqlite3":
		src.Type = SourceTypeSQLite
	default:
		isDB, err := hasSQLiteHeader(path)
		if err != nil {
			return DataSource{}, err
		}
		if !isDB {
			return DataSource{}, fmt.Errorf("cannot determine data format of %s (want .json, .jsonl or a SQLite database)", path)
		}
		src.Type = SourceTypeSQLite
	}

	if src.Type == SourceTypeSQLite {
		if !tableName.MatchString(table) {
			return DataSource{}, fmt.Errorf("invalid table name %q", table)
		}
		src.Table = table
	}
	return src, nil
}

func hasSQLiteHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open data source: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(header, sqliteMagic), nil
}
