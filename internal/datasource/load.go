package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/vanderheijden86/bubbles/pkg/debug"
	"github.com/vanderheijden86/bubbles/pkg/metrics"
	"github.com/vanderheijden86/bubbles/pkg/model"
)

// Load reads and parses a dataset. Every invalid record is reported and no
// points are returned when any record is invalid.
func Load(ctx context.Context, source DataSource) ([]model.DataPoint, error) {
	defer metrics.Timer(metrics.DataLoad)()

	records, err := LoadRecords(ctx, source)
	if err != nil {
		return nil, err
	}
	points, err := model.Parse(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	debug.Log("datasource: loaded %d points from %s", len(points), source)
	return points, nil
}

// LoadRecords reads the raw records of a source, dispatching to the
// appropriate reader based on source type.
func LoadRecords(ctx context.Context, source DataSource) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch source.Type {
	case SourceTypeBuiltin:
		return BuiltinRecords()

	case SourceTypeJSON, SourceTypeJSONL:
		f, err := os.Open(source.Path)
		if err != nil {
			return nil, fmt.Errorf("open data source: %w", err)
		}
		defer f.Close()
		if source.Type == SourceTypeJSON {
			return ParseJSON(f)
		}
		return ParseJSONL(f)

	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadRecords(ctx)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
