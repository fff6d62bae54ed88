//go:build ignore

// generate_testdata.go creates synthetic datasets for benchmarking the chart.
// Usage: go run scripts/generate_testdata.go
//
// Creates, for each size, a JSONL file and a SQLite database:
//
//	testdata/benchmark/small.{jsonl,db}   (100 points)
//	testdata/benchmark/medium.{jsonl,db}  (1000 points)
//	testdata/benchmark/large.{jsonl,db}   (5000 points)
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/bubbles/internal/datasource"
	"github.com/vanderheijden86/bubbles/pkg/model"
	"github.com/vanderheijden86/bubbles/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
}

var datasets = []datasetSpec{
	{"small", 100},
	{"medium", 1000},
	{"large", 5000},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%d points)...\n", ds.name, ds.size)

		cfg := testutil.DefaultConfig()
		cfg.Seed = uint64(ds.size) // reproducible per size
		records := testutil.New(cfg).Records(ds.size)

		jsonl, err := toJSONL(records)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		jsonlPath := filepath.Join(outputDir, ds.name+".jsonl")
		if err := os.WriteFile(jsonlPath, jsonl, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", jsonlPath, err)
			os.Exit(1)
		}

		dbPath := filepath.Join(outputDir, ds.name+".db")
		if err := datasource.WriteSQLite(ctx, dbPath, datasource.DefaultTable, records); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", dbPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d bytes) and %s\n", jsonlPath, len(jsonl), dbPath)
	}

	fmt.Println("\nDone! Test datasets created in", outputDir)
}

func toJSONL(records []model.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
