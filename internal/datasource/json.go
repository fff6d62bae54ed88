package datasource

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/bubbles/pkg/model"
)

//go:embed fixtures/refugees.json
var builtinJSON []byte

// BuiltinRecords returns the bundled refugee dataset.
func BuiltinRecords() ([]model.Record, error) {
	return ParseJSON(bytes.NewReader(builtinJSON))
}

// ParseJSON reads a JSON array of {"name", "value"} objects.
func ParseJSON(r io.Reader) ([]model.Record, error) {
	var records []model.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode JSON records: %w", err)
	}
	return records, nil
}

// DefaultMaxLineSize is the default buffer size for JSONL lines (1MB).
const DefaultMaxLineSize = 1024 * 1024

// ParseJSONL reads one record per line. Blank lines are skipped; any
// malformed line fails the whole read with its line number.
func ParseJSONL(r io.Reader) ([]model.Record, error) {
	reader := bufio.NewReaderSize(r, DefaultMaxLineSize)

	var records []model.Record
	lineNum := 0
	for {
		lineNum++
		line, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("error reading records at line %d: %w", lineNum, err)
		}
		if lineNum == 1 {
			line = stripBOM(line)
		}

		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var rec model.Record
			if uerr := json.Unmarshal(trimmed, &rec); uerr != nil {
				return nil, fmt.Errorf("malformed JSON on line %d: %w", lineNum, uerr)
			}
			records = append(records, rec)
		}

		if err == io.EOF {
			break
		}
	}
	return records, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}
