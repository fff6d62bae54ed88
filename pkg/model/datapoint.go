// Package model defines the records the bubble chart is built from.
package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
)

// ErrInvalidDataPoint is the sentinel wrapped by every ValidationError.
var ErrInvalidDataPoint = errors.New("invalid data point")

// PointID identifies a data point by its position in the loaded sequence.
// Duplicate names remain distinct points.
type PointID int

// DataPoint is one country and its refugee count.
type DataPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Record is the wire form of a data point. The value is kept as text because
// the source data stores counts as strings; numeric JSON values are accepted too.
type Record struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts both {"value": "12"} and {"value": 12}.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Name = raw.Name
	r.Value = ""

	v := bytes.TrimSpace(raw.Value)
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
	case v[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		r.Value = s
	default:
		r.Value = string(v)
	}
	return nil
}

// ValidationError describes a record that cannot become a DataPoint.
type ValidationError struct {
	Index  int
	Name   string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d (%q): value %q %s", e.Index, e.Name, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDataPoint
}

// ParseRecord converts one record, validating its value.
func ParseRecord(index int, r Record) (DataPoint, error) {
	text := strings.TrimSpace(r.Value)
	if text == "" {
		return DataPoint{}, &ValidationError{Index: index, Name: r.Name, Value: r.Value, Reason: "is empty"}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return DataPoint{}, &ValidationError{Index: index, Name: r.Name, Value: r.Value, Reason: "is not numeric"}
	}
	p := DataPoint{Name: strings.TrimSpace(r.Name), Value: v}
	if err := p.validate(); err != "" {
		return DataPoint{}, &ValidationError{Index: index, Name: r.Name, Value: r.Value, Reason: err}
	}
	return p, nil
}

// Parse converts records in order. Every invalid record is reported and no
// points are returned when any record fails.
func Parse(records []Record) ([]DataPoint, error) {
	points := make([]DataPoint, 0, len(records))
	var errs []error
	for i, r := range records {
		p, err := ParseRecord(i, r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		points = append(points, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return points, nil
}

// Validate checks already-numeric points, e.g. ones built in code.
func Validate(points []DataPoint) error {
	var errs []error
	for i, p := range points {
		if reason := p.validate(); reason != "" {
			errs = append(errs, &ValidationError{
				Index:  i,
				Name:   p.Name,
				Value:  strconv.FormatFloat(p.Value, 'g', -1, 64),
				Reason: reason,
			})
		}
	}
	return errors.Join(errs...)
}

func (p DataPoint) validate() string {
	switch {
	case math.IsNaN(p.Value) || math.IsInf(p.Value, 0):
		return "is not finite"
	case p.Value < 0:
		return "is negative"
	}
	return ""
}

// FormatValue renders a count with thousands separators: 2681269 -> "2,681,269".
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}
