package scale

import (
	"image/color"
	"strconv"
)

// LegendEntry is one row of the colour key.
type LegendEntry struct {
	Bucket int
	Lower  float64 // inclusive lower bound of the bucket
	Label  string
	Color  color.RGBA
	Y      float64 // row offset from the top of the key
}

// Legend returns one entry per bucket, highest bucket first, each row
// rowHeight below the previous. The lowest bucket is labelled with floor,
// the smallest value the chart accepts.
func Legend(s ColorScale, rowHeight, floor float64) []LegendEntry {
	thresholds := s.Thresholds()
	palette := s.Palette()

	entries := make([]LegendEntry, 0, len(palette))
	for b := len(palette) - 1; b >= 0; b-- {
		lower := floor
		if b > 0 {
			lower = thresholds[b-1]
		}
		entries = append(entries, LegendEntry{
			Bucket: b,
			Lower:  lower,
			Label:  strconv.FormatFloat(lower, 'f', -1, 64),
			Color:  palette[b],
			Y:      float64(len(entries)) * rowHeight,
		})
	}
	return entries
}
