package testutil

import (
	"math"
	"sort"

	"github.com/vanderheijden86/bubbles/pkg/layout"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tolerance absorbs floating point error in geometry assertions.
const Tolerance = 1e-6

// TB is the subset of testing.TB (and *rapid.T) the assertions need.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertCircleCount verifies one circle was produced per value.
func AssertCircleCount(t TB, circles []layout.Circle, expected int) {
	t.Helper()
	if len(circles) != expected {
		t.Errorf("expected %d circles, got %d", expected, len(circles))
	}
}

// AssertNoOverlap verifies that no two circles overlap.
func AssertNoOverlap(t TB, circles []layout.Circle) {
	t.Helper()
	for i := 0; i < len(circles); i++ {
		for j := i + 1; j < len(circles); j++ {
			a, b := circles[i], circles[j]
			d := r2.Norm(r2.Sub(a.Center, b.Center))
			if d+Tolerance*math.Max(1, a.R+b.R) < a.R+b.R {
				t.Errorf("circles %d and %d overlap: distance %.6f < radii %.6f", i, j, d, a.R+b.R)
			}
		}
	}
}

// AssertInside verifies every circle lies within [x0, x0+size] on both axes.
func AssertInside(t TB, circles []layout.Circle, x0, size float64) {
	t.Helper()
	lo, hi := x0-Tolerance*size, x0+size+Tolerance*size
	for i, c := range circles {
		if c.Center.X-c.R < lo || c.Center.X+c.R > hi || c.Center.Y-c.R < lo || c.Center.Y+c.R > hi {
			t.Errorf("circle %d (%.3f,%.3f r=%.3f) leaves the canvas [%.1f, %.1f]", i, c.Center.X, c.Center.Y, c.R, x0, x0+size)
		}
	}
}

// AssertMonotonicRadii verifies that a larger value never gets a smaller
// radius than a smaller value.
func AssertMonotonicRadii(t TB, values []float64, circles []layout.Circle) {
	t.Helper()
	if len(values) != len(circles) {
		t.Errorf("values/circles length mismatch: %d vs %d", len(values), len(circles))
		return
	}
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })
	for k := 1; k < len(idx); k++ {
		prev, cur := idx[k-1], idx[k]
		if values[cur] > values[prev] && circles[cur].R+Tolerance < circles[prev].R {
			t.Errorf("value %v has radius %.6f, smaller than value %v with radius %.6f",
				values[cur], circles[cur].R, values[prev], circles[prev].R)
		}
	}
}
