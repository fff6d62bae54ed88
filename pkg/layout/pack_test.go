package layout_test

import (
	"math"
	"testing"

	"github.com/vanderheijden86/bubbles/pkg/layout"
	"github.com/vanderheijden86/bubbles/pkg/testutil"

	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"
)

func TestPack_ArubaAfghanistan(t *testing.T) {
	values := []float64{0, 2681269}
	circles := layout.NewPack(698, 698, 3).Pack(values)

	testutil.AssertCircleCount(t, circles, 2)
	if circles[1].R <= circles[0].R {
		t.Errorf("expected Afghanistan (r=%.3f) strictly larger than Aruba (r=%.3f)", circles[1].R, circles[0].R)
	}
	if circles[0].R != 0 {
		t.Errorf("zero value should have zero radius, got %v", circles[0].R)
	}
	testutil.AssertNoOverlap(t, circles)
	testutil.AssertInside(t, circles, 0, 698)
}

func TestPack_Empty(t *testing.T) {
	circles := layout.NewPack(700, 700, 3).Pack(nil)
	if len(circles) != 0 {
		t.Errorf("expected no circles, got %d", len(circles))
	}
}

func TestPack_SingleValue(t *testing.T) {
	circles := layout.NewPack(700, 700, 3).Pack([]float64{42})

	testutil.AssertCircleCount(t, circles, 1)
	c := circles[0]
	if math.Abs(c.Center.X-350) > 1e-9 || math.Abs(c.Center.Y-350) > 1e-9 {
		t.Errorf("expected single circle centred, got (%.3f, %.3f)", c.Center.X, c.Center.Y)
	}
	if c.R <= 300 || c.R > 350 {
		t.Errorf("expected single circle to nearly fill the canvas, got r=%.3f", c.R)
	}
}

func TestPack_AllZero(t *testing.T) {
	circles := layout.NewPack(700, 700, 3).Pack([]float64{0, 0, 0})

	testutil.AssertCircleCount(t, circles, 3)
	for i, c := range circles {
		if c.R != 0 {
			t.Errorf("circle %d: expected radius 0, got %v", i, c.R)
		}
		if math.IsNaN(c.Center.X) || math.IsNaN(c.Center.Y) {
			t.Errorf("circle %d: NaN centre", i)
		}
	}
}

func TestPack_Fixture(t *testing.T) {
	points := testutil.NewDefault().Dataset(221)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	circles := layout.NewPack(698, 698, 3).Pack(values)

	testutil.AssertCircleCount(t, circles, len(values))
	testutil.AssertNoOverlap(t, circles)
	testutil.AssertInside(t, circles, 0, 698)
	testutil.AssertMonotonicRadii(t, values, circles)
}

func TestPack_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := testutil.Values(0, 60).Draw(t, "values")
		size := rapid.Float64Range(50, 1200).Draw(t, "size")
		padding := rapid.Float64Range(0, 5).Draw(t, "padding")

		circles := layout.NewPack(size, size, padding).Pack(values)

		testutil.AssertCircleCount(t, circles, len(values))
		testutil.AssertNoOverlap(t, circles)
		testutil.AssertInside(t, circles, 0, size)
		testutil.AssertMonotonicRadii(t, values, circles)
	})
}

func TestPack_PaddingSeparatesSiblings(t *testing.T) {
	circles := layout.NewPack(700, 700, 3).Pack([]float64{100, 100, 100, 100})

	for i := 0; i < len(circles); i++ {
		for j := i + 1; j < len(circles); j++ {
			gap := r2.Norm(r2.Sub(circles[i].Center, circles[j].Center)) - circles[i].R - circles[j].R
			if gap < 0 {
				t.Errorf("circles %d and %d overlap by %.4f", i, j, -gap)
			}
			if gap > 1e-6 && gap < 1 {
				t.Errorf("circles %d and %d are nearly touching (gap %.4f) despite padding", i, j, gap)
			}
		}
	}
}

func TestHierarchy_SumAndLeaves(t *testing.T) {
	root := layout.NewHierarchy([]float64{1, 2, 3}).Sum()

	if root.Value != 6 {
		t.Errorf("expected root value 6, got %v", root.Value)
	}
	leaves := root.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("expected 3 leaves, got %d", len(leaves))
	}
	for i, l := range leaves {
		if l.Index != i || l.Depth != 1 || l.Parent != root {
			t.Errorf("leaf %d malformed: %+v", i, l)
		}
	}

	if got := layout.NewHierarchy(nil).Sum().Leaves(); len(got) != 0 {
		t.Errorf("empty hierarchy should have no leaves, got %d", len(got))
	}
}
