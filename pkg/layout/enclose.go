package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"
)

// Enclose returns the smallest circle enclosing every given circle using
// Welzl's move-to-front algorithm. Input order does not affect the result;
// circles are shuffled with a fixed seed so runs are reproducible.
func Enclose(circles []Circle) Circle {
	if len(circles) == 0 {
		return Circle{}
	}
	shuffled := make([]Circle, len(circles))
	copy(shuffled, circles)
	rng := rand.New(rand.NewPCG(0x9e3779b9, 0x7f4a7c15))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var (
		basis []Circle
		e     Circle
		have  bool
	)
	for i := 0; i < len(shuffled); {
		p := shuffled[i]
		if have && enclosesWeak(e, p) {
			i++
			continue
		}
		next, ok := extendBasis(basis, p)
		if !ok {
			return looseEnclose(circles)
		}
		basis = next
		e = encloseBasis(basis)
		have = true
		i = 0
	}
	return e
}

func extendBasis(basis []Circle, p Circle) ([]Circle, bool) {
	if enclosesWeakAll(p, basis) {
		return []Circle{p}, true
	}

	for _, b := range basis {
		if enclosesNot(p, b) && enclosesWeakAll(encloseBasis2(b, p), basis) {
			return []Circle{b, p}, true
		}
	}

	for i := 0; i < len(basis)-1; i++ {
		for j := i + 1; j < len(basis); j++ {
			bi, bj := basis[i], basis[j]
			if enclosesNot(encloseBasis2(bi, bj), p) &&
				enclosesNot(encloseBasis2(bi, p), bj) &&
				enclosesNot(encloseBasis2(bj, p), bi) &&
				enclosesWeakAll(encloseBasis3(bi, bj, p), basis) {
				return []Circle{bi, bj, p}, true
			}
		}
	}
	return nil, false
}

// enclosesNot reports whether a fails to contain b.
func enclosesNot(a, b Circle) bool {
	dr := a.R - b.R
	d2 := r2.Norm2(r2.Sub(b.Center, a.Center))
	return dr < 0 || dr*dr < d2
}

// enclosesWeak reports whether a contains b, with a small relative tolerance.
func enclosesWeak(a, b Circle) bool {
	dr := a.R - b.R + math.Max(math.Max(a.R, b.R), 1)*1e-9
	d2 := r2.Norm2(r2.Sub(b.Center, a.Center))
	return dr > 0 && dr*dr > d2
}

func enclosesWeakAll(a Circle, basis []Circle) bool {
	for _, b := range basis {
		if !enclosesWeak(a, b) {
			return false
		}
	}
	return true
}

func encloseBasis(basis []Circle) Circle {
	switch len(basis) {
	case 1:
		return basis[0]
	case 2:
		return encloseBasis2(basis[0], basis[1])
	default:
		return encloseBasis3(basis[0], basis[1], basis[2])
	}
}

func encloseBasis2(a, b Circle) Circle {
	d := r2.Sub(b.Center, a.Center)
	l := r2.Norm(d)
	if l == 0 {
		if a.R >= b.R {
			return a
		}
		return b
	}
	mid := r2.Add(r2.Add(a.Center, b.Center), r2.Scale((b.R-a.R)/l, d))
	return Circle{Center: r2.Scale(0.5, mid), R: (l + a.R + b.R) / 2}
}

func encloseBasis3(a, b, c Circle) Circle {
	x1, y1, r1 := a.Center.X, a.Center.Y, a.R
	x2, y2, rb := b.Center.X, b.Center.Y, b.R
	x3, y3, r3 := c.Center.X, c.Center.Y, c.R

	a2 := x1 - x2
	a3 := x1 - x3
	b2 := y1 - y2
	b3 := y1 - y3
	c2 := rb - r1
	c3 := r3 - r1
	d1 := x1*x1 + y1*y1 - r1*r1
	d2 := d1 - x2*x2 - y2*y2 + rb*rb
	d3 := d1 - x3*x3 - y3*y3 + r3*r3
	ab := a3*b2 - a2*b3
	xa := (b2*d3-b3*d2)/(ab*2) - x1
	xb := (b3*c2 - b2*c3) / ab
	ya := (a3*d2-a2*d3)/(ab*2) - y1
	yb := (a2*c3 - a3*c2) / ab
	qa := xb*xb + yb*yb - 1
	qb := 2 * (r1 + xa*xb + ya*yb)
	qc := xa*xa + ya*ya - r1*r1

	var r float64
	if math.Abs(qa) > 1e-6 {
		r = -(qb + math.Sqrt(qb*qb-4*qa*qc)) / (2 * qa)
	} else {
		r = -(qc / qb)
	}
	return Circle{Center: r2.Vec{X: x1 + xa + xb*r, Y: y1 + ya + yb*r}, R: r}
}

// looseEnclose is a guaranteed (not minimal) enclosing circle around the
// centroid, used only when the exact basis search degenerates.
func looseEnclose(circles []Circle) Circle {
	var c r2.Vec
	for _, ci := range circles {
		c = r2.Add(c, ci.Center)
	}
	c = r2.Scale(1/float64(len(circles)), c)
	var r float64
	for _, ci := range circles {
		r = math.Max(r, r2.Norm(r2.Sub(ci.Center, c))+ci.R)
	}
	return Circle{Center: c, R: r}
}
