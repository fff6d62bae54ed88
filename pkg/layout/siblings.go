package layout

import "math"

// chainLink is an element of the front chain: the ring of circles on the
// outside of the packing so far.
type chainLink struct {
	n          *Node
	next, prev *chainLink
}

// packSiblings places nodes tangent to each other around the origin using
// the front-chain heuristic, translates them so their enclosing circle is
// centred on the origin, and returns that circle's radius.
func packSiblings(nodes []*Node) float64 {
	n := len(nodes)
	if n == 0 {
		return 0
	}

	a := nodes[0]
	a.X, a.Y = 0, 0
	if n == 1 {
		return a.R
	}

	b := nodes[1]
	a.X, b.X, b.Y = -b.R, a.R, 0
	if n == 2 {
		return a.R + b.R
	}

	place(b, a, nodes[2])

	la := &chainLink{n: a}
	lb := &chainLink{n: b}
	lc := &chainLink{n: nodes[2]}
	la.next, lc.prev = lb, lb
	lb.next, la.prev = lc, lc
	lc.next, lb.prev = la, la

pack:
	for i := 3; i < n; i++ {
		place(la.n, lb.n, nodes[i])
		c := &chainLink{n: nodes[i]}

		// Find the closest circle on the front chain that intersects c,
		// measuring closeness as distance along the chain in either direction.
		j, k := lb.next, la.prev
		sj, sk := lb.n.R, la.n.R
		for {
			if sj <= sk {
				if intersects(j.n, c.n) {
					lb = j
					la.next, lb.prev = lb, la
					i--
					continue pack
				}
				sj += j.n.R
				j = j.next
			} else {
				if intersects(k.n, c.n) {
					la = k
					la.next, lb.prev = lb, la
					i--
					continue pack
				}
				sk += k.n.R
				k = k.prev
			}
			if j == k.next {
				break
			}
		}

		// Insert c between a and b.
		c.prev, c.next = la, lb
		la.next, lb.prev = c, c
		lb = c

		// The new pair to place against is the one closest to the centroid.
		best := score(la)
		for c = c.next; c != lb; c = c.next {
			if s := score(c); s < best {
				la, best = c, s
			}
		}
		lb = la.next
	}

	chain := []Circle{lb.n.Circle()}
	for c := lb.next; c != lb; c = c.next {
		chain = append(chain, c.n.Circle())
	}
	e := Enclose(chain)

	for _, node := range nodes {
		node.X -= e.Center.X
		node.Y -= e.Center.Y
	}
	return e.R
}

// place positions c tangent to both a and b.
func place(b, a, c *Node) {
	dx, dy := b.X-a.X, b.Y-a.Y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		c.X = a.X + c.R
		c.Y = a.Y
		return
	}

	a2 := (a.R + c.R) * (a.R + c.R)
	b2 := (b.R + c.R) * (b.R + c.R)
	if a2 > b2 {
		x := (d2 + b2 - a2) / (2 * d2)
		y := math.Sqrt(math.Max(0, b2/d2-x*x))
		c.X = b.X - x*dx - y*dy
		c.Y = b.Y - x*dy + y*dx
		return
	}
	x := (d2 + a2 - b2) / (2 * d2)
	y := math.Sqrt(math.Max(0, a2/d2-x*x))
	c.X = a.X + x*dx - y*dy
	c.Y = a.Y + x*dy + y*dx
}

func intersects(a, b *Node) bool {
	dr := a.R + b.R - 1e-6
	dx, dy := b.X-a.X, b.Y-a.Y
	return dr > 0 && dr*dr > dx*dx+dy*dy
}

// score is the squared distance from the origin to the weighted midpoint of
// a link and its successor.
func score(l *chainLink) float64 {
	a, b := l.n, l.next.n
	ab := a.R + b.R
	dx := (a.X*b.R + b.X*a.R) / ab
	dy := (a.Y*b.R + b.Y*a.R) / ab
	return dx*dx + dy*dy
}
