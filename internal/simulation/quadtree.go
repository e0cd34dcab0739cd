package simulation

import "math"

// maxQuadDepth bounds subdivision so near-coincident points share a leaf
const maxQuadDepth = 32

// quad is a square cell of the quadtree. Leaves hold point indices;
// internal cells hold up to four children.
type quad struct {
	x0, y0, x1, y1 float64
	children       [4]*quad
	points         []int
	internal       bool

	count    int
	cx, cy   float64 // strength-weighted centre
	strength float64 // summed strength
}

func (q *quad) contains(x, y float64) bool {
	return x >= q.x0 && x < q.x1 && y >= q.y0 && y < q.y1
}

func (q *quad) intersects(x0, y0, x1, y1 float64) bool {
	return x0 < q.x1 && x1 >= q.x0 && y0 < q.y1 && y1 >= q.y0
}

// quadtree indexes points given as parallel coordinate slices
type quadtree struct {
	root *quad
	xs   []float64
	ys   []float64
}

func newQuadtree(xs, ys []float64) *quadtree {
	t := &quadtree{xs: xs, ys: ys}
	if len(xs) == 0 {
		return t
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}
	size := math.Max(maxX-minX, maxY-minY) + 1
	t.root = &quad{x0: minX, y0: minY, x1: minX + size, y1: minY + size}

	for i := range xs {
		t.insert(t.root, i, 0)
	}
	return t
}

func (t *quadtree) same(a, b int) bool {
	return t.xs[a] == t.xs[b] && t.ys[a] == t.ys[b]
}

func (t *quadtree) insert(q *quad, i, depth int) {
	for {
		if !q.internal {
			if len(q.points) == 0 || depth >= maxQuadDepth || t.same(q.points[0], i) {
				q.points = append(q.points, i)
				return
			}
			existing := q.points
			q.points = nil
			q.internal = true
			for _, p := range existing {
				t.insert(t.child(q, p), p, depth+1)
			}
		}
		q = t.child(q, i)
		depth++
	}
}

// child returns (creating if needed) the quadrant of q holding point i
func (t *quadtree) child(q *quad, i int) *quad {
	mx, my := (q.x0+q.x1)/2, (q.y0+q.y1)/2
	idx := 0
	x0, x1, y0, y1 := q.x0, mx, q.y0, my
	if t.xs[i] >= mx {
		idx |= 1
		x0, x1 = mx, q.x1
	}
	if t.ys[i] >= my {
		idx |= 2
		y0, y1 = my, q.y1
	}
	if q.children[idx] == nil {
		q.children[idx] = &quad{x0: x0, y0: y0, x1: x1, y1: y1}
	}
	return q.children[idx]
}

// accumulate computes counts, summed strengths and |strength|-weighted
// centres bottom-up
func (t *quadtree) accumulate(strength func(i int) float64) {
	if t.root != nil {
		t.accumulateQuad(t.root, strength)
	}
}

func (t *quadtree) accumulateQuad(q *quad, strength func(i int) float64) {
	var weight, x, y, sum, plainX, plainY float64
	count := 0

	if q.internal {
		for _, c := range q.children {
			if c == nil {
				continue
			}
			t.accumulateQuad(c, strength)
			if c.count == 0 {
				continue
			}
			w := math.Abs(c.strength)
			sum += c.strength
			weight += w
			x += w * c.cx
			y += w * c.cy
			plainX += c.cx * float64(c.count)
			plainY += c.cy * float64(c.count)
			count += c.count
		}
	} else {
		for _, p := range q.points {
			s := strength(p)
			w := math.Abs(s)
			sum += s
			weight += w
			x += w * t.xs[p]
			y += w * t.ys[p]
			plainX += t.xs[p]
			plainY += t.ys[p]
			count++
		}
	}

	q.count = count
	q.strength = sum
	switch {
	case weight > 0:
		q.cx, q.cy = x/weight, y/weight
	case count > 0:
		q.cx, q.cy = plainX/float64(count), plainY/float64(count)
	}
}

// search calls fn for every point inside the rectangle [x0,x1]×[y0,y1]
func (t *quadtree) search(x0, y0, x1, y1 float64, fn func(i int)) {
	if t.root != nil {
		t.searchQuad(t.root, x0, y0, x1, y1, fn)
	}
}

func (t *quadtree) searchQuad(q *quad, x0, y0, x1, y1 float64, fn func(i int)) {
	if !q.intersects(x0, y0, x1, y1) {
		return
	}
	if q.internal {
		for _, c := range q.children {
			if c != nil {
				t.searchQuad(c, x0, y0, x1, y1, fn)
			}
		}
		return
	}
	for _, p := range q.points {
		if t.xs[p] >= x0 && t.xs[p] <= x1 && t.ys[p] >= y0 && t.ys[p] <= y1 {
			fn(p)
		}
	}
}
