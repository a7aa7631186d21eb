package systems

import "github.com/pthm-cable/invaders/components"

// Boxed is anything with an axis-aligned bounding box.
type Boxed interface {
	Bounds() components.Rect
}

// Quadtree is a region-query index over boxes. It is rebuilt from the current
// entity snapshot each tick rather than updated incrementally.
//
// Objects are pushed into the deepest quadrant that fully contains them;
// objects straddling a quadrant boundary stay at the node that contains them,
// so no inserted object is ever lost.
type Quadtree[T Boxed] struct {
	bounds   components.Rect
	capacity int
	depth    int
	objects  []T
	children *[4]Quadtree[T]
}

// maxQuadtreeDepth stops subdivision for degenerate inputs (many identical boxes).
const maxQuadtreeDepth = 8

// NewQuadtree creates an empty index covering bounds.
func NewQuadtree[T Boxed](bounds components.Rect, capacity int) *Quadtree[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Quadtree[T]{bounds: bounds, capacity: capacity}
}

// Insert adds obj. It returns false when obj is not fully inside the tree's
// bounds; callers must handle such objects themselves.
func (q *Quadtree[T]) Insert(obj T) bool {
	if !Contains(q.bounds, obj.Bounds()) {
		return false
	}
	q.insert(obj)
	return true
}

func (q *Quadtree[T]) insert(obj T) {
	if q.children == nil {
		if len(q.objects) < q.capacity || q.depth >= maxQuadtreeDepth {
			q.objects = append(q.objects, obj)
			return
		}
		q.subdivide()
	}

	for i := range q.children {
		if Contains(q.children[i].bounds, obj.Bounds()) {
			q.children[i].insert(obj)
			return
		}
	}
	q.objects = append(q.objects, obj)
}

// subdivide splits the node into four quadrants and pushes down whatever of
// its current objects fits in one of them.
func (q *Quadtree[T]) subdivide() {
	b := q.bounds
	hw, hh := b.W/2, b.H/2
	q.children = &[4]Quadtree[T]{
		{bounds: components.Rect{X: b.X, Y: b.Y, W: hw, H: hh}},
		{bounds: components.Rect{X: b.X + hw, Y: b.Y, W: hw, H: hh}},
		{bounds: components.Rect{X: b.X, Y: b.Y + hh, W: hw, H: hh}},
		{bounds: components.Rect{X: b.X + hw, Y: b.Y + hh, W: hw, H: hh}},
	}
	for i := range q.children {
		q.children[i].capacity = q.capacity
		q.children[i].depth = q.depth + 1
	}

	kept := q.objects[:0]
	for _, obj := range q.objects {
		placed := false
		for i := range q.children {
			if Contains(q.children[i].bounds, obj.Bounds()) {
				q.children[i].objects = append(q.children[i].objects, obj)
				placed = true
				break
			}
		}
		if !placed {
			kept = append(kept, obj)
		}
	}
	q.objects = kept
}

// Query appends every object whose box intersects region to dst and returns
// the extended slice. Result order follows the tree layout, not insertion.
func (q *Quadtree[T]) Query(region components.Rect, dst []T) []T {
	if !Intersects(q.bounds, region) {
		return dst
	}
	for _, obj := range q.objects {
		if Intersects(obj.Bounds(), region) {
			dst = append(dst, obj)
		}
	}
	if q.children != nil {
		for i := range q.children {
			dst = q.children[i].Query(region, dst)
		}
	}
	return dst
}

// Len returns the number of objects stored.
func (q *Quadtree[T]) Len() int {
	n := len(q.objects)
	if q.children != nil {
		for i := range q.children {
			n += q.children[i].Len()
		}
	}
	return n
}
