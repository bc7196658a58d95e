package layout

import (
	"sort"

	"github.com/tailhook/tilenol/internal/rect"
)

// Split partitions its rectangle among an ordered set of fixed-identity
// children along Axis, per spec.md §4.6. Children are typically *Stack
// but any Node works, so a Split may nest another Split as a child.
type Split struct {
	Axis  Axis
	Fixed bool // if true, empty children still reserve space (spec.md §4.6 step 1)

	children []Node
	box      rect.Rect
	weight   int
}

// NewSplit builds a Split over children in the given declaration order —
// the order IS the arrangement order (spec.md §9 "runtime class scanning
// ... should be replaced by explicit ordered configuration records").
func NewSplit(axis Axis, fixed bool, children ...Node) *Split {
	return &Split{Axis: axis, Fixed: fixed, children: children, weight: 1}
}

func (s *Split) Bounds() rect.Rect     { return s.box }
func (s *Split) setBounds(r rect.Rect) { s.box = r }
func (s *Split) Weight() int           { return s.weight }
func (s *Split) MinSize() uint32       { return 0 }
func (s *Split) PixelSize() (uint32, bool) { return 0, false }

func (s *Split) Empty() bool {
	for _, c := range s.children {
		if !c.Empty() {
			return false
		}
	}
	return true
}

// Children exposes the direct child nodes in declaration order.
func (s *Split) Children() []Node { return s.children }

// stacksOf flattens every *Stack reachable under this Split, depth-first
// in declaration order — auto-placement and named-stack lookup both walk
// this flattened view, so a nested Split's stacks are still reachable by
// name from the root.
func (s *Split) stacksOf() []*Stack {
	var out []*Stack
	for _, c := range s.children {
		switch n := c.(type) {
		case *Stack:
			out = append(out, n)
		case *Split:
			out = append(out, n.stacksOf()...)
		}
	}
	return out
}

// SetBounds assigns the split's rectangle and immediately recomputes
// every child's box (the allocation algorithm below), then recurses into
// each child's own Relayout.
func (s *Split) SetBounds(r rect.Rect) {
	s.setBounds(r)
	s.assignBoxes()
}

// assignBoxes implements the space-allocation algorithm of spec.md §4.6,
// steps 1-5, verbatim:
//
//  1. Filter: if not Fixed, drop empty children from consideration.
//  2. Compute Σsize = Σ(child.size or child.minSize).
//  3. If Σsize > total, OR (no flexible child exists AND Σsize != total):
//     ignore pixel sizes entirely; partition total among ALL children by
//     weight. (This is the "wrong total" branch of spec.md §9's open
//     question #2: carried exactly as stated, even when every child
//     nominally requested a fixed size.)
//  4. Otherwise: honour every fixed-size child exactly; partition the
//     remainder among flexible (size == nil) children by weight.
//  5. Round via floor(cumWeight/totalWeight * remainder); the last
//     flexible child absorbs the rounding so Σ == total exactly.
func (s *Split) assignBoxes() {
	var active []Node
	if s.Fixed {
		active = s.children
	} else {
		for _, c := range s.children {
			if !c.Empty() {
				active = append(active, c)
			}
		}
	}
	if len(active) == 0 {
		return
	}

	var total uint32
	if s.Axis == Vertical {
		total = s.box.Width
	} else {
		total = s.box.Height
	}

	var sumSize uint32
	var hasFlexible bool
	for _, c := range active {
		if px, ok := c.PixelSize(); ok {
			sumSize += px
		} else {
			sumSize += c.MinSize()
			hasFlexible = true
		}
	}

	useWeights := sumSize > total || (!hasFlexible && sumSize != uint32(total))

	offsets := make([]uint32, len(active)+1)
	if useWeights {
		totalWeight := 0
		for _, c := range active {
			totalWeight += c.Weight()
		}
		if totalWeight == 0 {
			totalWeight = len(active)
		}
		var cumWeight int
		for i, c := range active {
			cumWeight += c.Weight()
			offsets[i+1] = uint32((int64(cumWeight) * int64(total)) / int64(totalWeight))
		}
	} else {
		// Honour fixed sizes exactly; partition the remainder among the
		// flexible (size == nil) children by weight.
		var fixedSum uint32
		flexWeight := 0
		for _, c := range active {
			if px, ok := c.PixelSize(); ok {
				fixedSum += px
			} else {
				flexWeight += c.Weight()
			}
		}
		remainder := total - fixedSum
		if flexWeight == 0 {
			flexWeight = 1
		}
		var cumWeight int
		var fixedSoFar uint32
		for i, c := range active {
			if px, ok := c.PixelSize(); ok {
				fixedSoFar += px
				offsets[i+1] = offsets[i] + px
			} else {
				cumWeight += c.Weight()
				offsets[i+1] = fixedSoFar + uint32((int64(cumWeight)*int64(remainder))/int64(flexWeight))
			}
		}
	}
	offsets[len(active)] = total // last child absorbs rounding exactly

	for i, c := range active {
		start, end := offsets[i], offsets[i+1]
		length := end - start
		var b rect.Rect
		if s.Axis == Vertical {
			b = rect.Rect{X: s.box.X + int32(start), Y: s.box.Y, Width: length, Height: s.box.Height}
		} else {
			b = rect.Rect{X: s.box.X, Y: s.box.Y + int32(start), Width: s.box.Width, Height: length}
		}
		c.setBounds(b)
	}
}

// Relayout reassigns child boxes (in case membership changed since the
// last SetBounds) and recurses into each child.
func (s *Split) Relayout() {
	s.assignBoxes()
	for _, c := range s.children {
		c.Relayout()
	}
}

// Add places win per spec.md §4.6: if the window's recorded stack name
// names an existing, non-full stack, insert there; otherwise walk the
// auto-placement stacks (those with a configured Priority) in priority
// order and insert into the first non-full one. Returns false if every
// eligible stack is full, telling the caller (Group.AddWindow) to make
// the window floating instead.
func (s *Split) Add(win Window) bool {
	stacks := s.stacksOf()

	if name := win.StackName(); name != "" {
		for _, st := range stacks {
			if st.Name == name && !st.Full() {
				st.Add(win)
				return true
			}
		}
	}

	auto := make([]*Stack, 0, len(stacks))
	for _, st := range stacks {
		if _, ok := st.Priority(); ok {
			auto = append(auto, st)
		}
	}
	sort.SliceStable(auto, func(i, j int) bool {
		pi, _ := auto[i].Priority()
		pj, _ := auto[j].Priority()
		return pi < pj
	})
	for _, st := range auto {
		if !st.Full() {
			st.Add(win)
			return true
		}
	}
	return false
}

// Remove dispatches to the stack recorded on the window.
func (s *Split) Remove(win Window) {
	name := win.StackName()
	for _, st := range s.stacksOf() {
		if st.Name == name {
			st.Remove(win)
			return
		}
	}
}

// stackIndex returns the direct-child index of the stack named name, and
// whether it was found among this Split's immediate Stack children (used
// by cross-stack motion, which only swaps between a Split's own direct
// children, not arbitrarily deep into nested Splits).
func (s *Split) stackIndex(name string) (int, bool) {
	for i, c := range s.children {
		if st, ok := c.(*Stack); ok && st.Name == name {
			return i, true
		}
	}
	return 0, false
}

// MoveAcross implements the cmd_left/right/up/down cross-stack motion of
// spec.md §4.6: along the Split's own axis it swaps win with its neighbor
// stack (evicting the neighbor's first window back into win's stack if
// the neighbor is full); across the perpendicular axis it just rotates
// win within its own stack. dir follows MoveDirection below.
func (s *Split) MoveAcross(win Window, dir MoveDirection) {
	idx, ok := s.stackIndex(win.StackName())
	if !ok {
		return
	}
	src := s.children[idx].(*Stack)

	parallel := (s.Axis == Vertical && (dir == MoveLeft || dir == MoveRight)) ||
		(s.Axis == Horizontal && (dir == MoveUp || dir == MoveDown))
	if !parallel {
		// Perpendicular to this split's axis: rotate within the stack.
		if dir == MoveUp || dir == MoveLeft {
			src.ShiftUp()
		} else {
			src.ShiftDown()
		}
		return
	}

	var targetIdx int
	switch dir {
	case MoveLeft, MoveUp:
		targetIdx = idx - 1
	case MoveRight, MoveDown:
		targetIdx = idx + 1
	}
	if targetIdx < 0 || targetIdx >= len(s.children) {
		return
	}
	dst, ok := s.children[targetIdx].(*Stack)
	if !ok {
		return
	}

	src.Remove(win)
	if dst.Full() {
		evicted, ok := dst.EvictFirst()
		dst.InsertFront(win)
		if ok {
			src.InsertFront(evicted)
		}
	} else {
		dst.Add(win)
	}
}

// MoveDirection names the four cross-stack motion commands of spec.md
// §4.6 ("cmd_left/right/up/down").
type MoveDirection int

const (
	MoveLeft MoveDirection = iota
	MoveRight
	MoveUp
	MoveDown
)

func (s *Split) AllWindows() []Window {
	var out []Window
	for _, c := range s.children {
		out = append(out, c.AllWindows()...)
	}
	return out
}
