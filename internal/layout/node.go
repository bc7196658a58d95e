// Package layout implements the composable split/stack tree of spec.md
// §4.6: a tree of Split and Stack nodes that maps a rectangle and an
// ordered set of windows to per-window rectangles. It is grounded on
// tilenol/layout/tile.py's Stack/Tile classes (space allocation,
// up/down rotation, stackcommand decorator) generalized from Tile's flat
// "one Split" model into the arbitrarily-nestable tree spec.md §2/§4.6
// describe, and on marwind's wm/render.go for the "compute geometry, then
// issue one SetBounds/Show/Hide pass" control flow.
package layout

import "github.com/tailhook/tilenol/internal/rect"

// WindowID identifies a managed window without the layout engine needing
// to hold a live reference to it — per spec.md §9's "store windows in an
// arena keyed by X id; every other reference is an index or weak handle".
type WindowID uint32

// Window is the layout engine's view of a managed client: enough to place
// it and to remember which Stack it belongs to (so a restart can recover
// placement via _TN_LP_STACK, spec.md §4.10).
type Window interface {
	ID() WindowID
	SetBounds(r rect.Rect)
	Show()
	Hide()
	StackName() string
	SetStackName(name string)
}

// Node is one element of the layout tree: either a *Stack (leaf) or a
// *Split (internal node containing further Nodes, almost always Stacks
// per the worked examples in spec.md §4.6 but not restricted to them —
// a Split's children satisfy Node, so a Split may itself be a child of
// another Split, realizing the "composable... tree" of spec.md §2).
type Node interface {
	// Bounds returns the rectangle last assigned by the parent.
	Bounds() rect.Rect
	// setBounds is called by the parent once it has computed this
	// child's box; the node does not reassign its own position.
	setBounds(r rect.Rect)
	// Empty reports whether this node currently holds no windows at all
	// (used by a non-fixed Split to skip it when allocating space).
	Empty() bool
	// Weight is this node's share of flexible space.
	Weight() int
	// PixelSize returns a fixed pixel size for this node along the
	// parent Split's axis, if one was configured.
	PixelSize() (uint32, bool)
	// MinSize is the floor below which this node's box never shrinks.
	MinSize() uint32
	// Relayout recomputes this node's own internal placement (for a
	// Split: partitions Bounds() among children; for a Stack: places its
	// visible windows within Bounds()) and applies SetBounds/Show/Hide
	// to every window it owns.
	Relayout()
	// AllWindows returns every window owned transitively by this node,
	// used by the invariant checks in spec.md §8 and by Group.AllWindows.
	AllWindows() []Window
}
