package layout

import "github.com/tailhook/tilenol/internal/rect"

// Tree is a full layout: a root Node (normally a *Split, occasionally a
// bare *Stack for something like tile.py's single-stack Max layout) plus
// the dirty-coalescing and direction-command wiring spec.md §4.6
// describes. A Group owns exactly one Tree at a time (spec.md §3).
type Tree struct {
	root   Node
	bounds rect.Rect
	dirty  bool
}

// NewTree wraps root as a complete, placeable layout.
func NewTree(root Node) *Tree {
	return &Tree{root: root}
}

// Root exposes the underlying node tree, e.g. for a gadget that wants to
// draw the current arrangement.
func (t *Tree) Root() Node { return t.root }

// SetBounds assigns the whole tree's rectangle and reassigns every node's
// box. Per spec.md §8 property 2, Σarea(children) == area(bounds) exactly
// after this call.
func (t *Tree) SetBounds(r rect.Rect) {
	t.bounds = r
	if split, ok := t.root.(*Split); ok {
		split.SetBounds(r)
	} else {
		t.root.setBounds(r)
	}
	t.dirty = true
}

// Add places win into the tree (spec.md §4.6 add semantics). Returns
// false if every eligible stack is full — the caller (Group.AddWindow)
// then floats the window instead.
func (t *Tree) Add(win Window) bool {
	var ok bool
	switch root := t.root.(type) {
	case *Split:
		ok = root.Add(win)
	case *Stack:
		if root.Full() {
			return false
		}
		root.Add(win)
		ok = true
	}
	if ok {
		t.dirty = true
	}
	return ok
}

// Remove takes win out of whichever stack holds it.
func (t *Tree) Remove(win Window) {
	switch root := t.root.(type) {
	case *Split:
		root.Remove(win)
	case *Stack:
		root.Remove(win)
	}
	t.dirty = true
}

// Relayout applies the pending box/membership changes to every window
// (SetBounds + Show/Hide), then clears the dirty flag. Per spec.md §4.6
// "multiple mutations within one event handler coalesce into one
// relayout", callers should mutate freely and call Relayout once at the
// end of the handler rather than after each mutation.
func (t *Tree) Relayout() {
	if !t.dirty {
		return
	}
	t.root.Relayout()
	t.dirty = false
}

// MarkDirty forces the next Relayout to run even if nothing tracked by
// Add/Remove/SetBounds changed (e.g. after a raw stack mutation like
// ShiftUp).
func (t *Tree) MarkDirty() { t.dirty = true }

// HideAll hides every window in the tree, used when a Group is hidden
// (spec.md §3 "a group with no screen has all its windows hidden").
func (t *Tree) HideAll() {
	for _, w := range t.root.AllWindows() {
		w.Hide()
	}
}

// ShowAll shows every window in the tree (called on Group.Show once it's
// bound to a screen again).
func (t *Tree) ShowAll() {
	for _, w := range t.root.AllWindows() {
		w.Show()
	}
}

// AllWindows returns every window in the tree, used to check spec.md §8
// property 1 (all_windows = stacks ⊎ floating) against the tiled half.
func (t *Tree) AllWindows() []Window { return t.root.AllWindows() }

// stackContaining finds the *Stack and, if the root is a *Split, the
// *Split that directly owns it, holding win.
func (t *Tree) stackContaining(win Window) (*Stack, *Split) {
	name := win.StackName()
	if split, ok := t.root.(*Split); ok {
		for _, c := range split.stacksOf() {
			if c.Name == name {
				return c, findOwner(split, c)
			}
		}
	}
	if st, ok := t.root.(*Stack); ok && st.Name == name {
		return st, nil
	}
	return nil, nil
}

func findOwner(root *Split, target *Stack) *Split {
	for _, c := range root.children {
		if st, ok := c.(*Stack); ok && st == target {
			return root
		}
		if sp, ok := c.(*Split); ok {
			if owner := findOwner(sp, target); owner != nil {
				return owner
			}
		}
	}
	return nil
}

// ShiftUp rotates win's stack so the first window moves to the back
// (spec.md §4.6 "shift_up/shift_down rotate the window order").
func (t *Tree) ShiftUp(win Window) {
	if st, _ := t.stackContaining(win); st != nil {
		st.ShiftUp()
		t.dirty = true
	}
}

// ShiftDown rotates win's stack so the last window moves to the front.
func (t *Tree) ShiftDown(win Window) {
	if st, _ := t.stackContaining(win); st != nil {
		st.ShiftDown()
		t.dirty = true
	}
}

// Move performs a cmd_left/right/up/down cross-stack motion for win
// (spec.md §4.6): the Split directly owning win's stack either rotates
// win within it (perpendicular axis) or swaps it with the neighbor stack
// along the Split's own axis, evicting the neighbor's first window on a
// full target.
func (t *Tree) Move(win Window, dir MoveDirection) {
	_, owner := t.stackContaining(win)
	if owner == nil {
		return
	}
	owner.MoveAcross(win, dir)
	t.dirty = true
}
