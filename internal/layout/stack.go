package layout

import "github.com/tailhook/tilenol/internal/rect"

// Mode selects how a Stack renders its member windows: the whole list
// tiled equally along the stack's axis, or only the top of the list shown
// (spec.md §3 "rendered either as single-visible or as equal-tiled"). This
// generalizes tile.py's Stack.tile boolean.
type Mode int

const (
	// Tiled splits the stack's rectangle equally among every window in
	// the list, along Axis.
	Tiled Mode = iota
	// Single shows only the first window in the list and hides the rest.
	Single
)

// Axis is the direction a Stack tiles its windows along, or a Split
// partitions its children along.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Stack is a leaf layout node: an ordered, named list of windows rendered
// either tiled or single-visible (spec.md §3, §4.6).
type Stack struct {
	Name string
	Mode Mode
	Axis Axis

	weight   int
	size     *uint32
	minSize  uint32
	limit    *int
	priority *int

	windows []Window
	box     rect.Rect
}

// defaultPriority is the auto-placement priority a Stack gets when
// StackConfig doesn't specify one, matching tile.py's Stack.priority
// class default of 100 (every stack participates in auto-placement
// unless explicitly opted out via ManualOnly).
const defaultPriority = 100

// StackConfig carries the declarative per-stack attributes spec.md §4.6
// names: Weight (default 1), Size (absolute pixels, optional), MinSize
// (default 32), Limit (capacity, optional), Priority (lower first).
// Setting ManualOnly excludes the stack from auto-placement entirely
// (spec.md §4.6 "priority... None = manual-only") — it can still receive
// windows whose lprops.stack names it explicitly.
type StackConfig struct {
	Name       string
	Mode       Mode
	Axis       Axis
	Weight     int
	Size       *uint32
	MinSize    *uint32
	Limit      *int
	Priority   *int
	ManualOnly bool
}

// NewStack builds a Stack from its declarative configuration, applying
// the spec.md §4.6 defaults (Weight=1, MinSize=32, Priority=100).
func NewStack(cfg StackConfig) *Stack {
	weight := cfg.Weight
	if weight == 0 {
		weight = 1
	}
	minSize := uint32(32)
	if cfg.MinSize != nil {
		minSize = *cfg.MinSize
	}
	var priority *int
	switch {
	case cfg.ManualOnly:
		priority = nil
	case cfg.Priority != nil:
		priority = cfg.Priority
	default:
		p := defaultPriority
		priority = &p
	}
	return &Stack{
		Name:     cfg.Name,
		Mode:     cfg.Mode,
		Axis:     cfg.Axis,
		weight:   weight,
		size:     cfg.Size,
		minSize:  minSize,
		limit:    cfg.Limit,
		priority: priority,
	}
}

func (s *Stack) Bounds() rect.Rect   { return s.box }
func (s *Stack) setBounds(r rect.Rect) { s.box = r }
func (s *Stack) Empty() bool         { return len(s.windows) == 0 }
func (s *Stack) Weight() int         { return s.weight }
func (s *Stack) MinSize() uint32     { return s.minSize }

func (s *Stack) PixelSize() (uint32, bool) {
	if s.size == nil {
		return 0, false
	}
	return *s.size, true
}

// Full reports whether the stack has reached its configured capacity
// (spec.md §3 "a stack marked full never receives auto-placements").
func (s *Stack) Full() bool {
	return s.limit != nil && len(s.windows) >= *s.limit
}

// Priority returns the stack's auto-placement priority and whether one is
// configured at all (nil priority means manual-only: this stack is never
// chosen by the auto-placement walk, only by an explicit lprops.stack
// match, spec.md §4.6 add/remove).
func (s *Stack) Priority() (int, bool) {
	if s.priority == nil {
		return 0, false
	}
	return *s.priority, true
}

// Add appends win to the stack and records the assignment on the window
// itself (spec.md §4.10 "written back... under _TN_LP_STACK so a restart
// can recover placement").
func (s *Stack) Add(win Window) {
	s.windows = append(s.windows, win)
	win.SetStackName(s.Name)
}

// Remove deletes win from the stack's window list. win must currently be a
// member; callers dispatch via the window's recorded stack name (spec.md
// §4.6 "remove(window) dispatches to the stack recorded on the window").
func (s *Stack) Remove(win Window) {
	for i, w := range s.windows {
		if w.ID() == win.ID() {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return
		}
	}
}

// ShiftUp rotates the window order so the first window moves to the end
// (tile.py's Stack.up).
func (s *Stack) ShiftUp() {
	if len(s.windows) < 2 {
		return
	}
	first := s.windows[0]
	s.windows = append(s.windows[1:], first)
}

// ShiftDown rotates the window order so the last window moves to the
// front (tile.py's Stack.down).
func (s *Stack) ShiftDown() {
	if len(s.windows) < 2 {
		return
	}
	last := s.windows[len(s.windows)-1]
	s.windows = append([]Window{last}, s.windows[:len(s.windows)-1]...)
}

// IndexOf returns the position of win in the stack's list, or -1.
func (s *Stack) IndexOf(win Window) int {
	for i, w := range s.windows {
		if w.ID() == win.ID() {
			return i
		}
	}
	return -1
}

// Windows returns the stack's member list in order.
func (s *Stack) Windows() []Window { return s.windows }

// EvictFirst removes and returns the first window in the stack, used by
// the Split's full-neighbor swap eviction (spec.md §4.6 "if the target
// stack is full, evict its first window back into the source").
func (s *Stack) EvictFirst() (Window, bool) {
	if len(s.windows) == 0 {
		return nil, false
	}
	w := s.windows[0]
	s.windows = s.windows[1:]
	return w, true
}

// InsertFront inserts win at the front of the stack's list, used by the
// same eviction swap to place the evicted window back into the stack it
// came from.
func (s *Stack) InsertFront(win Window) {
	s.windows = append([]Window{win}, s.windows...)
	win.SetStackName(s.Name)
}

func (s *Stack) AllWindows() []Window {
	out := make([]Window, len(s.windows))
	copy(out, s.windows)
	return out
}

// Relayout places every window in the stack within Bounds(), per spec.md
// §4.6: tiled splits the rectangle equally along Axis (rounding handled
// the same way Split partitions: the last window absorbs remainder, per
// tile.py's Stack.layout using `floor(n/vc*extent)` cumulative bounds);
// single shows only the first window and hides the rest.
func (s *Stack) Relayout() {
	switch s.Mode {
	case Single:
		if len(s.windows) == 0 {
			return
		}
		top := s.windows[0]
		top.SetBounds(s.box)
		top.Show()
		for _, w := range s.windows[1:] {
			w.Hide()
		}
	default: // Tiled
		n := len(s.windows)
		if n == 0 {
			return
		}
		var extent uint32
		if s.Axis == Vertical {
			extent = s.box.Height
		} else {
			extent = s.box.Width
		}
		var cum uint32
		var start uint32
		for i, w := range s.windows {
			cum = uint32((int64(i+1) * int64(extent)) / int64(n))
			length := cum - start
			var b rect.Rect
			if s.Axis == Vertical {
				b = rect.Rect{X: s.box.X, Y: s.box.Y + int32(start), Width: s.box.Width, Height: length}
			} else {
				b = rect.Rect{X: s.box.X + int32(start), Y: s.box.Y, Width: length, Height: s.box.Height}
			}
			w.SetBounds(b)
			w.Show()
			start = cum
		}
	}
}
