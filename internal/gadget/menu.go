package gadget

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/tailhook/tilenol/internal/command"
	"github.com/tailhook/tilenol/internal/dispatch"
	"github.com/tailhook/tilenol/internal/overlay"
	"github.com/tailhook/tilenol/internal/rect"
	"github.com/tailhook/tilenol/internal/screen"
	"github.com/tailhook/tilenol/internal/xcore"
)

// Menu theme colors, named the way theme.menu.* fields are in the
// original rather than pulled from an unimplemented config.Config (config
// parsing is out of scope, spec.md §1).
const (
	menuBackground = 0x1d1f21
	menuText       = 0xc5c8c6
	menuHighlight  = 0x81a2be
	menuQueryText  = 0xffffff
)

// Menu is the incremental launcher gadget of spec.md §4.12, grounded on
// tilenol/gadgets/menu.py's Select: a single-line text field above a
// scrolling list of candidates, re-filtered on every keystroke. Filtering
// is a case-insensitive substring match rather than menu.py's literal
// str.startswith, per SPEC_FULL.md §12's "incremental fuzzy-substring
// filter" decision — a forgiving superset of the original's prefix-only
// behavior.
type Menu struct {
	overlay   *overlay.Overlay
	commander *command.Registry
	maxLines  int

	items    []string
	query    string
	filtered []string
	selected int

	onSelect func(string) error
}

// NewMenu builds (but does not show) a launcher bound to scr's top strip,
// mirroring cmd_show's `bounds = screen.bounds._replace(height=h)`.
// onSelect is invoked with the chosen item's text when Enter commits —
// for SelectExecutable that runs the program, for a generic Select it
// could run any command.Registry verb.
func NewMenu(core *xcore.Core, disp *dispatch.Dispatcher, commander *command.Registry, scr *screen.Screen, maxLines int, onSelect func(string) error) (*Menu, error) {
	if maxLines <= 0 {
		maxLines = 10
	}
	outer := scr.Outer()
	bounds := rect.Rect{X: outer.X, Y: outer.Y, Width: outer.Width, Height: uint32(overlay.LineHeight)}
	ov, err := overlay.New(core, disp, bounds, menuBackground, 0)
	if err != nil {
		return nil, err
	}
	m := &Menu{overlay: ov, commander: commander, maxLines: maxLines, onSelect: onSelect}
	commander.Set("menu", m)
	commander.RegisterVerbs("menu", map[string]func(args ...string) error{
		"show":    m.cmdShow,
		"hide":    m.cmdHide,
		"refresh": m.cmdRefresh,
	})
	return m, nil
}

// ListPathExecutables enumerates every non-directory entry name in the
// $PATH directories (the execute bit is not checked), deduplicated and
// sorted — the Go analogue of SelectExecutable's
// os.listdir-over-PATH scan and its bash -lc "echo $PATH" cmd_refresh
// fallback (both collapse to a single os.ReadDir walk here since a Go
// binary's own $PATH is already authoritative, no subshell needed).
func ListPathExecutables() []string {
	seen := make(map[string]bool)
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *Menu) cmdShow(args ...string) error {
	m.Show(ListPathExecutables())
	return nil
}

func (m *Menu) cmdHide(args ...string) error {
	m.Hide()
	return nil
}

func (m *Menu) cmdRefresh(args ...string) error {
	m.items = ListPathExecutables()
	m.refilter()
	return nil
}

// Show resets the query, installs items as the candidate list and maps
// the overlay — cmd_show's "self._current_items = self.items(); ...
// self.window.show(); self.window.focus()".
func (m *Menu) Show(items []string) {
	m.items = items
	m.query = ""
	m.selected = 0
	m.overlay.Show()
	m.refilter()
}

// Hide unmaps the overlay — cmd_hide.
func (m *Menu) Hide() {
	m.overlay.Hide()
}

// Visible reports whether the launcher is currently shown.
func (m *Menu) Visible() bool { return m.overlay.Visible() }

// ID is the overlay window id, used by whatever grabs the keyboard to
// know which gadget the grab belongs to.
func (m *Menu) ID() uint32 { return uint32(m.overlay.ID()) }

// Type appends a rune to the query and re-filters — the keystroke path
// that drives TextField's on-change Event in the original.
func (m *Menu) Type(r rune) {
	m.query += string(r)
	m.refilter()
}

// Backspace removes the last rune of the query, if any.
func (m *Menu) Backspace() {
	if m.query == "" {
		return
	}
	runes := []rune(m.query)
	m.query = string(runes[:len(runes)-1])
	m.refilter()
}

// MoveSelection shifts the highlighted row by delta, clamped to the
// current filtered list.
func (m *Menu) MoveSelection(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.selected = clampInt(m.selected+delta, 0, len(m.filtered)-1)
	m.redraw()
}

// Enter commits the highlighted item via onSelect and hides the launcher,
// matching the original's pattern of a gadget command completing itself.
func (m *Menu) Enter() {
	if m.selected < len(m.filtered) && m.onSelect != nil {
		item := m.filtered[m.selected]
		if err := m.onSelect(item); err != nil {
			log.WithError(err).WithField("component", "menu").Warn("onSelect failed")
		}
	}
	m.Hide()
}

// Escape cancels without committing.
func (m *Menu) Escape() { m.Hide() }

func (m *Menu) refilter() {
	m.filtered = matchLines(m.items, m.query, m.maxLines)
	m.selected = 0
	m.resize()
	m.redraw()
}

// matchLines is the Go form of Select.match_lines: every item whose text
// contains query (case-insensitively), capped at limit results.
func matchLines(items []string, query string, limit int) []string {
	if query == "" {
		if len(items) > limit {
			return items[:limit]
		}
		return items
	}
	q := strings.ToLower(query)
	out := make([]string, 0, limit)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it), q) {
			out = append(out, it)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// resize grows/shrinks the overlay to fit the query line plus one row per
// matched item, mirroring _redraw's "newh = (len(lines)+1)*line_height".
func (m *Menu) resize() {
	rows := len(m.filtered) + 1
	h := uint32(rows * overlay.LineHeight)
	b := m.overlay.Bounds()
	if b.Height == h {
		return
	}
	b.Height = h
	m.overlay.SetBounds(b)
}

func (m *Menu) redraw() {
	m.overlay.Redraw(func(img *image.RGBA) {
		prompt := "> " + m.query
		overlay.DrawString(img, 4, overlay.LineHeight-4, overlay.ArgbColor(menuQueryText), prompt)
		for i, item := range m.filtered {
			y := (i + 1) * overlay.LineHeight
			col := color.Color(overlay.ArgbColor(menuText))
			if i == m.selected {
				overlay.HighlightRow(img, 0, y-overlay.LineHeight+2, img.Bounds().Dx(), overlay.LineHeight-2, menuHighlight)
				col = overlay.ArgbColor(menuQueryText)
			}
			overlay.DrawString(img, 4, y-4, col, item)
		}
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
