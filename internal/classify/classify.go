// Package classify implements the rule engine of spec.md §4.8: a set of
// (conditions, actions, class?) rules applied to every newly-managed
// window, grounded directly on tilenol/classify.py's Classifier.
package classify

import (
	"strconv"
	"strings"

	"github.com/tailhook/tilenol/internal/wmclient"
)

// Condition reports whether win matches some predicate. Rule.Apply
// requires every condition in a rule to hold (spec.md §4.8 "conditions
// short-circuit, all must hold").
type Condition func(win *wmclient.Window) bool

// Action applies some effect to win. All of a matched rule's actions run
// in declaration order.
type Action func(win *wmclient.Window)

// Rule is one classifier entry: a class scope (empty string means
// global, matching every window) plus its conditions and actions.
type Rule struct {
	Class      string
	Conditions []Condition
	Actions    []Action
}

// Classifier holds the global rule list plus the per-class rule map
// (tilenol/classify.py's Classifier.global_rules/class_rules).
type Classifier struct {
	global []Rule
	byClass map[string][]Rule
}

// New builds an empty Classifier.
func New() *Classifier {
	return &Classifier{byClass: make(map[string][]Rule)}
}

// AddRule registers a rule. An empty class scopes it globally.
func (c *Classifier) AddRule(r Rule) {
	if r.Class == "" {
		c.global = append(c.global, r)
		return
	}
	c.byClass[r.Class] = append(c.byClass[r.Class], r)
}

// Apply runs every global rule, then every rule scoped to one of win's
// expanded WM_CLASS names (spec.md §4.8, tilenol/classify.py's apply).
func (c *Classifier) Apply(win *wmclient.Window) {
	for _, r := range c.global {
		runIfMatched(r, win)
	}
	for _, name := range splitClassNames(win.Class) {
		for _, r := range c.byClass[name] {
			runIfMatched(r, win)
		}
	}
}

func runIfMatched(r Rule, win *wmclient.Window) {
	for _, cond := range r.Conditions {
		if !cond(win) {
			return
		}
	}
	for _, act := range r.Actions {
		act(win)
	}
}

// splitClassNames expands WM_CLASS's instance/class parts into every
// dash-prefix of each part — tilenol/classify.py's _split_class: a
// window whose class is "gimp-2.8" also matches rules scoped to "gimp",
// since Python's `name.rsplit('-', 1)` peels one dash-separated suffix
// at a time until none remain.
func splitClassNames(parts []string) []string {
	var out []string
	for _, name := range parts {
		for name != "" {
			out = append(out, name)
			idx := strings.LastIndex(name, "-")
			if idx < 0 {
				break
			}
			name = name[:idx]
		}
	}
	return out
}

// --- built-in conditions (spec.md §4.8) ---

// MatchType checks whether win's _NET_WM_WINDOW_TYPE includes any of
// types (e.g. "_NET_WM_WINDOW_TYPE_DIALOG"), grounded on ewmh.py's
// match_type / classify.py's all_conditions["match-type"].
func MatchType(types ...string) Condition {
	return func(win *wmclient.Window) bool {
		got, ok := win.AtomListProperty("_NET_WM_WINDOW_TYPE")
		if !ok {
			return false
		}
		for _, want := range types {
			for _, g := range got {
				if g == want {
					return true
				}
			}
		}
		return false
	}
}

// MatchRole checks WM_WINDOW_ROLE against roles (classify.py's
// match_role).
func MatchRole(roles ...string) Condition {
	return func(win *wmclient.Window) bool {
		role, ok := win.StringProperty("WM_WINDOW_ROLE")
		if !ok {
			return false
		}
		for _, want := range roles {
			if role == want {
				return true
			}
		}
		return false
	}
}

// HasProperty checks that at least one of properties was successfully
// read for win (classify.py's has_property).
func HasProperty(properties ...string) Condition {
	return func(win *wmclient.Window) bool {
		for _, p := range properties {
			if win.HasProperty(p) {
				return true
			}
		}
		return false
	}
}

// --- built-in actions (spec.md §4.8) ---

// LayoutProperties sets each of kv's entries on win.LProps (classify.py's
// layout_properties). Only the layout properties this module defines
// explicit setters for are supported: "stack", "floating", "group" (a
// decimal group index; a value that does not parse is ignored).
func LayoutProperties(kv map[string]string) Action {
	return func(win *wmclient.Window) {
		for k, v := range kv {
			switch k {
			case "stack":
				win.LProps.SetStack(v)
			case "floating":
				win.LProps.SetFloating(v == "true" || v == "1")
			case "group":
				if idx, err := strconv.ParseInt(v, 10, 32); err == nil {
					win.LProps.SetGroup(int32(idx))
				}
			}
		}
	}
}

// IgnoreHints sets win.IgnoreHints, skipping size-hint application
// entirely in Frame.configureContent (classify.py's ignore_hints).
func IgnoreHints() Action {
	return func(win *wmclient.Window) {
		win.IgnoreHints = true
	}
}

// GroupIndexResolver resolves a group name (as named in a classifier
// rule) to the _NET_WM_DESKTOP index it corresponds to, letting classify
// stay ignorant of how the group manager numbers its groups.
type GroupIndexResolver func(name string) (int32, bool)

// MoveToGroup resolves name via resolve and records the matching index as
// win's layout group (classify.py's move_to_group).
func MoveToGroup(resolve GroupIndexResolver) func(name string) Action {
	return func(name string) Action {
		return func(win *wmclient.Window) {
			if idx, ok := resolve(name); ok {
				win.LProps.SetGroup(idx)
			}
		}
	}
}

// MoveToGroupOfResolver looks up the window currently holding id, used
// by MoveToGroupOf (classify.py's move_to_group_of reads a window id out
// of a property and adopts that window's group).
type MoveToGroupOfResolver func(id uint32) (*wmclient.Window, bool)

// MoveToGroupOf reads a window id from property, looks it up via
// resolve, and copies that window's layout group onto win.
func MoveToGroupOf(resolve MoveToGroupOfResolver) func(property string) Action {
	return func(property string) Action {
		return func(win *wmclient.Window) {
			reply, ok := win.Props[property]
			if !ok || len(reply.Value) < 4 {
				return
			}
			id := uint32(reply.Value[0]) | uint32(reply.Value[1])<<8 |
				uint32(reply.Value[2])<<16 | uint32(reply.Value[3])<<24
			other, ok := resolve(id)
			if !ok {
				return
			}
			win.LProps.SetGroup(other.LProps.Group())
		}
	}
}
