package classify

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/tailhook/tilenol/internal/wmclient"
)

func newTestWindow(class ...string) *wmclient.Window {
	w := wmclient.New(nil, xproto.Window(1))
	w.Class = class
	return w
}

func TestSplitClassNamesExpandsDashPrefixes(t *testing.T) {
	got := splitClassNames([]string{"gimp-2.8", "Gimp"})
	want := []string{"gimp-2.8", "gimp", "Gimp"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSplitClassNamesNoDashUnchanged(t *testing.T) {
	got := splitClassNames([]string{"xterm"})
	if len(got) != 1 || got[0] != "xterm" {
		t.Fatalf("expected [xterm], got %v", got)
	}
}

func TestClassifierGlobalRuleAppliesToEveryWindow(t *testing.T) {
	c := New()
	c.AddRule(Rule{Actions: []Action{IgnoreHints()}})

	w := newTestWindow("anything")
	c.Apply(w)
	if !w.IgnoreHints {
		t.Fatal("expected global rule's action to run regardless of class")
	}
}

func TestClassifierClassScopedRuleMatchesDashExpandedName(t *testing.T) {
	c := New()
	c.AddRule(Rule{Class: "gimp", Actions: []Action{IgnoreHints()}})

	w := newTestWindow("gimp-2.8", "Gimp")
	c.Apply(w)
	if !w.IgnoreHints {
		t.Fatal("expected class-scoped rule on \"gimp\" to match window classed \"gimp-2.8\"")
	}
}

func TestClassifierClassScopedRuleSkipsNonMatchingClass(t *testing.T) {
	c := New()
	c.AddRule(Rule{Class: "firefox", Actions: []Action{IgnoreHints()}})

	w := newTestWindow("gimp-2.8", "Gimp")
	c.Apply(w)
	if w.IgnoreHints {
		t.Fatal("rule scoped to \"firefox\" should not apply to a gimp window")
	}
}

func TestClassifierConditionsShortCircuit(t *testing.T) {
	c := New()
	c.AddRule(Rule{
		Conditions: []Condition{HasProperty("WM_WINDOW_ROLE")},
		Actions:    []Action{IgnoreHints()},
	})

	w := newTestWindow("xterm")
	c.Apply(w)
	if w.IgnoreHints {
		t.Fatal("action should not run: window has no WM_WINDOW_ROLE property")
	}
}

func TestClassifierAllConditionsMustHold(t *testing.T) {
	c := New()
	always := func(*wmclient.Window) bool { return true }
	never := func(*wmclient.Window) bool { return false }
	c.AddRule(Rule{
		Conditions: []Condition{always, never},
		Actions:    []Action{IgnoreHints()},
	})

	w := newTestWindow("xterm")
	c.Apply(w)
	if w.IgnoreHints {
		t.Fatal("action should not run when any condition in the rule is false")
	}
}

func TestMatchRoleCondition(t *testing.T) {
	w := newTestWindow("gimp-2.8")
	w.Props["WM_WINDOW_ROLE"] = xproto.GetPropertyReply{Value: []byte("toolbox")}

	cond := MatchRole("toolbox", "dialog")
	if !cond(w) {
		t.Fatal("expected match-role to match \"toolbox\"")
	}

	other := MatchRole("dialog")
	if other(w) {
		t.Fatal("expected match-role to reject a role not in the list")
	}
}

func TestHasPropertyCondition(t *testing.T) {
	w := newTestWindow("xterm")
	w.Props["_NET_WM_PID"] = xproto.GetPropertyReply{Value: []byte{1, 0, 0, 0}}

	cond := HasProperty("_NET_WM_PID", "_NET_WM_USER_TIME")
	if !cond(w) {
		t.Fatal("expected has-property to match on _NET_WM_PID alone")
	}

	missing := HasProperty("_NET_WM_USER_TIME")
	if missing(w) {
		t.Fatal("expected has-property to fail when none of the listed properties were read")
	}
}

func TestMoveToGroupSkipsUnresolvedNames(t *testing.T) {
	// SetGroup round-trips through the X connection (spec.md §4.10), so
	// this only exercises the no-match branch: resolving a name the
	// group manager doesn't know about must leave the window untouched
	// rather than writing a bogus desktop index.
	w := newTestWindow("xterm")
	resolve := func(name string) (int32, bool) { return 0, false }
	action := MoveToGroup(resolve)("nonexistent")
	action(w)
	if w.LProps.Group() != -1 {
		t.Fatalf("expected group to stay unset, got %d", w.LProps.Group())
	}
}
