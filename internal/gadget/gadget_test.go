package gadget

import (
	"testing"

	"github.com/tailhook/tilenol/internal/overlay"
)

func TestMatchLinesFiltersCaseInsensitiveSubstring(t *testing.T) {
	items := []string{"Firefox", "firefox-esr", "vim", "gvim", "xterm"}
	got := matchLines(items, "fire", 10)
	want := []string{"Firefox", "firefox-esr"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMatchLinesEmptyQueryCapsAtLimit(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	got := matchLines(items, "", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
}

func TestMatchLinesRespectsLimit(t *testing.T) {
	items := []string{"vim", "vimdiff", "vimtutor", "gvim"}
	got := matchLines(items, "vim", 2)
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestClampInt(t *testing.T) {
	if got := clampInt(5, 0, 3); got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
	if got := clampInt(-5, 0, 3); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := clampInt(2, 0, 3); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
}

func TestTruncateLeavesShortTextAlone(t *testing.T) {
	got := truncate("vim", 1000)
	if got != "vim" {
		t.Fatalf("got %q, want %q", got, "vim")
	}
}

func TestTruncateShortensLongText(t *testing.T) {
	got := truncate("a very long window title that will not fit", 40)
	if got == "a very long window title that will not fit" {
		t.Fatal("expected text to be shortened")
	}
	if overlay.TextWidth(got) > 40 {
		t.Fatalf("truncated text still too wide: %q (%d px)", got, overlay.TextWidth(got))
	}
}
