package selection

import (
	"fmt"
	"testing"

	"github.com/LFroesch/sitescout/internal/modkeys"
)

var (
	plain = modkeys.Set{}
	ctrl  = modkeys.Set{Control: true}
	shift = modkeys.Set{Shift: true}
)

func tenEntries() []string {
	order := make([]string, 10)
	for i := range order {
		order[i] = fmt.Sprintf("e%d", i)
	}
	return order
}

func assertSelected(t *testing.T, m *Model, order []string, want ...string) {
	t.Helper()
	got := m.Selected(order)
	if len(got) != len(want) {
		t.Fatalf("selected = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selected = %v, want %v", got, want)
		}
	}
}

func TestRangeThenCtrlToggle(t *testing.T) {
	order := tenEntries()
	m := New()

	m.Click("e2", plain, order, false)
	m.Click("e7", shift, order, false)
	assertSelected(t, m, order, "e2", "e3", "e4", "e5", "e6", "e7")

	anchor, ok := m.Anchor()
	if !ok || anchor != "e2" {
		t.Errorf("anchor = %q, %v; want e2", anchor, ok)
	}

	m.Click("e5", ctrl, order, false)
	assertSelected(t, m, order, "e2", "e3", "e4", "e6", "e7")
}

func TestShiftRangeBackwards(t *testing.T) {
	order := tenEntries()
	m := New()

	m.Click("e6", plain, order, false)
	m.Click("e3", shift, order, false)
	assertSelected(t, m, order, "e3", "e4", "e5", "e6")
}

func TestShiftWithoutSelectionActsAsPlainClick(t *testing.T) {
	order := tenEntries()
	m := New()

	m.Click("e4", shift, order, false)
	assertSelected(t, m, order, "e4")
	if a, _ := m.Anchor(); a != "e4" {
		t.Errorf("anchor = %q, want e4", a)
	}
}

func TestPlainClickTogglesSoleSelection(t *testing.T) {
	order := tenEntries()
	m := New()

	m.Click("e1", plain, order, false)
	m.Click("e1", plain, order, false)
	if m.Len() != 0 {
		t.Errorf("second plain click should clear, got %v", m.Selected(order))
	}
	if _, ok := m.Anchor(); ok {
		t.Error("anchor should be cleared")
	}
}

func TestPlainClickReplacesMultiSelection(t *testing.T) {
	order := tenEntries()
	m := New()

	m.Click("e1", plain, order, false)
	m.Click("e3", ctrl, order, false)
	m.Click("e1", plain, order, false)
	assertSelected(t, m, order, "e1")
}

func TestCtrlClickAnchorRules(t *testing.T) {
	order := tenEntries()
	m := New()

	m.Click("e5", ctrl, order, false)
	if a, _ := m.Anchor(); a != "e5" {
		t.Errorf("sole ctrl selection should anchor, got %q", a)
	}

	m.Click("e8", ctrl, order, false)
	if a, _ := m.Anchor(); a != "e5" {
		t.Errorf("adding a second row keeps the anchor, got %q", a)
	}

	m.Click("e5", ctrl, order, false)
	m.Click("e8", ctrl, order, false)
	if m.Len() != 0 {
		t.Fatalf("expected empty selection, got %v", m.Selected(order))
	}
	if _, ok := m.Anchor(); ok {
		t.Error("anchor should clear when selection empties")
	}
}

func TestClicksIgnoredWhileMenuOpen(t *testing.T) {
	order := tenEntries()
	m := New()
	m.Click("e0", plain, order, false)

	if changed := m.Click("e9", plain, order, true); changed {
		t.Error("Click reported a change while menu open")
	}
	assertSelected(t, m, order, "e0")
}

func TestPruneDropsMissingPaths(t *testing.T) {
	order := tenEntries()
	m := New()
	m.Click("e1", plain, order, false)
	m.Click("e3", shift, order, false)

	m.Prune([]string{"e2", "e3"})
	assertSelected(t, m, order, "e2", "e3")
	if _, ok := m.Anchor(); ok {
		t.Error("anchor e1 was pruned and should be cleared")
	}
}

func TestClearAll(t *testing.T) {
	order := tenEntries()
	m := New()
	m.Click("e1", plain, order, false)
	m.ClearAll()
	if m.Len() != 0 {
		t.Error("ClearAll left selected paths")
	}
	if _, ok := m.Anchor(); ok {
		t.Error("ClearAll left an anchor")
	}
}
