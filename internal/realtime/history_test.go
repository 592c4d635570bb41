package realtime

import (
	"fmt"
	"testing"
)

func fillHistory(h *history, n int) {
	for i := 1; i <= n; i++ {
		h.append(Message{Event: fmt.Sprintf("event_%d", i)})
	}
}

func TestHistory_BelowCap(t *testing.T) {
	h := newHistory(100)
	fillHistory(h, 3)

	if h.len() != 3 {
		t.Fatalf("len = %d, want 3", h.len())
	}

	snap := h.snapshot()
	for i, want := range []string{"event_1", "event_2", "event_3"} {
		if snap[i].Event != want {
			t.Errorf("snapshot[%d] = %s, want %s", i, snap[i].Event, want)
		}
	}
}

func TestHistory_EvictsOldest(t *testing.T) {
	h := newHistory(100)
	fillHistory(h, 101)

	if h.len() != 100 {
		t.Fatalf("len = %d, want 100", h.len())
	}

	snap := h.snapshot()
	if snap[0].Event != "event_2" {
		t.Errorf("oldest = %s, want event_2", snap[0].Event)
	}
	if snap[len(snap)-1].Event != "event_101" {
		t.Errorf("newest = %s, want event_101", snap[len(snap)-1].Event)
	}
}

func TestHistory_WrapOrder(t *testing.T) {
	h := newHistory(3)
	fillHistory(h, 5)

	snap := h.snapshot()
	want := []string{"event_3", "event_4", "event_5"}
	if len(snap) != len(want) {
		t.Fatalf("len = %d, want %d", len(snap), len(want))
	}
	for i := range want {
		if snap[i].Event != want[i] {
			t.Errorf("snapshot[%d] = %s, want %s", i, snap[i].Event, want[i])
		}
	}
}

func TestHistory_MinCapacity(t *testing.T) {
	h := newHistory(0)
	fillHistory(h, 2)

	if h.len() != 1 {
		t.Fatalf("len = %d, want 1", h.len())
	}
	if got := h.snapshot()[0].Event; got != "event_2" {
		t.Errorf("kept = %s, want event_2", got)
	}
}

func TestHistory_EmptySnapshot(t *testing.T) {
	h := newHistory(10)
	if len(h.snapshot()) != 0 {
		t.Error("expected empty snapshot")
	}
}
