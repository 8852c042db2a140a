package ingest

import (
	"fmt"
	"testing"
)

func TestMessageBuffer_EvictsOldest(t *testing.T) {
	b := NewMessageBuffer(3)
	for i := 0; i < 5; i++ {
		b.Add("info", fmt.Sprintf("msg %d", i))
	}

	got := b.All()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, m := range got {
		want := fmt.Sprintf("msg %d", i+2)
		if m.Text != want {
			t.Errorf("msg[%d] = %q, want %q", i, m.Text, want)
		}
	}
}

func TestMessageBuffer_FilteredAndClear(t *testing.T) {
	b := NewMessageBuffer(10)
	b.Add("warning", "w1")
	b.Add("error", "e1")
	b.Add("warning", "w2")

	warnings := b.Filtered("warning")
	if len(warnings) != 2 || warnings[0].Text != "w1" || warnings[1].Text != "w2" {
		t.Fatalf("filtered = %+v, want w1,w2", warnings)
	}

	b.Clear()
	if len(b.All()) != 0 {
		t.Errorf("buffer not empty after clear")
	}
}

func TestMessageBuffer_AllReturnsCopy(t *testing.T) {
	b := NewMessageBuffer(10)
	b.Add("info", "original")

	got := b.All()
	got[0].Text = "scribbled"
	if b.All()[0].Text != "original" {
		t.Errorf("caller mutation leaked into buffer")
	}
}
