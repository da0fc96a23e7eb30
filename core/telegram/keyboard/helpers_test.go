package keyboard

import "testing"

func TestChunkLabels(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e"}

	rows := ChunkLabels(labels, 2)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(rows[0]) != 2 || len(rows[2]) != 1 {
		t.Errorf("row sizes = %v", rows)
	}

	rows = ChunkLabels(labels, 0)
	if len(rows) != 5 {
		t.Errorf("n<=1 should yield one label per row, got %d rows", len(rows))
	}
}

func TestOptionsMarkup(t *testing.T) {
	m := Options([]string{"x", "y", "z"}, 2, "pick one")
	if !m.ResizeKeyboard || !m.OneTimeKeyboard {
		t.Error("reply keyboards must be resized and one-time")
	}
	if m.Placeholder != "pick one" {
		t.Errorf("placeholder = %q", m.Placeholder)
	}
	if len(m.ReplyKeyboard) != 2 {
		t.Errorf("keyboard rows = %d, want 2", len(m.ReplyKeyboard))
	}
}
