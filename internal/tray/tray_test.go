package tray

import (
	"encoding/binary"
	"testing"
)

func TestIconHeader(t *testing.T) {
	icon := getIcon()

	if binary.LittleEndian.Uint16(icon[2:4]) != 1 {
		t.Error("Expected ICO type 1")
	}
	size := binary.LittleEndian.Uint32(icon[14:18])
	offset := binary.LittleEndian.Uint32(icon[18:22])
	if int(offset+size) > len(icon) {
		t.Errorf("Image data overruns icon: offset %d + size %d > %d", offset, size, len(icon))
	}
}

func TestMenuItems(t *testing.T) {
	tr := New("Automator", "tooltip")

	status := tr.AddStatus("Listening on 127.0.0.1:18181")
	tr.AddSeparator()
	quit := tr.AddMenuItem("Quit", func() {})

	if status != 0 || quit != 2 {
		t.Errorf("Expected ids 0 and 2, got %d and %d", status, quit)
	}
	if tr.items[1] != nil {
		t.Error("Expected separator at index 1")
	}
	if tr.items[status].Callback != nil {
		t.Error("Status items should have no callback")
	}

	tr.SetItemTitle(status, "Stopped")
	if tr.items[status].Title != "Stopped" {
		t.Errorf("Expected title to change, got %q", tr.items[status].Title)
	}
	// Separators and unknown ids are ignored
	tr.SetItemTitle(1, "x")
	tr.SetItemTitle(42, "x")
}

func TestSetCallback(t *testing.T) {
	tr := New("Automator", "tooltip")
	id := tr.AddStatus("placeholder")

	called := false
	tr.SetCallback(id, func() { called = true })
	tr.items[id].Callback()
	if !called {
		t.Error("Expected replaced callback to run")
	}
}

func TestSetItemChecked(t *testing.T) {
	tr := New("Automator", "tooltip")
	id := tr.AddMenuItem("Start on Login", func() {})
	tr.AddSeparator()

	tr.SetItemChecked(id, true)
	if !tr.items[id].Checked {
		t.Error("Expected item to be checked")
	}
	tr.SetItemChecked(id, false)
	if tr.items[id].Checked {
		t.Error("Expected item to be unchecked")
	}
	// Separators and unknown ids are ignored
	tr.SetItemChecked(1, true)
	tr.SetItemChecked(-1, true)
}
