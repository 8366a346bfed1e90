package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
)

func inspectorDoc() *pkgio.Document {
	return &pkgio.Document{
		Extent: [4]float64{0, 0, 100, 100},
		Placements: []pkgio.Record{
			{Layer: "cities", Feature: "a", Key: "cities", X: 10, Y: 10, Box: [4]float64{5, 5, 15, 15}},
			{Layer: "cities", Feature: "b", Key: "cities", X: 40, Y: 10, Box: [4]float64{35, 5, 45, 15}},
			{Layer: "roads", Feature: "main", Key: "roads", X: 50, Y: 80, Angle: 12, Box: [4]float64{30, 75, 70, 85}},
			{Layer: "roads", Key: "roads", Box: [4]float64{0, 0, 1, 1}, Obstacle: true},
		},
	}
}

func press(m tea.Model, keys ...string) InspectorModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m.(InspectorModel)
}

func TestInspectorFilters(t *testing.T) {
	m := NewInspectorModel(inspectorDoc(), nil)
	if got := strings.Join(m.Filters, ","); got != "all,cities,roads" {
		t.Errorf("filters = %s", got)
	}
	if n := len(m.Rows()); n != 3 {
		t.Errorf("rows = %d, want obstacles hidden", n)
	}

	m = press(m, "o")
	if n := len(m.Rows()); n != 4 {
		t.Errorf("rows with obstacles = %d", n)
	}

	m = press(m, "tab", "tab")
	if m.Filters[m.Filter] != "roads" {
		t.Fatalf("filter = %s", m.Filters[m.Filter])
	}
	for _, r := range m.Rows() {
		if r.Layer != "roads" {
			t.Errorf("row from layer %s under roads filter", r.Layer)
		}
	}

	m = press(m, "tab")
	if m.Filters[m.Filter] != allLayers {
		t.Errorf("filter should wrap to all, got %s", m.Filters[m.Filter])
	}
}

func TestInspectorCursor(t *testing.T) {
	m := NewInspectorModel(inspectorDoc(), nil)
	m = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.Cursor)
	}
	m = press(m, "down", "j", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want clamped to the last row", m.Cursor)
	}
	r, ok := m.Selected()
	if !ok || r.Feature != "main" {
		t.Errorf("selected = %+v", r)
	}

	m = press(m, "o", "o")
	if m.Cursor != 2 {
		t.Errorf("toggling obstacles moved the cursor to %d", m.Cursor)
	}
}

func TestInspectorView(t *testing.T) {
	m := NewInspectorModel(inspectorDoc(), nil)
	m = press(m, "down", "down")
	view := m.View()
	for _, want := range []string{"Placements", "cities", "main", "40×10", "[3/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewInspectorModel(&pkgio.Document{}, nil)
	if !strings.Contains(empty.View(), "no placements") {
		t.Error("empty view should say so")
	}
}

func TestInspectorQuit(t *testing.T) {
	m := NewInspectorModel(inspectorDoc(), nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
