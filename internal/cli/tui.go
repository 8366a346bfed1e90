package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// allLayers is the filter label that shows every layer.
const allLayers = "all"

// =============================================================================
// InspectorModel - Interactive placement browser
// =============================================================================

// InspectorModel is the bubbletea model for browsing a placement document.
// Tab cycles a layer filter, o toggles obstacle records.
type InspectorModel struct {
	Doc    *pkgio.Document
	Layers []pipeline.LayerStats

	Filters   []string
	Filter    int
	Obstacles bool

	Cursor int
	Offset int
	Height int

	rows []pkgio.Record
}

// NewInspectorModel creates an inspector over doc. Layer stats are
// optional; they are shown for the filtered layer when present.
func NewInspectorModel(doc *pkgio.Document, layers []pipeline.LayerStats) InspectorModel {
	m := InspectorModel{
		Doc:     doc,
		Layers:  layers,
		Filters: []string{allLayers},
		Height:  15,
	}
	seen := map[string]bool{}
	for _, r := range doc.Placements {
		if !seen[r.Layer] {
			seen[r.Layer] = true
			m.Filters = append(m.Filters, r.Layer)
		}
	}
	m.refresh()
	return m
}

// refresh recomputes the visible rows and clamps the cursor.
func (m *InspectorModel) refresh() {
	layer := m.Filters[m.Filter]
	m.rows = nil
	for _, r := range m.Doc.Placements {
		if r.Obstacle && !m.Obstacles {
			continue
		}
		if layer != allLayers && r.Layer != layer {
			continue
		}
		m.rows = append(m.rows, r)
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = max(len(m.rows)-1, 0)
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Offset > 0 && m.Offset+m.Height > len(m.rows) {
		m.Offset = max(len(m.rows)-m.Height, 0)
	}
}

// Rows returns the records shown with the current filter.
func (m InspectorModel) Rows() []pkgio.Record {
	return m.rows
}

// Selected returns the record under the cursor.
func (m InspectorModel) Selected() (pkgio.Record, bool) {
	if len(m.rows) == 0 {
		return pkgio.Record{}, false
	}
	return m.rows[m.Cursor], true
}

func (m InspectorModel) Init() tea.Cmd {
	return nil
}

func (m InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab", "right", "l":
			m.Filter = (m.Filter + 1) % len(m.Filters)
			m.Cursor, m.Offset = 0, 0
			m.refresh()
		case "shift+tab", "left", "h":
			m.Filter = (m.Filter + len(m.Filters) - 1) % len(m.Filters)
			m.Cursor, m.Offset = 0, 0
			m.refresh()
		case "o":
			m.Obstacles = !m.Obstacles
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Placements"))
	b.WriteString("  ")
	b.WriteString(m.filterBar())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab layer  o obstacles  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := r.Rect()
		rows = append(rows, []string{
			cursor,
			r.Layer,
			dash(r.Feature),
			r.Key,
			fmt.Sprintf("%.1f", r.X),
			fmt.Sprintf("%.1f", r.Y),
			fmt.Sprintf("%.1f°", r.Angle),
			fmt.Sprintf("%.0f×%.0f", box.X.Length(), box.Y.Length()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Feature", "Key", "X", "Y", "Angle", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.rows[idx].Obstacle:
				return listDimStyle
			case col >= 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.rows)), len(m.rows))))

	return b.String()
}

func (m InspectorModel) filterBar() string {
	parts := make([]string, len(m.Filters))
	for i, f := range m.Filters {
		if i == m.Filter {
			parts[i] = listSelectedStyle.Render(f)
		} else {
			parts[i] = listDimStyle.Render(f)
		}
	}
	return strings.Join(parts, listDimStyle.Render(" · "))
}

// detail describes the selected record and, when known, its layer.
func (m InspectorModel) detail() string {
	r, ok := m.Selected()
	if !ok {
		return listDimStyle.Render("  no placements")
	}
	var b strings.Builder
	box := r.Rect()
	fmt.Fprintf(&b, "  %s %s  box [%.1f %.1f %.1f %.1f]",
		StyleHighlight.Render(r.Layer), StyleValue.Render(dash(r.Feature)),
		box.X.Lo, box.Y.Lo, box.X.Hi, box.Y.Hi)
	if n := len(r.Boxes); n > 1 {
		fmt.Fprintf(&b, "  %s", StyleNumber.Render(fmt.Sprintf("%d glyph boxes", n)))
	}
	if r.Obstacle {
		b.WriteString("  " + StyleWarning.Render("obstacle"))
	}
	for _, l := range m.Layers {
		if l.Name == r.Layer {
			fmt.Fprintf(&b, "\n  %s", listDimStyle.Render(fmt.Sprintf(
				"layer: %d features · %d placed · %d rejected · %d unplaced", l.Features, l.Placed, l.Rejected, l.Unplaced)))
			break
		}
	}
	return b.String()
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// runInspector runs the inspector full screen until the user quits.
func runInspector(doc *pkgio.Document, layers []pipeline.LayerStats) error {
	_, err := tea.NewProgram(NewInspectorModel(doc, layers), tea.WithAltScreen()).Run()
	return err
}
