package components

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Dimension is the filter a value belongs to
type Dimension int

const (
	DimensionGenre Dimension = iota
	DimensionTag
	DimensionYear
)

func (d Dimension) String() string {
	switch d {
	case DimensionGenre:
		return "genre"
	case DimensionTag:
		return "tag"
	case DimensionYear:
		return "year"
	default:
		return "?"
	}
}

// FilterOption is one selectable value
type FilterOption struct {
	Dimension Dimension
	Value     string
}

// FilterModal searches a library's filter values and toggles them
type FilterModal struct {
	visible   bool
	input     textinput.Model
	vocab     filter.Vocabulary
	selection domain.FilterSelection
	options   []FilterOption
	cursor    int
}

// NewFilterModal creates a new filter modal
func NewFilterModal() FilterModal {
	ti := textinput.New()
	ti.Placeholder = "genre, tag or year..."
	ti.CharLimit = 50
	ti.Width = 30
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return FilterModal{input: ti}
}

// Show displays the modal over vocab with the current selection marked
func (m *FilterModal) Show(vocab filter.Vocabulary, selection domain.FilterSelection) {
	m.visible = true
	m.vocab = vocab
	m.selection = selection
	m.input.SetValue("")
	m.input.Focus()
	m.refresh()
}

// Hide dismisses the modal
func (m *FilterModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m FilterModal) IsVisible() bool {
	return m.visible
}

// SetSelection updates the active markers after a toggle
func (m *FilterModal) SetSelection(selection domain.FilterSelection) {
	m.selection = selection
}

// Options returns the values matching the current search
func (m FilterModal) Options() []FilterOption {
	return m.options
}

func (m *FilterModal) refresh() {
	found := m.vocab.Search(m.input.Value())
	m.options = nil
	for _, g := range found.Genres {
		m.options = append(m.options, FilterOption{Dimension: DimensionGenre, Value: g})
	}
	for _, t := range found.Tags {
		m.options = append(m.options, FilterOption{Dimension: DimensionTag, Value: t})
	}
	for _, y := range found.Years {
		m.options = append(m.options, FilterOption{Dimension: DimensionYear, Value: y})
	}
	if m.cursor >= len(m.options) {
		m.cursor = max(0, len(m.options)-1)
	}
}

func (m FilterModal) active(o FilterOption) bool {
	switch o.Dimension {
	case DimensionGenre:
		return slices.Contains(m.selection.Genres, o.Value)
	case DimensionTag:
		return slices.Contains(m.selection.Tags, o.Value)
	case DimensionYear:
		return slices.Contains(m.selection.Years, o.Value)
	}
	return false
}

// Update handles input events, returns (modal, cmd, toggled).
// The modal stays open after a toggle so several values can be picked.
func (m FilterModal) Update(msg tea.Msg) (FilterModal, tea.Cmd, *FilterOption) {
	if !m.visible {
		return m, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if len(m.options) == 0 {
				return m, nil, nil
			}
			chosen := m.options[m.cursor]
			return m, nil, &chosen
		case "esc":
			m.Hide()
			return m, nil, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
			return m, nil, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.cursor = 0
		m.refresh()
	}
	return m, cmd, nil
}

// View renders the filter modal
func (m FilterModal) View() string {
	if !m.visible {
		return ""
	}

	const (
		width   = 34
		maxRows = 12
	)

	lines := []string{m.input.View(), ""}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}
	for i := start; i < len(m.options) && i < start+maxRows; i++ {
		o := m.options[i]
		mark := "  "
		if m.active(o) {
			mark = "✓ "
		}
		text := styles.Pad(mark+o.Value+"  "+o.Dimension.String(), width)
		switch {
		case i == m.cursor:
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight).Render(text))
		case m.active(o):
			lines = append(lines, styles.AccentStyle.Render(text))
		default:
			lines = append(lines, styles.SubtitleStyle.Render(text))
		}
	}
	if len(m.options) == 0 {
		lines = append(lines, styles.DimStyle.Render("no matching values"))
	}

	return styles.ModalStyle.Render(styles.ModalTitleStyle.Render("Filter") + "\n" + strings.Join(lines, "\n"))
}
