package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/filter"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// SortModal is a small popup for choosing the sort field.
// Typing narrows the options by fuzzy match on their labels.
type SortModal struct {
	visible     bool
	options     []domain.SortField
	shown       []domain.SortField
	query       string
	cursor      int
	activeField domain.SortField
	activeOrder domain.SortOrder
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal with the given options and current sort state
func (m *SortModal) Show(options []domain.SortField, active domain.SortField, order domain.SortOrder) {
	m.visible = true
	m.options = options
	m.activeField = active
	m.activeOrder = order
	m.query = ""
	m.shown = options
	m.cursor = 0
	for i, opt := range options {
		if opt == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// Query returns the current narrowing text
func (m SortModal) Query() string {
	return m.query
}

// Shown returns the options currently listed
func (m SortModal) Shown() []domain.SortField {
	return m.shown
}

func (m *SortModal) narrow() {
	m.shown = filter.MatchSortOptions(m.query, m.options)
	m.cursor = 0
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *SortModal) HandleKey(key string) (handled bool, selection *domain.SortField) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "down", "ctrl+n":
		if m.cursor < len(m.shown)-1 {
			m.cursor++
		}
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.shown) == 0 {
			return true, nil
		}
		chosen := m.shown[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc":
		m.visible = false
	case "backspace":
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.narrow()
		}
	default:
		if r := []rune(key); len(r) == 1 {
			m.query += key
			m.narrow()
		}
	}
	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible {
		return ""
	}

	const width = 24
	var lines []string
	for i, opt := range m.shown {
		prefix := "  "
		suffix := ""
		if opt == m.activeField {
			prefix = "✓ "
			if m.activeOrder == domain.Descending {
				suffix = " ↓"
			} else {
				suffix = " ↑"
			}
		}
		text := styles.Pad(prefix+opt.Label()+suffix, width)

		switch {
		case i == m.cursor:
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight).Render(text))
		case opt == m.activeField:
			lines = append(lines, styles.AccentStyle.Render(text))
		default:
			lines = append(lines, styles.SubtitleStyle.Render(text))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("no match", width)))
	}

	title := "Sort by"
	if m.query != "" {
		title += " " + styles.AccentStyle.Render(m.query)
	}
	return styles.ModalStyle.Render(styles.ModalTitleStyle.Render(title) + "\n" + strings.Join(lines, "\n"))
}
