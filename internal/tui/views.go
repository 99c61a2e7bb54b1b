package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.ShowHelp {
		return m.renderHelp()
	}

	contentHeight := max(m.Height-ChromeHeight, 1)

	var header, content string
	switch m.Screen {
	case ScreenHome:
		header = "Home"
		content = m.renderHome(contentHeight)
	case ScreenLibraries:
		header = "Libraries"
		content = m.renderLibraries(contentHeight)
	case ScreenGrid:
		header, content = m.renderGrid(contentHeight)
	case ScreenEpisodes:
		header, content = m.renderStrip(contentHeight)
	}

	switch {
	case m.SortModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.SortModal.View())
	case m.FilterModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.FilterModal.View())
	}

	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.MaxWidth(m.Width).Render(header),
		content,
		m.renderStatusBar(),
	)
}

// RenderItem renders one item row
func RenderItem(item domain.Item, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}

	status := item.WatchStatus()
	indicator := styles.RenderWatchStatus(status == domain.WatchStatusWatched, status == domain.WatchStatusInProgress)

	info := ""
	if item.RunTime > 0 {
		info = styles.DimStyle.Render(item.FormattedDuration())
	}
	if item.Type == domain.KindSeries && item.UserData.UnplayedCount > 0 {
		info = styles.DimBadgeStyle.Render(fmt.Sprintf("%d", item.UserData.UnplayedCount))
	}

	title := styles.Truncate(item.DisplayTitle(), max(width-14, 1))
	return style.Width(width).Render(fmt.Sprintf("%s %s %s", indicator, title, info))
}

// RenderLibraryItem renders a library row
func RenderLibraryItem(lib domain.Library, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}
	kind := ""
	if lib.CollectionType != "" {
		kind = styles.DimStyle.Render(string(lib.CollectionType))
	}
	return style.Width(width).Render(styles.Truncate(lib.Name, max(width-14, 1)) + " " + kind)
}

func (m Model) renderHome(height int) string {
	if len(m.Sections) == 0 {
		if m.Loading {
			return styles.DimStyle.Render("Loading home...")
		}
		return styles.DimStyle.Render("Nothing to show")
	}

	var blocks []string
	used := 0
	for i, s := range m.Sections {
		block := m.renderSection(s, i == m.sectionCursor)
		h := lipgloss.Height(block)
		if used+h > height && i > m.sectionCursor {
			break
		}
		blocks = append(blocks, block)
		used += h
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m Model) renderSection(s feed.SectionResult, focused bool) string {
	title := styles.SectionTitleStyle.Render(s.Section.Title)
	switch {
	case s.Err != nil:
		return title + "\n" + styles.ErrorStyle.Render("  unavailable")
	case len(s.Items) == 0:
		return title + "\n" + styles.DimStyle.Render("  empty")
	}

	cursor := -1
	if focused {
		cursor = m.itemCursor
	}

	if s.Section.Orientation == domain.Horizontal {
		const cell = 22
		visible := max(m.Width/cell, 1)
		start := 0
		if cursor >= visible {
			start = cursor - visible + 1
		}
		var cells []string
		for i := start; i < len(s.Items) && i < start+visible; i++ {
			cells = append(cells, RenderItem(s.Items[i], i == cursor, cell))
		}
		return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}

	const rows = 5
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	lines := []string{title}
	for i := start; i < len(s.Items) && i < start+rows; i++ {
		lines = append(lines, RenderItem(s.Items[i], i == cursor, m.Width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLibraries(height int) string {
	if len(m.Libraries) == 0 {
		return styles.DimStyle.Render("No libraries")
	}
	start, end := window(m.libCursor, len(m.Libraries), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, RenderLibraryItem(m.Libraries[i], i == m.libCursor, m.Width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderGrid(height int) (string, string) {
	if m.Grid == nil || !m.gridReady {
		return "Library", styles.DimStyle.Render("Loading library...")
	}

	st := m.Grid.State()
	header := st.Library.Name
	if header == "" {
		header = "Library"
	}
	header += styles.DimStyle.Render(fmt.Sprintf("  %d/%d", len(st.Items), st.Total))
	header += "  " + styles.DimBadgeStyle.Render(st.Selection.SortBy.Label()+" "+orderArrow(st.Selection.SortOrder))
	for _, v := range append(append(append([]string{}, st.Selection.Genres...), st.Selection.Tags...), st.Selection.Years...) {
		header += " " + styles.BadgeStyle.Render(v)
	}

	if len(st.Items) == 0 {
		switch {
		case st.IsLoading:
			return header, styles.DimStyle.Render("Loading...")
		case st.Err != nil:
			return header, styles.ErrorStyle.Render(st.Err.Error())
		default:
			return header, styles.DimStyle.Render("No items")
		}
	}

	start, end := window(m.gridCursor, len(st.Items), height)
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		lines = append(lines, RenderItem(st.Items[i], i == m.gridCursor, m.Width))
	}
	if st.IsFetching && end == len(st.Items) {
		lines = append(lines, styles.DimStyle.Render("  loading more..."))
	}
	return header, strings.Join(lines, "\n")
}

func (m Model) renderStrip(height int) (string, string) {
	if m.Strip == nil {
		return "Episodes", ""
	}
	header := "Episodes"
	if len(m.Strip.Episodes) > 0 {
		e := m.Strip.Episodes[0]
		header = fmt.Sprintf("%s  Season %d", e.SeriesName, e.ParentIndexNumber)
	}
	if len(m.Strip.Episodes) == 0 {
		return header, styles.DimStyle.Render("No episodes")
	}

	start, end := window(m.stripCursor, len(m.Strip.Episodes), height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := m.Strip.Episodes[i]
		row := RenderItem(e, i == m.stripCursor, m.Width)
		if i == m.Strip.Current && i != m.stripCursor {
			row = styles.CurrentItemStyle.Width(m.Width).Render(fmt.Sprintf("▶ %s %s", e.EpisodeCode(), e.Name))
		}
		lines = append(lines, row)
	}
	return header, strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
		}
		return styles.AccentStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	if m.Loading {
		return styles.DimStyle.Render("loading...")
	}
	return styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help")
}

func (m Model) renderHelp() string {
	bindings := []struct {
		keys, desc string
	}{
		{Keys.Up.Help().Key, Keys.Up.Help().Desc},
		{Keys.Down.Help().Key, Keys.Down.Help().Desc},
		{Keys.Left.Help().Key, Keys.Left.Help().Desc},
		{Keys.Right.Help().Key, Keys.Right.Help().Desc},
		{Keys.Enter.Help().Key, Keys.Enter.Help().Desc},
		{Keys.Back.Help().Key, Keys.Back.Help().Desc},
		{Keys.PageDown.Help().Key, Keys.PageDown.Help().Desc},
		{Keys.Home.Help().Key, Keys.Home.Help().Desc},
		{Keys.End.Help().Key, Keys.End.Help().Desc},
		{Keys.Filter.Help().Key, Keys.Filter.Help().Desc},
		{Keys.CycleSort.Help().Key, Keys.CycleSort.Help().Desc},
		{Keys.Sort.Help().Key, Keys.Sort.Help().Desc},
		{Keys.ToggleOrder.Help().Key, Keys.ToggleOrder.Help().Desc},
		{Keys.ResetFilters.Help().Key, Keys.ResetFilters.Help().Desc},
		{Keys.Refresh.Help().Key, Keys.Refresh.Help().Desc},
		{Keys.HomeScreen.Help().Key, Keys.HomeScreen.Help().Desc},
		{Keys.Libraries.Help().Key, Keys.Libraries.Help().Desc},
		{Keys.Quit.Help().Key, Keys.Quit.Help().Desc},
	}

	lines := []string{styles.ModalTitleStyle.Render("Keys")}
	for _, b := range bindings {
		lines = append(lines, styles.HelpKeyStyle.Render(styles.Pad(b.keys, 8))+styles.HelpDescStyle.Render(b.desc))
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(strings.Join(lines, "\n")))
}

func orderArrow(o domain.SortOrder) string {
	if o == domain.Descending {
		return "↓"
	}
	return "↑"
}

// window returns the [start, end) range of n rows that keeps cursor visible
func window(cursor, n, height int) (int, int) {
	height = max(height, 1)
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(start+height, n)
}
