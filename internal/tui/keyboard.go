package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		m.closeStrip()
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.HomeScreen):
		m.closeStrip()
		m.Screen = ScreenHome
		return m, nil

	case key.Matches(msg, Keys.Libraries):
		m.closeStrip()
		m.Screen = ScreenLibraries
		return m, nil
	}

	switch m.Screen {
	case ScreenHome:
		return m.handleHomeKey(msg)
	case ScreenLibraries:
		return m.handleLibrariesKey(msg)
	case ScreenGrid:
		return m.handleGridKey(msg)
	case ScreenEpisodes:
		return m.handleStripKey(msg)
	}
	return m, nil
}

func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.SortModal.IsVisible() {
		_, chosen := m.SortModal.HandleKey(msg.String())
		if chosen == nil || m.Grid == nil {
			return true, m, nil
		}
		err := m.Grid.SetSortBy(*chosen)
		return true, m, m.afterQueryChange(err)
	}

	if m.FilterModal.IsVisible() {
		var cmd tea.Cmd
		var toggled *components.FilterOption
		m.FilterModal, cmd, toggled = m.FilterModal.Update(msg)
		if toggled == nil || m.Grid == nil {
			return true, m, cmd
		}
		switch toggled.Dimension {
		case components.DimensionGenre:
			m.Grid.ToggleGenre(toggled.Value)
		case components.DimensionTag:
			m.Grid.ToggleTag(toggled.Value)
		case components.DimensionYear:
			m.Grid.ToggleYear(toggled.Value)
		}
		m.FilterModal.SetSelection(m.Grid.State().Selection)
		return true, m, tea.Batch(cmd, m.afterQueryChange(nil))
	}

	return false, m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Down):
		if m.sectionCursor < len(m.Sections)-1 {
			m.sectionCursor++
			m.itemCursor = 0
		}
	case key.Matches(msg, Keys.Up):
		if m.sectionCursor > 0 {
			m.sectionCursor--
			m.itemCursor = 0
		}
	case key.Matches(msg, Keys.Right):
		if s, ok := m.currentSection(); ok && m.itemCursor < len(s.Items)-1 {
			m.itemCursor++
		}
	case key.Matches(msg, Keys.Left):
		if m.itemCursor > 0 {
			m.itemCursor--
		}
	case key.Matches(msg, Keys.Enter):
		if s, ok := m.currentSection(); ok && m.itemCursor < len(s.Items) {
			return m, m.openItem(s.Items[m.itemCursor])
		}
	case key.Matches(msg, Keys.Refresh):
		m.deps.Home.Refresh()
		m.Loading = true
		return m, LoadHomeCmd(m.deps.Home)
	}
	return m, nil
}

func (m Model) currentSection() (feed.SectionResult, bool) {
	if m.sectionCursor >= len(m.Sections) {
		return feed.SectionResult{}, false
	}
	return m.Sections[m.sectionCursor], true
}

func (m Model) handleLibrariesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Down):
		if m.libCursor < len(m.Libraries)-1 {
			m.libCursor++
		}
	case key.Matches(msg, Keys.Up):
		if m.libCursor > 0 {
			m.libCursor--
		}
	case key.Matches(msg, Keys.Enter):
		if m.libCursor < len(m.Libraries) {
			return m, m.openLibrary(m.Libraries[m.libCursor])
		}
	case key.Matches(msg, Keys.Refresh):
		return m, LoadViewsCmd(m.deps.Home)
	case key.Matches(msg, Keys.Back):
		m.Screen = ScreenHome
	}
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Back) {
		m.Screen = ScreenLibraries
		return m, nil
	}
	if !m.gridReady {
		return m, nil
	}

	st := m.Grid.State()
	switch {
	case key.Matches(msg, Keys.Down):
		if m.gridCursor < len(st.Items)-1 {
			m.gridCursor++
		}
		return m, m.maybeFetchMore()
	case key.Matches(msg, Keys.Up):
		if m.gridCursor > 0 {
			m.gridCursor--
		}
	case key.Matches(msg, Keys.PageDown):
		m.gridCursor = min(m.gridCursor+domain.LibraryPageSize/2, max(len(st.Items)-1, 0))
		return m, m.maybeFetchMore()
	case key.Matches(msg, Keys.Home):
		m.gridCursor = 0
	case key.Matches(msg, Keys.End):
		if !st.HasMore {
			m.gridCursor = max(len(st.Items)-1, 0)
			return m, nil
		}
		m.Loading = true
		ch := make(chan DrainProgress, 1)
		return m, tea.Batch(DrainCmd(m.Grid, ch), WaitForDrainProgressCmd(m.Grid, ch))
	case key.Matches(msg, Keys.Enter):
		if m.gridCursor < len(st.Items) {
			return m, m.openItem(st.Items[m.gridCursor])
		}
	case key.Matches(msg, Keys.CycleSort):
		return m, m.afterQueryChange(m.Grid.CycleSortBy())
	case key.Matches(msg, Keys.ToggleOrder):
		return m, m.afterQueryChange(m.Grid.ToggleSortOrder())
	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(m.Grid.SortOptions(), st.Selection.SortBy, st.Selection.SortOrder)
	case key.Matches(msg, Keys.Filter):
		m.Loading = true
		return m, LoadVocabularyCmd(m.Grid)
	case key.Matches(msg, Keys.ResetFilters):
		m.Grid.ResetFilters()
		return m, m.afterQueryChange(nil)
	case key.Matches(msg, Keys.Refresh):
		return m, m.openLibrary(st.Library)
	}
	return m, nil
}

func (m Model) handleStripKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Down):
		if m.Strip != nil && m.stripCursor < len(m.Strip.Episodes)-1 {
			m.stripCursor++
		}
	case key.Matches(msg, Keys.Up):
		if m.stripCursor > 0 {
			m.stripCursor--
		}
	case key.Matches(msg, Keys.Enter):
		if m.Strip != nil && m.stripCursor < len(m.Strip.Episodes) {
			return m, m.setStatus(m.Strip.Episodes[m.stripCursor].DisplayTitle())
		}
	case key.Matches(msg, Keys.Back):
		m.closeStrip()
		m.Screen = m.stripReturn
	}
	return m, nil
}
