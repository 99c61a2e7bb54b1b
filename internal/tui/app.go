package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/episodes"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/tui/components"
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenHome Screen = iota
	ScreenLibraries
	ScreenGrid
	ScreenEpisodes
)

const (
	// Rows left below the cursor before the next page is requested
	fetchThreshold = 8

	// Status bar and header
	ChromeHeight = 2

	statusTimeout = 3 * time.Second
)

// Deps are the engine hooks the model drives
type Deps struct {
	Home     *screen.HomeFeed
	NewGrid  func(libraryID string) *screen.LibraryGrid
	Episodes *episodes.Sequencer
	UserID   string
	Logger   *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Ready  bool

	deps Deps

	// Libraries
	Libraries []domain.Library
	libCursor int

	// Home feed
	Sections      []feed.SectionResult
	sectionCursor int
	itemCursor    int

	// Library grid
	Grid       *screen.LibraryGrid
	gridReady  bool
	gridCursor int

	// Episode strip
	Strip       *episodes.Strip
	stripDone   chan struct{}
	stripCursor int
	stripReturn Screen

	SortModal   components.SortModal
	FilterModal components.FilterModal

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	Loading     bool
	ShowHelp    bool
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return Model{
		Screen:      ScreenHome,
		deps:        deps,
		SortModal:   components.NewSortModal(),
		FilterModal: components.NewFilterModal(),
		Loading:     true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadHomeCmd(m.deps.Home),
		LoadViewsCmd(m.deps.Home),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case ViewsLoadedMsg:
		m.Libraries = msg.Libraries
		if m.libCursor >= len(m.Libraries) {
			m.libCursor = 0
		}
		return m, nil

	case HomeLoadedMsg:
		m.Loading = false
		m.Sections = msg.Sections
		m.sectionCursor = 0
		m.itemCursor = 0
		for _, s := range msg.Sections {
			if s.Err != nil {
				m.deps.Logger.Warn("home section failed", "section", s.Section.Title, "error", s.Err)
			}
		}
		return m, nil

	case GridOpenedMsg:
		if msg.Grid != m.Grid {
			return m, nil
		}
		m.Loading = false
		m.gridReady = true
		m.gridCursor = 0
		return m, FetchPageCmd(m.Grid)

	case PageLoadedMsg:
		if msg.Grid != m.Grid {
			return m, nil
		}
		if !m.Grid.Complete(msg.Ticket, msg.Page, msg.Err) {
			return m, nil
		}
		if msg.Err != nil {
			return m, m.setError(ErrMsg{Err: msg.Err, Context: "loading page"})
		}
		return m, m.maybeFetchMore()

	case DrainDoneMsg:
		if msg.Grid != m.Grid {
			return m, nil
		}
		m.Loading = false
		m.StatusMsg = ""
		if msg.Err != nil {
			return m, m.setError(ErrMsg{Err: msg.Err, Context: "loading all"})
		}
		if n := len(m.Grid.State().Items); n > 0 {
			m.gridCursor = n - 1
		}
		return m, nil

	case DrainProgressMsg:
		if msg.Grid != m.Grid {
			return m, nil
		}
		m.StatusMsg = fmt.Sprintf("loaded %d of %d", msg.Progress.Loaded, msg.Progress.Total)
		m.StatusIsErr = false
		return m, WaitForDrainProgressCmd(msg.Grid, msg.ch)

	case VocabularyLoadedMsg:
		if msg.Grid != m.Grid {
			return m, nil
		}
		m.Loading = false
		m.FilterModal.Show(msg.Vocabulary, m.Grid.State().Selection)
		return m, nil

	case StripOpenedMsg:
		m.closeStrip()
		m.Loading = false
		m.Strip = msg.Strip
		m.stripDone = make(chan struct{})
		m.stripCursor = max(msg.Strip.Current, 0)
		m.stripReturn = m.Screen
		m.Screen = ScreenEpisodes
		return m, WaitForScrollCmd(msg.Strip, msg.Scroll, m.stripDone)

	case ScrollMsg:
		if msg.Strip != m.Strip || msg.Index >= len(m.Strip.Episodes) {
			return m, nil
		}
		m.stripCursor = msg.Index
		return m, nil

	case ErrMsg:
		m.Loading = false
		return m, m.setError(msg)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m *Model) setError(e ErrMsg) tea.Cmd {
	m.deps.Logger.Error(e.Context, "error", e.Err)
	m.StatusMsg = e.Error()
	m.StatusIsErr = true
	return ClearStatusCmd(statusTimeout)
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.StatusMsg = s
	m.StatusIsErr = false
	return ClearStatusCmd(statusTimeout)
}

// maybeFetchMore requests the next page once the cursor nears the loaded end
func (m *Model) maybeFetchMore() tea.Cmd {
	if m.Grid == nil || !m.gridReady {
		return nil
	}
	st := m.Grid.State()
	if !st.HasMore || m.gridCursor < len(st.Items)-fetchThreshold {
		return nil
	}
	return FetchPageCmd(m.Grid)
}

func (m *Model) openLibrary(lib domain.Library) tea.Cmd {
	m.Grid = m.deps.NewGrid(lib.ID)
	m.gridReady = false
	m.gridCursor = 0
	m.Screen = ScreenGrid
	m.Loading = true
	return OpenGridCmd(m.Grid)
}

// openItem drills into an item. Episodes open their season strip; collections open as a grid.
func (m *Model) openItem(item domain.Item) tea.Cmd {
	switch item.Type {
	case domain.KindEpisode:
		m.Loading = true
		return OpenStripCmd(m.deps.Episodes, m.deps.UserID, item)
	case domain.KindFolder:
		return m.openLibrary(domain.Library{ID: item.ID, Name: item.Name})
	default:
		return m.setStatus(item.DisplayTitle())
	}
}

func (m *Model) closeStrip() {
	if m.Strip == nil {
		return
	}
	m.Strip.Stop()
	if m.stripDone != nil {
		close(m.stripDone)
		m.stripDone = nil
	}
	m.Strip = nil
}

// afterQueryChange restarts the grid from the top of the new result set
func (m *Model) afterQueryChange(err error) tea.Cmd {
	m.gridCursor = 0
	cmds := []tea.Cmd{FetchPageCmd(m.Grid)}
	if err != nil {
		cmds = append(cmds, m.setError(ErrMsg{Err: err, Context: "saving preference"}))
	}
	return tea.Batch(cmds...)
}
