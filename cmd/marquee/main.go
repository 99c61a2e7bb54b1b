package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/marquee/internal/cache"
	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/episodes"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/jellyfin"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/paging"
	"github.com/mmcdole/marquee/internal/preferences"
	"github.com/mmcdole/marquee/internal/screen"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

const (
	sectionCacheSize = 64
	itemCacheSize    = 256
)

func main() {
	var (
		showVersion bool
		configFile  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configFile, "config", "", "path to a config file")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	st, err := store.New(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	client := jellyfin.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	prefs := preferences.NewRepository(st, logger)

	sections := feed.NewService(client,
		cache.New[[]domain.Item](sectionCacheSize, cfg.Home.SectionTTL),
		logger,
		feed.WithMaxItems(cfg.Home.SectionLimit),
	)
	home := screen.NewHomeFeed(client, sections, st, cfg.Server.UserID,
		cfg.Home.HiddenLibraries, feed.LoadHomeFeed(cfg.Home.Sections, logger), logger)

	policy := paging.ParseOffsetPolicy(cfg.Library.OffsetPolicy)
	seq := episodes.New(client, st, cache.NewItemCache(itemCacheSize, cfg.Episodes.PrefetchTTL),
		episodes.Options{Offline: cfg.Episodes.Offline, SettleDelay: cfg.Episodes.SettleDelay}, logger)

	model := tui.NewModel(tui.Deps{
		Home: home,
		NewGrid: func(libraryID string) *screen.LibraryGrid {
			return screen.NewLibraryGrid(client, prefs, cfg.Server.UserID, libraryID, policy, logger,
				screen.WithPageSize(cfg.Library.PageSize))
		},
		Episodes: seq,
		UserID:   cfg.Server.UserID,
		Logger:   logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfigFile(path)
	}
	return config.LoadConfig()
}

// runSetupFlow asks for the server, API key and user when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		serverURL, err := prompt(reader, "Enter your Jellyfin URL (e.g., http://192.168.1.100:8096): ")
		if err != nil {
			return err
		}
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Print("API key: ")
		key, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}

		username, err := prompt(reader, "Username: ")
		if err != nil {
			return err
		}

		client := jellyfin.NewClient(serverURL, strings.TrimSpace(string(key)), logger)
		userID, err := lookupUserWithSpinner(client, username)
		if err != nil {
			fmt.Printf("\n✗ %v\n", err)
			fmt.Println("Please check the details and try again.")
			fmt.Println()
			continue
		}

		cfg.Server.URL = serverURL
		cfg.Server.Token = strings.TrimSpace(string(key))
		cfg.Server.Username = username
		cfg.Server.UserID = userID
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run marquee again to start the application.")

	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// lookupUserWithSpinner resolves the user id with a visual spinner
func lookupUserWithSpinner(client *jellyfin.Client, username string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	type result struct {
		userID string
		err    error
	}
	resultCh := make(chan result, 1)

	go func() {
		id, err := client.FindUser(ctx, username)
		resultCh <- result{id, err}
	}()

	frame := 0
	fmt.Printf("\r%s Looking up user...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if res.err != nil {
				return "", res.err
			}
			fmt.Printf("✓ Found %s\n", username)
			return res.userID, nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Looking up user...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return "", fmt.Errorf("lookup timed out")
		}
	}
}
