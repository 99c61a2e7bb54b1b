package screen

import (
	"context"
	"log/slog"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/feed"
)

// ViewStore remembers the user's views between runs
type ViewStore interface {
	GetLibraries() ([]domain.Library, bool)
	SaveLibraries(libs []domain.Library) error
}

// HomeFeed composes and loads the home screen
type HomeFeed struct {
	catalog domain.Catalog
	service *feed.Service
	views   ViewStore
	userID  string
	hidden  []string
	cfg     *domain.HomeFeedConfig
	logger  *slog.Logger
}

// NewHomeFeed creates the home screen hooks. A nil cfg selects the default layout;
// views may be nil.
func NewHomeFeed(catalog domain.Catalog, service *feed.Service, views ViewStore, userID string, hidden []string, cfg *domain.HomeFeedConfig, logger *slog.Logger) *HomeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &HomeFeed{
		catalog: catalog,
		service: service,
		views:   views,
		userID:  userID,
		hidden:  hidden,
		cfg:     cfg,
		logger:  logger,
	}
}

// Views returns the user's libraries, falling back to the last saved list
// when the server cannot be reached
func (h *HomeFeed) Views(ctx context.Context) ([]domain.Library, error) {
	libs, err := h.catalog.GetUserViews(ctx, h.userID)
	if err != nil {
		if h.views != nil {
			if saved, ok := h.views.GetLibraries(); ok {
				h.logger.Warn("using saved user views", "error", err)
				return saved, nil
			}
		}
		return nil, err
	}
	if h.views != nil {
		if err := h.views.SaveLibraries(libs); err != nil {
			h.logger.Warn("failed to save user views", "error", err)
		}
	}
	return libs, nil
}

// Sections computes the section list. Configured feeds do not need the user's views.
func (h *HomeFeed) Sections(ctx context.Context) ([]domain.SectionDescriptor, error) {
	if h.cfg != nil {
		return feed.Compose(h.userID, nil, h.hidden, h.cfg), nil
	}
	views, err := h.Views(ctx)
	if err != nil {
		return nil, err
	}
	return feed.Compose(h.userID, views, h.hidden, nil), nil
}

// Load computes the sections and fetches them all
func (h *HomeFeed) Load(ctx context.Context) ([]feed.SectionResult, error) {
	sections, err := h.Sections(ctx)
	if err != nil {
		return nil, err
	}
	return h.service.Load(ctx, h.userID, sections), nil
}

// Refresh drops cached section results
func (h *HomeFeed) Refresh() {
	h.service.Invalidate()
}
