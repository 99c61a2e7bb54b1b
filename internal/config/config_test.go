package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 36, cfg.Library.PageSize)
	assert.Equal(t, "running-total", cfg.Library.OffsetPolicy)
	assert.Equal(t, 20, cfg.Home.SectionLimit)
	assert.Equal(t, 400*time.Millisecond, cfg.Episodes.SettleDelay)
	assert.Equal(t, 5*time.Minute, cfg.Episodes.PrefetchTTL)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  url: http://jellyfin.local:8096
  token: abc
  user_id: u1
library:
  offset_policy: page-multiple
home:
  hidden_libraries: [lib-kids]
  section_ttl: 2m
  sections:
    - name: unwatched
      title: Unwatched Movies
      orientation: horizontal
      items:
        limit: 10
        include_item_types: [Movie]
        sort_by: [Random]
        filters: [IsUnplayed]
    - name: upnext
      title: Up Next
      next_up:
        enable_resumable: false
    - name: fresh
      title: Fresh
      latest:
        include_item_types: [Episode]
        group_items: true
episodes:
  offline: true
  settle_delay: 100ms
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "http://jellyfin.local:8096", cfg.Server.URL)
	assert.Equal(t, "page-multiple", cfg.Library.OffsetPolicy)
	assert.Equal(t, 36, cfg.Library.PageSize, "unset values keep defaults")
	assert.Equal(t, []string{"lib-kids"}, cfg.Home.HiddenLibraries)
	assert.Equal(t, 2*time.Minute, cfg.Home.SectionTTL)
	assert.True(t, cfg.Episodes.Offline)
	assert.Equal(t, 100*time.Millisecond, cfg.Episodes.SettleDelay)

	require.Len(t, cfg.Home.Sections, 3)

	items := cfg.Home.Sections[0]
	assert.Equal(t, "unwatched", items.Name)
	assert.Equal(t, "horizontal", items.Orientation)
	require.NotNil(t, items.Items)
	assert.Equal(t, 10, items.Items.Limit)
	assert.Equal(t, []string{"Movie"}, items.Items.IncludeItemTypes)
	assert.Equal(t, []string{"IsUnplayed"}, items.Items.Filters)
	assert.Nil(t, items.NextUp)

	nextUp := cfg.Home.Sections[1]
	require.NotNil(t, nextUp.NextUp)
	require.NotNil(t, nextUp.NextUp.EnableResumable)
	assert.False(t, *nextUp.NextUp.EnableResumable)
	assert.Nil(t, nextUp.NextUp.EnableRewatching)

	latest := cfg.Home.Sections[2]
	require.NotNil(t, latest.Latest)
	require.NotNil(t, latest.Latest.GroupItems)
	assert.True(t, *latest.Latest.GroupItems)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveConfig_PreservesSections(t *testing.T) {
	path := writeConfig(t, `
home:
  sections:
    - name: upnext
      next_up:
        limit: 5
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	cfg.Server.URL = "http://example"
	cfg.Server.Token = "tok"
	cfg.Server.UserID = "me"

	require.NoError(t, saveConfigTo(cfg, path))

	reloaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsConfigured())
	require.Len(t, reloaded.Home.Sections, 1)
	require.NotNil(t, reloaded.Home.Sections[0].NextUp)
	assert.Equal(t, 5, reloaded.Home.Sections[0].NextUp.Limit)
}
