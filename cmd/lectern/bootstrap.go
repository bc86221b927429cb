package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/custodia-labs/lectern/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lectern/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lectern/internal/adapters/driven/textapi"
	"github.com/custodia-labs/lectern/internal/adapters/driving/cli"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
	"github.com/custodia-labs/lectern/internal/core/services"
	"github.com/custodia-labs/lectern/internal/logger"
)

// Config keys read at startup.
const (
	keyAPIURL       = "api.url"
	keyAPIRate      = "api.rate"
	keyAPIBurst     = "api.burst"
	keyTOCPageLimit = "toc.page_limit"

	keyScrollThrottle = "reader.scroll_throttle"
)

// defaultScrollThrottle bounds active-section recomputes while scrolling.
const defaultScrollThrottle = 50 * time.Millisecond

// bootstrap wires the adapters and services for one CLI invocation.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	logger.Section("Startup")

	if err := file.LoadDotEnv(".env", envFile(opts.ConfigDir)); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	config, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	for _, key := range config.ApplyEnv(os.Environ()) {
		logger.Debug("config %s set from environment", key)
	}

	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = config.GetString(keyAPIURL)
	}
	rate, burst := float64(config.GetInt(keyAPIRate)), config.GetInt(keyAPIBurst)
	if rate <= 0 {
		rate = textapi.DefaultRate
	}
	if burst <= 0 {
		burst = textapi.DefaultBurst
	}
	client := textapi.NewClient(apiURL,
		textapi.WithRateLimit(rate, burst),
		textapi.WithUserAgent("lectern/"+version),
	)
	logger.Debug("text api %s (%.0f req/s, burst %d)", client.BaseURL(), rate, burst)

	store, err := sqlite.NewStore(dataDir(opts.ConfigDir))
	if err != nil {
		return nil, fmt.Errorf("opening position store: %w", err)
	}

	watcher, err := file.NewWatcher(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("watching config: %w", err)
	}
	// Preferences are read per Get, so a reload needs no further action.
	go func() {
		for range watcher.Watch(ctx) {
		}
	}()

	toc := services.NewTOCService(client, config.GetInt(keyTOCPageLimit))
	locations := store.LocationStore()
	throttle := scrollThrottle(config.GetString(keyScrollThrottle))

	return &cli.Services{
		Content:     services.NewContentService(client, toc),
		TOC:         toc,
		Preferences: services.NewPreferencesService(config),
		History:     store.LocationHistory(),
		NewReader: func(pane *reader.Pane, prefs domain.Preferences) driving.Reader {
			view := services.SessionView{Index: pane, Viewport: pane, Render: pane}
			return services.NewReadingSession(client, prefs, view,
				services.WithSessionTOC(toc),
				services.WithSessionLocation(locations),
				services.WithSessionThrottle(throttle),
			)
		},
		Close: func() error {
			return multierr.Combine(watcher.Close(), store.Close())
		},
	}, nil
}

// scrollThrottle parses a duration such as "80ms". Empty selects the
// default and "0" disables throttling.
func scrollThrottle(raw string) time.Duration {
	if raw == "" {
		return defaultScrollThrottle
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		logger.Warn("invalid %s %q, using %s", keyScrollThrottle, raw, defaultScrollThrottle)
		return defaultScrollThrottle
	}
	return d
}

func envFile(configDir string) string {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".lectern")
	}
	return filepath.Join(configDir, ".env")
}

// dataDir returns the position store directory; empty selects the default.
func dataDir(configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "data")
}
