// Package cli provides the lectern command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/term"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
	"github.com/custodia-labs/lectern/internal/logger"
)

// defaultWidth is used for plain output when stdout is not a terminal.
const defaultWidth = 80

// annotationStandalone marks commands that run without services.
const annotationStandalone = "standalone"

// Options are the global flags.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// ConfigDir overrides ~/.lectern.
	ConfigDir string

	// APIURL overrides the configured text API base URL.
	APIURL string
}

// ReaderFactory creates a reading session rendered by pane.
type ReaderFactory func(pane *reader.Pane, prefs domain.Preferences) driving.Reader

// Services are the ports the commands drive.
type Services struct {
	Content     driving.ContentService
	TOC         driving.TOCService
	Preferences driving.PreferencesService
	History     driven.LocationHistory
	NewReader   ReaderFactory

	// Close releases what the bootstrap opened. Optional.
	Close func() error
}

// Bootstrap builds the services once the global flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	version = "dev"

	contentService     driving.ContentService
	tocService         driving.TOCService
	preferencesService driving.PreferencesService
	locationHistory    driven.LocationHistory
	newReader          ReaderFactory
	closeServices      func() error

	bootstrap Bootstrap
	options   Options
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "lectern",
	Short: "Read hierarchical texts in the terminal",
	Long: `lectern reads long, hierarchical texts from the text API one page at a
time, with a table of contents that follows your reading position.

Open a text in the interactive reader with 'lectern read <text-id>', or
print pages and contents as plain text for scripts.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&options.ConfigDir, "config-dir", "", "configuration directory (default ~/.lectern)")
	flags.StringVar(&options.APIURL, "api-url", "", "text API base URL")
}

// SetVersion sets the version reported by 'lectern version'.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	contentService = s.Content
	tocService = s.TOC
	preferencesService = s.Preferences
	locationHistory = s.History
	newReader = s.NewReader
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		err = multierr.Append(err, closeServices())
		closeServices = nil
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)
	if cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}
	if contentService != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(cmd.Context(), options)
	if err != nil {
		return fmt.Errorf("starting lectern: %w", err)
	}
	SetServices(s)
	return nil
}

// configDir returns the effective configuration directory.
func configDir() string {
	if options.ConfigDir != "" {
		return options.ConfigDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lectern"
	}
	return filepath.Join(home, ".lectern")
}

// currentPreferences returns configured preferences, or the defaults.
func currentPreferences() domain.Preferences {
	if preferencesService == nil {
		return domain.DefaultPreferences()
	}
	prefs, err := preferencesService.Get()
	if err != nil {
		logger.Warn("reading preferences: %v", err)
		return preferencesService.GetDefaults()
	}
	return prefs
}

// outputWidth returns the terminal width of w, or defaultWidth.
func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && isTerminal(w) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}
