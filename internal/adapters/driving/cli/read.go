package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lectern/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/logger"
)

// logFile is written under the config directory while the reader runs.
const logFile = "lectern.log"

var readFlags struct {
	content string
	version string
	segment string
	section string
}

var readCmd = &cobra.Command{
	Use:   "read <text-id | lectern://texts/...>",
	Short: "Open a text in the interactive reader",
	Long: `Open a text in the interactive terminal reader.

The reader resumes at the last saved section unless --segment or --section
is given. A lectern:// location from 'lectern history' opens that position.
When stdout is not a terminal the first page is printed instead.

Controls:
  ↑/k, ↓/j   - Scroll
  PgUp/PgDn  - Scroll a screen
  n, p       - Load next / previous page
  Tab        - Switch between contents and text
  Enter      - Jump to the selected section
  Space      - Expand / collapse a section
  ?          - Toggle help
  q          - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	flags := readCmd.Flags()
	flags.StringVar(&readFlags.content, "content", "", "content of the text")
	flags.StringVar(&readFlags.version, "version", "", "version of the text")
	flags.StringVarP(&readFlags.segment, "segment", "s", "", "segment to open at")
	flags.StringVar(&readFlags.section, "section", "", "section to jump to after opening")
	rootCmd.AddCommand(readCmd)
}

// readTarget resolves the argument and flags into a session key, an
// opening anchor and a section to navigate to.
func readTarget(arg string) (key domain.SessionKey, anchor, section string, err error) {
	if strings.HasPrefix(arg, "lectern://") {
		key, section, err = memory.ParseLocation(arg)
		if err != nil {
			return domain.SessionKey{}, "", "", err
		}
	} else {
		key.TextID = arg
	}
	if key.TextID == "" {
		return domain.SessionKey{}, "", "", fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}

	if readFlags.content != "" {
		key.ContentID = readFlags.content
	}
	if readFlags.version != "" {
		key.VersionID = readFlags.version
	}
	if readFlags.section != "" {
		section = readFlags.section
	}
	return key, readFlags.segment, section, nil
}

func runRead(cmd *cobra.Command, args []string) error {
	key, anchor, section, err := readTarget(args[0])
	if err != nil {
		return err
	}
	prefs := currentPreferences()

	if !isTerminal(cmd.OutOrStdout()) {
		if contentService == nil {
			return errors.New("content service not configured")
		}
		return printPage(cmd, key.Request(anchor, domain.DirectionNext, prefs.PageSize), prefs, false)
	}
	if newReader == nil {
		return errors.New("reader not configured")
	}

	// Keep log lines off the alternate screen.
	if options.Verbose {
		f, err := logger.OpenFile(filepath.Join(configDir(), logFile))
		if err != nil {
			return err
		}
		defer func() {
			logger.SetOutput(os.Stderr)
			f.Close()
		}()
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in reader: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	pane := reader.NewPane(styles.DefaultStyles(), prefs.Layout)
	session := newReader(pane, prefs)
	pane.Bind(session)

	app, err := tui.NewApp(tui.NewPorts(session, pane), tui.Config{Key: key, Anchor: anchor, Section: section})
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("reader error: %w", err)
	}
	return nil
}
