package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

var settingsFlags struct {
	pageSize int
	language string
	layout   string
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage reading preferences",
	Long: `View and configure page size, language and layout.

Use subcommands to change a setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	Long: `Change reading preferences. Unset flags keep their current value.

Layouts:
  segmented - One block per segment with its number
  prose     - Segments flow as paragraphs`,
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsSetCmd.Flags().IntVar(&settingsFlags.pageSize, "page-size", 0, "segments per page")
	settingsSetCmd.Flags().StringVar(&settingsFlags.language, "language", "", "language for titles and translations")
	settingsSetCmd.Flags().StringVar(&settingsFlags.layout, "layout", "", "segmented or prose")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if preferencesService == nil {
		return errors.New("preferences service not configured")
	}

	prefs, err := preferencesService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[Reader]")
	cmd.Printf("  Page size: %d\n", prefs.PageSize)
	cmd.Printf("  Language: %s\n", prefs.Language)
	cmd.Printf("  Layout: %s\n", prefs.Layout)
	cmd.Println()

	if err := prefs.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'lectern settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if preferencesService == nil {
		return errors.New("preferences service not configured")
	}

	prefs, err := preferencesService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if cmd.Flags().Changed("page-size") {
		prefs.PageSize = settingsFlags.pageSize
	}
	if cmd.Flags().Changed("language") {
		prefs.Language = settingsFlags.language
	}
	if cmd.Flags().Changed("layout") {
		prefs.Layout = domain.LayoutMode(settingsFlags.layout)
	}

	if err := preferencesService.Save(prefs); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if preferencesService == nil {
		return errors.New("preferences service not configured")
	}

	current, err := preferencesService.Get()
	if err != nil {
		current = preferencesService.GetDefaults()
	}

	cmd.Println("lectern Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	prefs := current

	cmd.Printf("Step 1: Segments per page (1-%d) [%d]: ", domain.MaxPageSize, current.PageSize)
	prefs.PageSize = parseChoice(readLine(reader), domain.MaxPageSize, current.PageSize)

	cmd.Printf("Step 2: Language [%s]: ", current.Language)
	if lang := readLine(reader); lang != "" {
		prefs.Language = lang
	}

	cmd.Println("Step 3: Layout")
	layouts := []domain.LayoutMode{domain.LayoutSegmented, domain.LayoutProse}
	defaultLayout := 1
	for i, l := range layouts {
		cmd.Printf("  %d. %s\n", i+1, l)
		if l == current.Layout {
			defaultLayout = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultLayout)
	prefs.Layout = layouts[parseChoice(readLine(reader), len(layouts), defaultLayout)-1]
	cmd.Println()

	if err := preferencesService.Save(prefs); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Saved: %d segments per page, %s, %s layout\n", prefs.PageSize, prefs.Language, prefs.Layout)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
