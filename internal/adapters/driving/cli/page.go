package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/core/domain"
)

var pageFlags struct {
	content   string
	version   string
	segment   string
	direction string
	size      int
	json      bool
}

var pageCmd = &cobra.Command{
	Use:   "page <text-id>",
	Short: "Print one page of a text",
	Long: `Fetch a single page of segments and print it as plain text.

The page starts at --segment and reads towards the end of the text, or
towards the start with --direction previous. Without --segment the first
page of the text is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	flags := pageCmd.Flags()
	flags.StringVar(&pageFlags.content, "content", "", "content of the text")
	flags.StringVar(&pageFlags.version, "version", "", "version of the text")
	flags.StringVarP(&pageFlags.segment, "segment", "s", "", "segment to read from")
	flags.StringVarP(&pageFlags.direction, "direction", "d", string(domain.DirectionNext), "next or previous")
	flags.IntVarP(&pageFlags.size, "size", "n", 0, "segments per page (default from settings)")
	flags.BoolVar(&pageFlags.json, "json", false, "output the page as JSON")
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	key := domain.SessionKey{TextID: args[0], ContentID: pageFlags.content, VersionID: pageFlags.version}
	prefs := currentPreferences()
	size := pageFlags.size
	if size <= 0 {
		size = prefs.PageSize
	}

	req := key.Request(pageFlags.segment, domain.Direction(pageFlags.direction), size)
	return printPage(cmd, req, prefs, pageFlags.json)
}

// printPage fetches req and writes it to the command output.
func printPage(cmd *cobra.Command, req domain.PageRequest, prefs domain.Preferences, asJSON bool) error {
	page, err := contentService.ReadPage(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("reading page: %w", err)
	}

	if asJSON {
		return printJSON(cmd, "page", newPageOutput(req.TextID, page))
	}

	title := page.TextDetail.Title
	if title == "" {
		title = req.TextID
	}
	cmd.Printf("%s (%d/%d)\n\n", title, page.CurrentSegmentPosition, page.TotalSegments)

	layout := reader.Render(page.Sections, outputWidth(cmd.OutOrStdout()), prefs.Layout, styles.DefaultStyles())
	cmd.Println(strings.TrimRight(strings.Join(layout.Lines, "\n"), "\n"))

	switch {
	case page.AtEnd() && req.Direction != domain.DirectionPrevious:
		cmd.Println("\n(end of text)")
	case page.AtStart() && req.Direction == domain.DirectionPrevious:
		cmd.Println("\n(start of text)")
	}
	return nil
}
