package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

var tocFlags struct {
	language string
	json     bool
}

var tocCmd = &cobra.Command{
	Use:   "toc <text-id>",
	Short: "Print the table of contents of a text",
	Args:  cobra.ExactArgs(1),
	RunE:  runTOC,
}

func init() {
	tocCmd.Flags().StringVarP(&tocFlags.language, "language", "l", "", "language for titles (default from settings)")
	tocCmd.Flags().BoolVar(&tocFlags.json, "json", false, "output the table of contents as JSON")
	rootCmd.AddCommand(tocCmd)
}

func runTOC(cmd *cobra.Command, args []string) error {
	if tocService == nil {
		return errors.New("toc service not configured")
	}

	lang := tocFlags.language
	if lang == "" {
		lang = currentPreferences().Language
	}

	toc, err := tocService.Load(cmd.Context(), args[0], lang)
	if err != nil {
		return fmt.Errorf("loading table of contents: %w", err)
	}

	if tocFlags.json {
		return printJSON(cmd, "table of contents", newTOCOutput(toc))
	}

	if title := toc.TextDetail.Title; title != "" {
		cmd.Println(title)
		cmd.Println()
	}
	if len(toc.Sections()) == 0 {
		cmd.Println("No sections found.")
		return nil
	}
	for _, content := range toc.Contents {
		if len(toc.Contents) > 1 {
			cmd.Printf("[%s]\n", content.ID)
		}
		printSections(cmd, content.Sections, 0)
	}
	return nil
}

func printSections(cmd *cobra.Command, sections []domain.Section, depth int) {
	for _, sec := range sections {
		title := sec.Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("%s%s  %s\n", strings.Repeat("  ", depth), title, sec.ID)
		printSections(cmd, sec.Sections, depth+1)
	}
}
