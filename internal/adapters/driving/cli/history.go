package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lectern/internal/adapters/driven/storage/memory"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently read positions",
	Long: `List saved reading positions, newest first.

Each line ends with a lectern:// location that 'lectern read' accepts to
resume at that section.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of positions")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if locationHistory == nil {
		return errors.New("history not configured")
	}

	positions, err := locationHistory.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}
	if len(positions) == 0 {
		cmd.Println("No reading history.")
		return nil
	}

	for _, p := range positions {
		cmd.Printf("  %s  %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04"), memory.FormatLocation(p.Key, p.SectionID))
	}
	return nil
}
