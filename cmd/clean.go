package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cohortlab/rfmctl/internal/cleaning"
	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/events"
)

var (
	cleanOutputPath string
	cleanDelimiter  string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a raw transaction export and write the analysis-ready table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		path := args[0]

		delim, err := parseDelimiter(firstNonEmpty(cleanDelimiter, c.Delimiter))
		if err != nil {
			return err
		}
		t, err := dataset.Load(path, dataset.LoadOptions{Delimiter: delim})
		if err != nil {
			return err
		}
		if err := dataset.Validate(t, c.Columns.Required()); err != nil {
			return err
		}

		res, err := cleaning.Clean(t, c.Columns, events.Nop)
		if err != nil {
			return err
		}
		fmt.Printf("Initial rows: %d\n", t.Len())
		for _, s := range res.Steps {
			if s.Removed > 0 {
				fmt.Printf("  %-28s -%d\n", s.Name, s.Removed)
			}
		}
		fmt.Printf("Cleaned rows: %d (removed %d)\n", res.Table.Len(), res.Removed())

		out := cleanOutputPath
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out = filepath.Join(c.OutputDir, base+"_cleaned.csv")
		}
		if err := dataset.WriteCSV(res.Table, out); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote cleaned table to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutputPath, "output", "o", "", "output path (default <output_dir>/<name>_cleaned.csv)")
	cleanCmd.Flags().StringVar(&cleanDelimiter, "delimiter", "", "input delimiter: ',' | ';' | 'tab'")
}
