package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cohortlab/rfmctl/internal/segment"
)

var rulesYAML bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the ordered segment rule table",
	Long: `Prints the segmentation rules in evaluation order. The first rule whose
thresholds match a customer's (r, f, m) scores wins; the final catch-all
guarantees every customer lands in a segment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules := segment.DefaultRules()
		if rulesYAML {
			b, err := yaml.Marshal(rules)
			if err != nil {
				return fmt.Errorf("marshal rules: %w", err)
			}
			fmt.Print(string(b))
			return nil
		}
		for i, r := range rules {
			fmt.Printf("%2d. %-20s %s\n", i+1, r.Segment, r.Describe())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesYAML, "yaml", false, "emit the rule table as YAML")
}
