package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/pipeline"
	"github.com/cohortlab/rfmctl/internal/rfm"
	"github.com/cohortlab/rfmctl/internal/source"
)

var (
	anaOutputPath   string
	anaReportPath   string
	anaYAMLPath     string
	anaCleanedPath  string
	anaBins         int
	anaMethod       string
	anaSnapshot     string
	anaDelimiter    string
	anaMaxRows      int
	anaMySQLDSN     string
	anaMySQLTable   string
	anaMySQLTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the full RFM pipeline and write the segmented table and report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()

		opts := pipeline.Options{
			Bindings: c.Columns,
			Bins:     c.Bins,
			Observer: newObserver(),
		}
		if anaBins > 0 {
			opts.Bins = anaBins
		}
		methodName := c.Method
		if anaMethod != "" {
			methodName = anaMethod
		}
		method, err := rfm.ParseMethod(methodName)
		if err != nil {
			return err
		}
		opts.Method = method

		if anaSnapshot != "" {
			ts, ok := dataset.ParseTime(anaSnapshot)
			if !ok {
				return fmt.Errorf("unparseable --snapshot: %s", anaSnapshot)
			}
			opts.Snapshot = ts
		}
		delim, err := parseDelimiter(firstNonEmpty(anaDelimiter, c.Delimiter))
		if err != nil {
			return err
		}
		opts.Load = dataset.LoadOptions{Delimiter: delim, MaxRows: anaMaxRows}

		dsn := firstNonEmpty(anaMySQLDSN, c.MySQLDSN)
		table := firstNonEmpty(anaMySQLTable, c.MySQLTable)
		switch {
		case len(args) == 1:
			opts.InputPath = args[0]
		case dsn != "" && table != "":
			t, err := fetchMySQL(dsn, table, opts.Bindings, anaMySQLTimeout)
			if err != nil {
				return err
			}
			opts.Table = t
		default:
			return fmt.Errorf("provide an input file, or --mysql-dsn with --mysql-table")
		}

		out, err := pipeline.Run(opts)
		if err != nil {
			return err
		}

		segPath := anaOutputPath
		if segPath == "" {
			segPath = filepath.Join(c.OutputDir, "segmented.csv")
		}
		if err := dataset.WriteCSV(out.SegmentedTable(), segPath); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote segmented customers to %s\n", segPath)

		if anaCleanedPath != "" {
			if err := dataset.WriteCSV(out.Cleaned, anaCleanedPath); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote cleaned transactions to %s\n", anaCleanedPath)
		}
		if anaYAMLPath != "" {
			b, err := out.Report.YAML()
			if err != nil {
				return err
			}
			if err := writeReportFile(anaYAMLPath, b); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote YAML report to %s\n", anaYAMLPath)
		}
		md := out.Report.Markdown()
		if anaReportPath != "" {
			if err := writeReportFile(anaReportPath, []byte(md)); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote report to %s\n", anaReportPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "path for the segmented CSV (default <output_dir>/segmented.csv)")
	analyzeCmd.Flags().StringVar(&anaReportPath, "report", "", "optional path to write the Markdown report (stdout if omitted)")
	analyzeCmd.Flags().StringVar(&anaYAMLPath, "yaml", "", "optional path to write the YAML report")
	analyzeCmd.Flags().StringVar(&anaCleanedPath, "save-cleaned", "", "optional path to write the cleaned transaction table")
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 0, "number of score bins (default from config, 5)")
	analyzeCmd.Flags().StringVar(&anaMethod, "method", "", "scoring method: quantile | equal-width")
	analyzeCmd.Flags().StringVar(&anaSnapshot, "snapshot", "", "snapshot date for recency (default: newest transaction + 1 day)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "input delimiter: ',' | ';' | 'tab'")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	analyzeCmd.Flags().StringVar(&anaMySQLDSN, "mysql-dsn", "", "MySQL/MariaDB DSN to read transactions from instead of a file")
	analyzeCmd.Flags().StringVar(&anaMySQLTable, "mysql-table", "", "transaction table name for --mysql-dsn")
	analyzeCmd.Flags().DurationVar(&anaMySQLTimeout, "mysql-timeout", 2*time.Minute, "timeout for the MySQL fetch")
}

func fetchMySQL(dsn, table string, b dataset.Bindings, timeout time.Duration) (*dataset.Table, error) {
	db, err := source.Open(dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return source.Fetch(ctx, db, table, b)
}

func writeReportFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s", s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
