package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/cohortlab/rfmctl/internal/config"
	"github.com/cohortlab/rfmctl/internal/rfm"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set rfmctl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		fmt.Printf("bins: %d\n", c.Bins)
		fmt.Printf("method: %s\n", c.Method)
		if c.Delimiter != "" {
			fmt.Printf("delimiter: %s\n", c.Delimiter)
		}
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		if c.MySQLDSN != "" {
			fmt.Printf("mysql_dsn: (set)\n")
		}
		if c.MySQLTable != "" {
			fmt.Printf("mysql_table: %s\n", c.MySQLTable)
		}
		b := c.Columns
		fmt.Printf("columns: invoice_no=%s customer_id=%s invoice_date=%s quantity=%s unit_price=%s total_amount=%s\n",
			b.InvoiceNo, b.CustomerID, b.InvoiceDate, b.Quantity, b.UnitPrice, b.TotalAmount)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "bins":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid bins: %s", val)
			}
			cfg.Bins = n
		case "method":
			m, err := rfm.ParseMethod(val)
			if err != nil {
				return err
			}
			cfg.Method = string(m)
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "output_dir":
			cfg.OutputDir = val
		case "mysql_dsn":
			cfg.MySQLDSN = val
		case "mysql_table":
			cfg.MySQLTable = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
