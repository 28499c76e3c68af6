package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cohortlab/rfmctl/internal/dataset"
)

// Global configuration structure.
type Global struct {
	// Columns rebinds the transaction schema; empty fields use the
	// online-retail defaults.
	Columns dataset.Bindings `mapstructure:"columns" yaml:"columns"`

	// Scoring
	Bins   int    `mapstructure:"bins" yaml:"bins"`
	Method string `mapstructure:"method" yaml:"method"`

	// I/O
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// MySQL source (optional alternative to file input)
	MySQLDSN   string `mapstructure:"mysql_dsn" yaml:"mysql_dsn"`
	MySQLTable string `mapstructure:"mysql_table" yaml:"mysql_table"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.rfmctl/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".rfmctl")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RFMCTL")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("bins", 5)
	v.SetDefault("method", "quantile")
	v.SetDefault("delimiter", "")
	v.SetDefault("output_dir", "reports")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".rfmctl")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Columns = c.Columns.Normalize()
	return &c, nil
}
