package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/organizador/pkg/report"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	DefaultRulesFile = "config_financeiro.json"
)

type Config struct {
	RulesFile      string   `mapstructure:"rules_file"`
	OutputDir      string   `mapstructure:"output_dir"`
	Formats        []string `mapstructure:"formats"`
	LogLevel       string   `mapstructure:"log_level"`
	CurrencyFormat string   `mapstructure:"currency_format"`
	Charset        string   `mapstructure:"charset"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"rules":     "rules_file",
	"output":    "output_dir",
	"format":    "formats",
	"log-level": "log_level",
	"charset":   "charset",
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		RulesFile:      DefaultRulesFile,
		OutputDir:      ".",
		Formats:        []string{FormatXLSX},
		LogLevel:       "info",
		CurrencyFormat: report.DefaultCurrencyFormat,
		Charset:        "ISO-8859-1",
	}
}

// Build resolves configuration from defaults, a .env file, an optional
// config file, ORGANIZADOR_* environment variables and flags, in increasing
// precedence. flags may be nil.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := gotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	def := Default()
	v.SetDefault("rules_file", def.RulesFile)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("formats", def.Formats)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("currency_format", def.CurrencyFormat)
	v.SetDefault("charset", def.Charset)

	v.SetEnvPrefix("ORGANIZADOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "organizador"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var problems []string

	if len(c.Formats) == 0 {
		problems = append(problems, "at least one output format is required")
	}
	for _, f := range c.Formats {
		if f != FormatXLSX && f != FormatCSV {
			problems = append(problems, fmt.Sprintf("invalid output format '%s': must be one of [%s %s]", f, FormatXLSX, FormatCSV))
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
