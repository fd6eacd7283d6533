package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/organizador/pkg/config"
	"github.com/yurifrl/organizador/pkg/plan"
	"github.com/yurifrl/organizador/pkg/render"
	"github.com/yurifrl/organizador/pkg/rules"
	"github.com/yurifrl/organizador/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:           "organizador",
	Short:         "Classifies bank statements and builds a spending report",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [flags] <statement>...",
	Short: "Classify statements and write the report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		processor, err := newProcessor(cfg, cfg.RulesFile, logger)
		if err != nil {
			return err
		}

		res := processor.ProcessPaths(args)

		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			pp.Fprintln(os.Stderr, res.Model)
		}
		if preview, _ := cmd.Flags().GetBool("preview"); preview {
			render.Terminal(os.Stdout, res.Model)
			return failures(res)
		}

		return writeReport(processor, res, cfg, logger)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview the report described by a YAML plan (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd, args[0], false)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan_file>",
	Short: "Write the report described by a YAML plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd, args[0], true)
	},
}

func runPlan(cmd *cobra.Command, planPath string, apply bool) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	p, err := plan.Load(planPath)
	if err != nil {
		return err
	}
	rulesFile := cfg.RulesFile
	if p.Rules != "" {
		rulesFile = p.Rules
	}
	if p.Output != "" {
		cfg.OutputDir = p.Output
	}
	if len(p.Formats) > 0 {
		cfg.Formats = p.Formats
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	processor, err := newProcessor(cfg, rulesFile, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Plan for %s\n", planPath)
	p.Print(os.Stdout)
	res := processor.ProcessPaths(p.Files())

	if !apply {
		fmt.Println()
		render.Terminal(os.Stdout, res.Model)
		return failures(res)
	}

	return writeReport(processor, res, cfg, logger)
}

// writeReport writes every configured format and prints the headline
// metrics. An empty batch is reported with a warning, not an error.
func writeReport(processor *service.Processor, res *service.Result, cfg *config.Config, logger *log.Logger) error {
	written, err := processor.Write(res, cfg.OutputDir, cfg.Formats)
	if errors.Is(err, service.ErrNoTransactions) {
		logger.Warn("nothing to report", "files", res.Files, "failed", len(res.Failed))
		return failures(res)
	}
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println(path)
	}
	render.Metrics(os.Stdout, res.Model)
	return failures(res)
}

func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "organizador",
		Level:           cfg.Level(),
	})
	return cfg, logger, nil
}

// loadBook reads the rules file. An unreadable or malformed file leaves the
// built-in rules in place.
func loadBook(path string, logger *log.Logger) *rules.Book {
	book := rules.NewBook(nil)
	if path == "" {
		return book
	}
	if err := book.LoadFile(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("rules file not found, using defaults", "file", path)
		} else {
			logger.Warn("failed to load rules, using defaults", "file", path, "error", err)
		}
	}
	return book
}

func newProcessor(cfg *config.Config, rulesFile string, logger *log.Logger) (*service.Processor, error) {
	book := loadBook(rulesFile, logger)

	var opts []service.Option
	if cliFilters.active() {
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithFilter(filter))
	}
	return service.NewProcessor(cfg, book, logger, opts...), nil
}

// failures turns per-file errors into the command's exit status once the
// successful files have been reported.
func failures(res *service.Result) error {
	if len(res.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files failed", len(res.Failed), res.Files)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringP("rules", "r", config.DefaultRulesFile, "Rules file (JSON or YAML)")
	rootCmd.PersistentFlags().StringP("output", "o", ".", "Output directory")
	rootCmd.PersistentFlags().StringSliceP("format", "f", []string{config.FormatXLSX}, "Output formats (xlsx, csv)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("charset", "ISO-8859-1", "Charset assumed for statements that do not declare one")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY/MM/DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY/MM/DD)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum amount")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.payee, "payee", "", "Filter by description (case insensitive)")

	reportCmd.Flags().Bool("preview", false, "Print the report to the terminal instead of writing files")
	reportCmd.Flags().Bool("dump", false, "Dump the report model to stderr")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(rulesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
