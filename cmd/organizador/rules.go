package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/organizador/pkg/config"
	"github.com/yurifrl/organizador/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and edit the classification rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		rs := loadBook(cfg.RulesFile, logger).Snapshot()

		fmt.Println("Palavra_Chave -> Categoria")
		for _, r := range rs.KeywordRules() {
			fmt.Printf("  %-20s %s\n", r.Keyword, r.Category)
		}
		fmt.Println("Termo -> Tipo")
		for _, t := range rs.InternalTerms() {
			fmt.Printf("  %-20s %s\n", t.Term, t.Kind)
		}
		return nil
	},
}

var rulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in rules to the rules file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(cfg.RulesFile); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", cfg.RulesFile)
		}
		if err := rules.Default().SaveFile(cfg.RulesFile); err != nil {
			return err
		}
		logger.Info("rules file written", "file", cfg.RulesFile)
		return nil
	},
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the active rules to another file (JSON or YAML by extension)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := loadBook(cfg.RulesFile, logger).Snapshot().SaveFile(args[0]); err != nil {
			return err
		}
		logger.Info("rules exported", "file", args[0])
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <keyword> <category>",
	Short: "Add or replace a keyword rule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRules(cmd, func(rs *rules.RuleSet) error {
			return rs.UpsertKeywordRule(args[0], args[1])
		})
	},
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove <keyword>",
	Short: "Remove a keyword rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRules(cmd, func(rs *rules.RuleSet) error {
			return rs.RemoveKeywordRule(args[0])
		})
	},
}

var rulesAddInternalCmd = &cobra.Command{
	Use:   "add-internal <term> <kind>",
	Short: "Add or replace an internal movement term",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRules(cmd, func(rs *rules.RuleSet) error {
			return rs.UpsertInternalTerm(args[0], args[1])
		})
	},
}

var rulesRemoveInternalCmd = &cobra.Command{
	Use:   "remove-internal <term>",
	Short: "Remove an internal movement term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editRules(cmd, func(rs *rules.RuleSet) error {
			return rs.RemoveInternalTerm(args[0])
		})
	},
}

// editRules applies fn to the rules file and saves it. A missing file starts
// from the built-in rules; a malformed one is never overwritten.
func editRules(cmd *cobra.Command, fn func(*rules.RuleSet) error) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	book, err := openBook(cfg, logger)
	if err != nil {
		return err
	}
	if err := book.Update(fn); err != nil {
		return err
	}
	if err := book.Snapshot().SaveFile(cfg.RulesFile); err != nil {
		return err
	}
	logger.Info("rules saved", "file", cfg.RulesFile)
	return nil
}

func openBook(cfg *config.Config, logger *log.Logger) (*rules.Book, error) {
	book := rules.NewBook(nil)
	err := book.LoadFile(cfg.RulesFile)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		logger.Info("rules file not found, starting from defaults", "file", cfg.RulesFile)
	default:
		return nil, err
	}
	return book, nil
}

func init() {
	rulesInitCmd.Flags().Bool("force", false, "Overwrite an existing rules file")

	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesInitCmd)
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesRemoveCmd)
	rulesCmd.AddCommand(rulesAddInternalCmd)
	rulesCmd.AddCommand(rulesRemoveInternalCmd)
}
