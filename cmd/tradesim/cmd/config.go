package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage simulation configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradesim config init -o my-config.yaml
  tradesim config validate -f my-config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  tradesim config init -o simulation.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  tradesim config validate -f simulation.yaml`,
	RunE: runConfigValidate,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "simulation.yaml", "output config file path")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  tradesim batch -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("validate: --config is required")
	}
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s := cfg.Simulation
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", cfgFile)
	fmt.Fprintf(out, "  Capital: %.2f  Risk: %.2f  R:R %.2f  P(win): %.2f\n",
		s.StartingCapital, s.AmountRisked, s.RiskRewardRatio, s.WinProbability)
	fmt.Fprintf(out, "  Batch: %d sessions, seed %d\n", cfg.Batch.Sessions, cfg.Batch.Seed)
	journalType := cfg.Journal.Type
	if journalType == "" {
		journalType = "none"
	}
	fmt.Fprintf(out, "  Journal: %s\n", journalType)
	printRiskWarnings(out, s)
	return nil
}
