package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spineperf/internal/config"
)

var (
	configShowFormat string
	configForce      bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage spineperf configuration",
	Long:  "Create and view the configuration file holding the scoring table and tool settings.",
}

var configInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write the default configuration",
	Long: `Write the built-in configuration to a file. The format follows the
extension: .json, .toml, .yaml or .yml.

Examples:
  spineperf config init spineperf.toml
  spineperf config init .spineperf/config.yaml --force`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the configuration after applying the config file and defaults.

Examples:
  spineperf config show
  spineperf config show --config=spineperf.toml --format=toml`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "Output format (json, toml, yaml)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd, config.Flags{})
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg, configShowFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
