package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/oqabench/oqa/config"
)

// ConfigCmd manages oqa configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage oqa configuration",
	Long: `Show the effective configuration or write a starter config file.

Examples:
  oqa config show
  oqa config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration after merging all sources",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config to ~/.oqa/config.toml",
	RunE:  runConfigInit,
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.UserConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.Persist(cfg, path); err != nil {
		return err
	}

	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
