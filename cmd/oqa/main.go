package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oqabench/oqa/cmd/oqa/commands"
	"github.com/oqabench/oqa/logger"
)

var rootCmd = &cobra.Command{
	Use:   "oqa",
	Short: "oqa - exact question-asking oracle for attribute-table guessing games",
	Long: `oqa - exact information-theoretic oracle for 20-questions-style datasets.

Computes the optimal question-asking policy over a finite attribute table
and the entropy trajectories it induces, for use as the reference curve when
evaluating model question-asking strategies.

Available commands:
  cost       - Expected number of questions under the optimal policy
  trajectory - Entropy trajectory for one target object
  curve      - Mean entropy curve over many targets (the oracle curve)
  runs       - Inspect persisted curve runs
  config     - Manage oqa configuration

Examples:
  oqa cost data/oqa_kary100_dataset.json
  oqa trajectory data/oqa_kary100_dataset.json --target 0000
  oqa curve data/oqa_kary100_dataset.json --targets 30 --csv oracle.csv --save
  oqa runs ls`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON output")

	rootCmd.AddCommand(commands.CostCmd)
	rootCmd.AddCommand(commands.TrajectoryCmd)
	rootCmd.AddCommand(commands.CurveCmd)
	rootCmd.AddCommand(commands.RunsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
