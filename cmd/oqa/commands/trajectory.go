package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/oqabench/oqa/config"
)

var (
	trajectoryTargetFlag string
	trajectoryStepsFlag  int
)

// TrajectoryCmd simulates the optimal policy against one target
var TrajectoryCmd = &cobra.Command{
	Use:   "trajectory [dataset]",
	Short: "Entropy trajectory for one target object",
	Long: `Simulate the optimal question-asking policy against a specific target and
print the question asked, the target's answer, and the posterior entropy at
each step.

Examples:
  oqa trajectory data/oqa_kary100_dataset.json --target 0000
  oqa trajectory animals.json --target otter --steps 12 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrajectory,
}

func init() {
	TrajectoryCmd.Flags().StringVar(&trajectoryTargetFlag, "target", "", "Target object id (required)")
	TrajectoryCmd.Flags().IntVar(&trajectoryStepsFlag, "steps", 0, "Questions to simulate (default: oracle.max_steps)")
	TrajectoryCmd.MarkFlagRequired("target")
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := resolveDatasetPath(args, cfg)
	if err != nil {
		return err
	}
	steps := trajectoryStepsFlag
	if steps <= 0 {
		steps = cfg.Oracle.MaxSteps
	}

	o, err := buildOracle(path)
	if err != nil {
		return err
	}

	trace, err := o.TraceForTarget(trajectoryTargetFlag, steps)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out, err := json.MarshalIndent(map[string]interface{}{
			"dataset": path,
			"target":  trajectoryTargetFlag,
			"steps":   trace,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	rows := pterm.TableData{{"Step", "Question", "Answer", "Remaining", "Entropy (bits)"}}
	for i, step := range trace {
		question := step.Attribute
		answer := step.Answer
		if question == "" {
			question, answer = "-", "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			question,
			answer,
			strconv.Itoa(step.Remaining),
			fmt.Sprintf("%.4f", step.EntropyBits),
		})
	}

	pterm.DefaultSection.Printfln("Trajectory for %s", trajectoryTargetFlag)
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
