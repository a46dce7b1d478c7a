package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/oqabench/oqa/config"
	"github.com/oqabench/oqa/logger"
	"github.com/oqabench/oqa/store"
	"github.com/oqabench/oqa/summary"
)

var (
	curveTargetsFlag   int
	curveTargetIDsFlag []string
	curveStepsFlag     int
	curveCSVFlag       string
	curveLabelFlag     string
	curveSaveFlag      bool
)

// CurveCmd computes the oracle reference curve for a dataset
var CurveCmd = &cobra.Command{
	Use:   "curve [dataset]",
	Short: "Mean entropy curve over many targets (the oracle curve)",
	Long: `Average the optimal-policy entropy trajectories over a set of targets.
This is the oracle reference curve that model question-asking strategies are
compared against.

Targets default to the first N object ids in sorted order, which reproduces
the released oracle curves; pass --target explicitly to average a custom
set of ids.

Examples:
  oqa curve data/oqa_kary100_dataset.json
  oqa curve data/oqa_kary100_dataset.json --targets 30 --steps 10
  oqa curve animals.json --target otter --target heron --csv oracle.csv
  oqa curve animals.json --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCurve,
}

func init() {
	CurveCmd.Flags().IntVar(&curveTargetsFlag, "targets", 0, "Average over the first N sorted ids (default: oracle.num_targets)")
	CurveCmd.Flags().StringArrayVar(&curveTargetIDsFlag, "target", nil, "Explicit target id (repeatable, overrides --targets)")
	CurveCmd.Flags().IntVar(&curveStepsFlag, "steps", 0, "Questions to simulate per target (default: oracle.max_steps)")
	CurveCmd.Flags().StringVar(&curveCSVFlag, "csv", "", "Write plot summary CSV to this path (\"-\" for stdout)")
	CurveCmd.Flags().StringVar(&curveLabelFlag, "label", "", "Model label for the summary rows (default: output.label)")
	CurveCmd.Flags().BoolVar(&curveSaveFlag, "save", false, "Persist the run to the oqa database")
}

func runCurve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := resolveDatasetPath(args, cfg)
	if err != nil {
		return err
	}

	steps := curveStepsFlag
	if steps <= 0 {
		steps = cfg.Oracle.MaxSteps
	}
	label := curveLabelFlag
	if label == "" {
		label = cfg.Output.Label
	}
	csvPath := curveCSVFlag
	if csvPath == "" {
		csvPath = cfg.Output.CSVPath
	}

	o, err := buildOracle(path)
	if err != nil {
		return err
	}

	targets := curveTargetIDsFlag
	if len(targets) == 0 {
		n := curveTargetsFlag
		if n <= 0 {
			n = cfg.Oracle.NumTargets
		}
		targets = firstN(o.ObjectIDs(), n)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	var spinner *pterm.SpinnerPrinter
	if !jsonOutput {
		spinner, _ = pterm.DefaultSpinner.Start(
			fmt.Sprintf("Simulating %d trajectories of %d steps", len(targets), steps))
	}

	trajectories := make([][]float64, 0, len(targets))
	for _, id := range targets {
		traj, err := o.TrajectoryForTarget(id, steps)
		if err != nil {
			if spinner != nil {
				spinner.Fail(err.Error())
			}
			return err
		}
		trajectories = append(trajectories, traj)
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("Simulated %d targets (%d cached states)", len(targets), o.MemoSize()))
	}
	logger.Debugw("Curve computed",
		"dataset", path,
		"targets", len(targets),
		"steps", steps,
		"memo_states", o.MemoSize(),
	)

	stats, err := summary.Compute(trajectories)
	if err != nil {
		return err
	}

	if csvPath != "" {
		if err := writeSummaryCSV(csvPath, label, stats); err != nil {
			return err
		}
	}

	var runID string
	if curveSaveFlag {
		runID, err = saveCurveRun(cfg, path, label, steps, stats, o.RootCost(), len(targets))
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		out, err := json.MarshalIndent(map[string]interface{}{
			"dataset": path,
			"label":   label,
			"targets": len(targets),
			"steps":   stats,
			"run_id":  runID,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	rows := pterm.TableData{{"Step", "Mean entropy (bits)", "Std (bits)"}}
	for _, s := range stats {
		rows = append(rows, []string{
			strconv.Itoa(s.Step + 1),
			fmt.Sprintf("%.4f", s.MeanBits),
			fmt.Sprintf("%.4f", s.StdBits),
		})
	}
	pterm.DefaultSection.Printfln("Oracle curve: %s over %d targets", label, len(targets))
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	if runID != "" {
		pterm.Info.Printfln("Saved as run %s", runID)
	}
	return nil
}

func writeSummaryCSV(path, label string, stats []summary.StepStat) error {
	if path == "-" {
		return summary.WriteCSV(os.Stdout, label, stats)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return summary.WriteCSV(f, label, stats)
}

func saveCurveRun(cfg *config.Config, dataset, label string, steps int,
	stats []summary.StepStat, rootCost float64, numTargets int) (string, error) {

	database, err := openRunStore(cfg)
	if err != nil {
		return "", err
	}
	defer database.Close()

	runs := store.NewRunStore(database)
	return runs.SaveRun(context.Background(), &store.Run{
		Dataset:    dataset,
		Label:      label,
		MaxSteps:   steps,
		NumTargets: numTargets,
		RootCost:   rootCost,
		Steps:      stats,
	})
}
