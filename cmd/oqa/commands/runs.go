package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/oqabench/oqa/config"
	"github.com/oqabench/oqa/store"
)

// RunsCmd inspects persisted curve runs
var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted curve runs",
	Long: `List and show oracle runs saved with 'oqa curve --save'.

Examples:
  oqa runs ls
  oqa runs ls --limit 5
  oqa runs show 4f7c2b1a-...
  oqa runs show 4f7c2b1a-... --csv oracle.csv`,
}

var runsLimitFlag int

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved runs, newest first",
	RunE:  runRunsLs,
}

var runsShowCSVFlag string

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one saved run with its per-step statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsLsCmd.Flags().IntVar(&runsLimitFlag, "limit", 20, "Number of runs to show")
	runsShowCmd.Flags().StringVar(&runsShowCSVFlag, "csv", "", "Re-export the run as plot summary CSV (\"-\" for stdout)")
	RunsCmd.AddCommand(runsLsCmd)
	RunsCmd.AddCommand(runsShowCmd)
}

func runRunsLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := openRunStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := store.NewRunStore(database).ListRuns(context.Background(), runsLimitFlag)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(runs) == 0 {
		pterm.Info.Println("No saved runs. Create one with: oqa curve <dataset> --save")
		return nil
	}

	rows := pterm.TableData{{"ID", "Dataset", "Label", "Targets", "Steps", "Root cost", "Created"}}
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Dataset,
			run.Label,
			strconv.Itoa(run.NumTargets),
			strconv.Itoa(run.MaxSteps),
			fmt.Sprintf("%.4f", run.RootCost),
			run.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	database, err := openRunStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := store.NewRunStore(database).GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	if runsShowCSVFlag != "" {
		return writeSummaryCSV(runsShowCSVFlag, run.Label, run.Steps)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	pterm.DefaultSection.Printfln("Run %s", run.ID)
	pterm.DefaultBasicText.Printfln("Dataset:   %s", run.Dataset)
	pterm.DefaultBasicText.Printfln("Label:     %s", run.Label)
	pterm.DefaultBasicText.Printfln("Targets:   %d", run.NumTargets)
	pterm.DefaultBasicText.Printfln("Root cost: %.4f", run.RootCost)
	pterm.DefaultBasicText.Printfln("Created:   %s", run.CreatedAt.Format("2006-01-02 15:04:05"))

	rows := pterm.TableData{{"Step", "Mean entropy (bits)", "Std (bits)"}}
	for _, s := range run.Steps {
		rows = append(rows, []string{
			strconv.Itoa(s.Step + 1),
			fmt.Sprintf("%.4f", s.MeanBits),
			fmt.Sprintf("%.4f", s.StdBits),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
