package commands

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/oqabench/oqa/config"
)

// CostCmd prints the optimal expected question count for a dataset
var CostCmd = &cobra.Command{
	Use:   "cost [dataset]",
	Short: "Expected number of questions under the optimal policy",
	Long: `Compute the minimum expected number of questions needed to identify an
object drawn uniformly from the dataset, under the exact dynamic program.

The entropy lower bound log2(N) is printed alongside for context: the
expected cost can never fall below it, and equals it only when every
question splits the candidates into equal halves.

Examples:
  oqa cost data/oqa_kary100_dataset.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCost,
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, err := resolveDatasetPath(args, cfg)
	if err != nil {
		return err
	}

	o, err := buildOracle(path)
	if err != nil {
		return err
	}

	rootCost := o.RootCost()
	lowerBound := math.Log2(float64(o.NumObjects()))

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out, err := json.MarshalIndent(map[string]interface{}{
			"dataset":            path,
			"objects":            o.NumObjects(),
			"attributes":         len(o.Attributes()),
			"expected_cost":      rootCost,
			"entropy_bits_bound": lowerBound,
			"memo_states":        o.MemoSize(),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	pterm.DefaultSection.Println("Optimal policy cost")
	pterm.DefaultBasicText.Printfln("Dataset:       %s", path)
	pterm.DefaultBasicText.Printfln("Objects:       %d", o.NumObjects())
	pterm.DefaultBasicText.Printfln("Attributes:    %d", len(o.Attributes()))
	pterm.DefaultBasicText.Printfln("Expected cost: %.4f questions", rootCost)
	pterm.DefaultBasicText.Printfln("Entropy bound: %.4f bits", lowerBound)
	return nil
}
