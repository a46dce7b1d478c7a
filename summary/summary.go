// Package summary aggregates per-target entropy trajectories into the
// per-step statistics consumed by the dataset's plotting tooling.
package summary

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/oqabench/oqa/errors"
)

// StepStat holds the cross-target entropy statistics for one question step.
type StepStat struct {
	Step     int     // 0-based question index
	MeanBits float64 // mean entropy across targets after this question
	StdBits  float64 // population standard deviation across targets
	N        int     // number of targets aggregated
}

// Compute aggregates same-length trajectories into per-step statistics.
// At least one trajectory is required and all must share a length.
func Compute(trajectories [][]float64) ([]StepStat, error) {
	if len(trajectories) == 0 {
		return nil, errors.ErrNoTargets
	}
	steps := len(trajectories[0])
	for i, traj := range trajectories {
		if len(traj) != steps {
			return nil, errors.NewInvalidInputError(
				"trajectory %d has %d steps, want %d", i, len(traj), steps)
		}
	}

	n := float64(len(trajectories))
	stats := make([]StepStat, steps)
	for t := 0; t < steps; t++ {
		var sum float64
		for _, traj := range trajectories {
			sum += traj[t]
		}
		mean := sum / n

		var sq float64
		for _, traj := range trajectories {
			d := traj[t] - mean
			sq += d * d
		}

		stats[t] = StepStat{
			Step:     t,
			MeanBits: mean,
			StdBits:  math.Sqrt(sq / n),
			N:        len(trajectories),
		}
	}
	return stats, nil
}

// WriteCSV emits stats as the plot summary format:
//
//	model,step,entropy_bits_mean,entropy_bits_std
//
// with one row per step, labeled with the given model name (the exact
// oracle curve is conventionally labeled "Oracle").
func WriteCSV(w io.Writer, model string, stats []StepStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"model", "step", "entropy_bits_mean", "entropy_bits_std"}); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, s := range stats {
		row := []string{
			model,
			strconv.Itoa(s.Step),
			strconv.FormatFloat(s.MeanBits, 'g', -1, 64),
			strconv.FormatFloat(s.StdBits, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing csv row %d", s.Step)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
