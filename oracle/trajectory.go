package oracle

import (
	"math"

	"github.com/oqabench/oqa/errors"
)

// TrajectoryForTarget simulates the optimal policy against one concrete
// target and returns the posterior entropy (log2 of the remaining candidate
// count, in bits) after each of exactly maxSteps questions.
//
// Once the candidate set collapses to a single object, or no attribute can
// split the remaining candidates, every subsequent entry is exactly 0.0.
// maxSteps of zero yields an empty trajectory.
func (o *Oracle) TrajectoryForTarget(targetID string, maxSteps int) ([]float64, error) {
	targetPos, ok := o.idx.idPos[targetID]
	if !ok {
		return nil, errors.NewUnknownTargetError(targetID)
	}

	current := o.idx.fullSet()
	entropies := make([]float64, 0, maxSteps)

	for step := 0; step < maxSteps; step++ {
		if current.count() <= 1 {
			entropies = append(entropies, 0.0)
			continue
		}

		e := o.solve(current)
		if e.attr == attrNone {
			// Remaining candidates are indistinguishable; no question helps.
			entropies = append(entropies, 0.0)
			continue
		}

		// The answer is the target's own value for the chosen attribute.
		answer := o.idx.codes[targetPos][e.attr]
		current = o.idx.filter(current, e.attr, answer)
		entropies = append(entropies, math.Log2(float64(current.count())))
	}

	return entropies, nil
}

// MeanTrajectory returns the elementwise mean of TrajectoryForTarget across
// the given targets. All per-target trajectories share length maxSteps by
// construction, so no length reconciliation is needed.
func (o *Oracle) MeanTrajectory(targetIDs []string, maxSteps int) ([]float64, error) {
	if len(targetIDs) == 0 {
		return nil, errors.ErrNoTargets
	}

	mean := make([]float64, maxSteps)
	for _, id := range targetIDs {
		traj, err := o.TrajectoryForTarget(id, maxSteps)
		if err != nil {
			return nil, err
		}
		for t, bits := range traj {
			mean[t] += bits
		}
	}
	for t := range mean {
		mean[t] /= float64(len(targetIDs))
	}
	return mean, nil
}

// QuestionStep records one question of a simulated game, for display.
type QuestionStep struct {
	Attribute   string  // attribute queried, "" once the game is resolved
	Answer      string  // the target's value for Attribute
	Remaining   int     // candidates left after the answer
	EntropyBits float64 // log2(Remaining)
}

// TraceForTarget is TrajectoryForTarget with the questions and answers kept.
// The EntropyBits column equals the corresponding plain trajectory entry.
func (o *Oracle) TraceForTarget(targetID string, maxSteps int) ([]QuestionStep, error) {
	targetPos, ok := o.idx.idPos[targetID]
	if !ok {
		return nil, errors.NewUnknownTargetError(targetID)
	}

	current := o.idx.fullSet()
	steps := make([]QuestionStep, 0, maxSteps)

	for step := 0; step < maxSteps; step++ {
		n := current.count()
		if n <= 1 {
			steps = append(steps, QuestionStep{Remaining: n})
			continue
		}

		e := o.solve(current)
		if e.attr == attrNone {
			steps = append(steps, QuestionStep{Remaining: n})
			continue
		}

		answer := o.idx.codes[targetPos][e.attr]
		current = o.idx.filter(current, e.attr, answer)
		steps = append(steps, QuestionStep{
			Attribute:   o.idx.attrs[e.attr],
			Answer:      o.idx.valueNames[e.attr][answer],
			Remaining:   current.count(),
			EntropyBits: math.Log2(float64(current.count())),
		})
	}

	return steps, nil
}
