// Package oracle computes the information-theoretically optimal
// question-asking policy for a 20-questions-style guessing game over a finite
// attribute table.
//
// The dynamic program assumes a uniform prior over objects and deterministic
// answers of the form "attribute a has value v". Under those assumptions the
// policy minimizing the expected number of questions coincides with greedily
// maximizing expected information gain, so a single memoized recurrence yields
// both the optimal expected cost of a candidate set and the optimal next
// attribute to query.
//
// An Oracle's memo cache persists for its lifetime and is shared across
// trajectory simulations, which is the main performance lever: different
// targets walk overlapping subtrees of the same decision tree.
package oracle

import (
	"math"
	"sync"

	"github.com/oqabench/oqa/errors"
)

// attrNone marks states where no attribute can split the candidates further.
const attrNone = -1

// Oracle embodies the expected-question-minimizing decision policy for one
// immutable attribute table. It is safe for concurrent use; concurrent
// lookups of an uncached state may duplicate work but never corrupt it.
type Oracle struct {
	idx *index

	mu   sync.Mutex
	memo map[string]memoEntry
}

// memoEntry caches the solved recurrence for one candidate set: the minimum
// expected number of remaining questions and the attribute achieving it
// (attrNone when nothing splits).
type memoEntry struct {
	cost float64
	attr int
}

// New builds an Oracle over the given table. The table is indexed and
// interned up front; the Oracle never reads from it again afterwards.
func New(table Table) (*Oracle, error) {
	idx, err := buildIndex(table)
	if err != nil {
		return nil, errors.Wrap(err, "indexing attribute table")
	}
	return &Oracle{
		idx:  idx,
		memo: make(map[string]memoEntry),
	}, nil
}

// ObjectIDs returns the table's object ids in their fixed sorted order.
func (o *Oracle) ObjectIDs() []string {
	out := make([]string, len(o.idx.objectIDs))
	copy(out, o.idx.objectIDs)
	return out
}

// Attributes returns the attribute names in their fixed sorted order.
func (o *Oracle) Attributes() []string {
	out := make([]string, len(o.idx.attrs))
	copy(out, o.idx.attrs)
	return out
}

// NumObjects returns the number of objects in the table.
func (o *Oracle) NumObjects() int {
	return len(o.idx.objectIDs)
}

// RootCost returns the minimum expected number of questions to identify an
// object drawn uniformly from the full table.
func (o *Oracle) RootCost() float64 {
	return o.solve(o.idx.fullSet()).cost
}

// Cost returns the minimum expected number of further questions to collapse
// the given candidate set to a single object. Ids not present in the table
// yield ErrUnknownTarget.
func (o *Oracle) Cost(objectIDs []string) (float64, error) {
	s, err := o.setOf(objectIDs)
	if err != nil {
		return 0, err
	}
	return o.solve(s).cost, nil
}

// BestAttribute returns the attribute realizing the optimal policy at the
// given candidate set, per the fixed tie-break (first attribute in sorted
// name order achieving the strict minimum). ok is false when no attribute
// can split the set, including sets of size <= 1.
func (o *Oracle) BestAttribute(objectIDs []string) (attr string, ok bool, err error) {
	s, err := o.setOf(objectIDs)
	if err != nil {
		return "", false, err
	}
	e := o.solve(s)
	if e.attr == attrNone {
		return "", false, nil
	}
	return o.idx.attrs[e.attr], true, nil
}

// Partition splits a candidate set into disjoint subsets keyed by the value
// each member holds for the named attribute.
func (o *Oracle) Partition(objectIDs []string, attribute string) (map[string][]string, error) {
	s, err := o.setOf(objectIDs)
	if err != nil {
		return nil, err
	}
	attrPos := -1
	for a, name := range o.idx.attrs {
		if name == attribute {
			attrPos = a
			break
		}
	}
	if attrPos == -1 {
		return nil, errors.NewInvalidInputError("unknown attribute %q", attribute)
	}

	out := make(map[string][]string)
	s.members(func(i int) {
		v := o.idx.valueNames[attrPos][o.idx.codes[i][attrPos]]
		out[v] = append(out[v], o.idx.objectIDs[i])
	})
	return out, nil
}

// setOf builds a candidate set from object ids, rejecting unknown ids.
func (o *Oracle) setOf(objectIDs []string) (candSet, error) {
	s := o.idx.emptySet()
	for _, id := range objectIDs {
		pos, ok := o.idx.idPos[id]
		if !ok {
			return nil, errors.NewUnknownTargetError(id)
		}
		s.set(pos)
	}
	return s, nil
}

// solve evaluates the Bellman recurrence
//
//	Cost(S) = 0                                if |S| <= 1
//	Cost(S) = min_a [ 1 + Σ_v (|S_v|/|S|) · Cost(S_v) ]
//
// over eligible attributes a (those whose partition of S has at least two
// groups), returning 0 when no attribute is eligible. Results are memoized
// per candidate set for the Oracle's lifetime.
//
// Attributes are scanned in sorted-name order and an incumbent is replaced
// only on strictly lower expected cost, so the first minimizer wins ties.
// Partition subsets are accumulated in ascending value-code order, keeping
// the floating-point sums reproducible run to run.
func (o *Oracle) solve(s candSet) memoEntry {
	n := s.count()
	if n <= 1 {
		return memoEntry{cost: 0, attr: attrNone}
	}

	key := s.key()
	o.mu.Lock()
	cached, ok := o.memo[key]
	o.mu.Unlock()
	if ok {
		return cached
	}

	best := memoEntry{cost: math.Inf(1), attr: attrNone}
	for a := range o.idx.attrs {
		parts := o.idx.partition(s, a)
		if len(parts) <= 1 {
			continue
		}

		expected := 1.0 // the question itself
		for _, sub := range parts {
			expected += float64(sub.count()) / float64(n) * o.solve(sub).cost
		}

		if expected < best.cost {
			best = memoEntry{cost: expected, attr: a}
		}
	}
	if math.IsInf(best.cost, 1) {
		// Remaining candidates are indistinguishable under every attribute.
		best = memoEntry{cost: 0, attr: attrNone}
	}

	o.mu.Lock()
	o.memo[key] = best
	o.mu.Unlock()
	return best
}

// MemoSize reports the number of cached candidate-set states.
func (o *Oracle) MemoSize() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.memo)
}
