package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqabench/oqa/errors"
)

// fourObjects is the canonical two-binary-attribute table: both attributes
// halve the full set, so the optimal cost is exactly two questions.
func fourObjects() Table {
	return Table{
		"0": {"a": "x", "b": "p"},
		"1": {"a": "x", "b": "q"},
		"2": {"a": "y", "b": "p"},
		"3": {"a": "y", "b": "q"},
	}
}

func TestNewEmptyTable(t *testing.T) {
	_, err := New(Table{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyTable))
}

func TestNewNilTable(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyTable))
}

func TestNewRaggedTable(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{
			name: "missing_attribute",
			table: Table{
				"0": {"a": "x", "b": "p"},
				"1": {"a": "y"},
			},
		},
		{
			name: "extra_attribute",
			table: Table{
				"0": {"a": "x"},
				"1": {"a": "y", "b": "p"},
			},
		},
		{
			name: "renamed_attribute",
			table: Table{
				"0": {"a": "x"},
				"1": {"c": "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.table)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestStableOrderings(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "1", "2", "3"}, o.ObjectIDs())
	assert.Equal(t, []string{"a", "b"}, o.Attributes())
	assert.Equal(t, 4, o.NumObjects())
}

func TestRootCostFourObjects(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	// Two binary attributes over four objects: two questions, exactly.
	assert.Equal(t, 2.0, o.RootCost())
}

func TestBestAttributeTieBreak(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	// Both attributes cost 2.0 from the root; the first in sorted name
	// order must win.
	attr, ok, err := o.BestAttribute(o.ObjectIDs())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", attr)
}

func TestCostSmallSets(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []string
		want float64
	}{
		{"empty", []string{}, 0},
		{"singleton", []string{"2"}, 0},
		{"pair_split_by_b", []string{"0", "1"}, 1},
		{"pair_split_by_a", []string{"0", "2"}, 1},
		{"diagonal_pair", []string{"0", "3"}, 1},
		{"triple", []string{"0", "1", "2"}, 5.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := o.Cost(tt.ids)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, cost, 1e-12)
		})
	}
}

func TestCostZeroIffNothingSplits(t *testing.T) {
	// Objects 1 and 2 are clones; only object 3 differs.
	o, err := New(Table{
		"1": {"c": "x"},
		"2": {"c": "x"},
		"3": {"c": "y"},
	})
	require.NoError(t, err)

	cost, err := o.Cost([]string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, cost, "indistinguishable pair has zero cost")

	_, ok, err := o.BestAttribute([]string{"1", "2"})
	require.NoError(t, err)
	assert.False(t, ok, "no attribute can split clones")

	cost, err = o.Cost([]string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, cost, "one question isolates object 3 or the clone pair")
}

func TestCostUnknownID(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	_, err = o.Cost([]string{"0", "nope"})
	require.Error(t, err)
	assert.True(t, errors.IsUnknownTarget(err))
}

func TestPartition(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	parts, err := o.Partition(o.ObjectIDs(), "a")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"x": {"0", "1"},
		"y": {"2", "3"},
	}, parts)

	// A subset where the attribute no longer discriminates yields one group.
	parts, err = o.Partition([]string{"0", "1"}, "a")
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestPartitionUnknownAttribute(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)

	_, err = o.Partition(o.ObjectIDs(), "zzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestMemoPopulatedAndReused(t *testing.T) {
	o, err := New(fourObjects())
	require.NoError(t, err)
	assert.Equal(t, 0, o.MemoSize())

	_ = o.RootCost()
	after := o.MemoSize()
	assert.Greater(t, after, 0)

	// Re-querying solved states must not grow the cache.
	_ = o.RootCost()
	_, err = o.Cost([]string{"0", "1"})
	require.NoError(t, err)
	assert.Equal(t, after, o.MemoSize())
}

func TestIndependentOraclesDoNotShareState(t *testing.T) {
	a, err := New(fourObjects())
	require.NoError(t, err)
	b, err := New(Table{
		"only": {"a": "x"},
	})
	require.NoError(t, err)

	_ = a.RootCost()
	assert.Equal(t, 0, b.MemoSize())
	assert.Equal(t, 0.0, b.RootCost())
}

func TestPerfectBinaryTreeCost(t *testing.T) {
	// Eight objects with three independent binary attributes: the optimal
	// policy needs exactly three questions from the root.
	table := Table{}
	for i := 0; i < 8; i++ {
		bit := func(b int) string {
			if i&(1<<b) != 0 {
				return "1"
			}
			return "0"
		}
		table[string(rune('a'+i))] = map[string]string{
			"p": bit(0), "q": bit(1), "r": bit(2),
		}
	}

	o, err := New(table)
	require.NoError(t, err)
	assert.Equal(t, 3.0, o.RootCost())
}
