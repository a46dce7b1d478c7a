package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandSetBasics(t *testing.T) {
	idx, err := buildIndex(fourObjects())
	require.NoError(t, err)

	s := idx.emptySet()
	assert.Equal(t, 0, s.count())

	s.set(0)
	s.set(2)
	assert.Equal(t, 2, s.count())
	assert.True(t, s.has(0))
	assert.False(t, s.has(1))
	assert.True(t, s.has(2))

	var seen []int
	s.members(func(i int) { seen = append(seen, i) })
	assert.Equal(t, []int{0, 2}, seen, "members iterate in ascending order")
}

func TestCandSetKeyEquality(t *testing.T) {
	idx, err := buildIndex(fourObjects())
	require.NoError(t, err)

	a := idx.emptySet()
	a.set(1)
	a.set(3)

	// Same membership built in a different order yields the same key.
	b := idx.emptySet()
	b.set(3)
	b.set(1)
	assert.Equal(t, a.key(), b.key())

	c := idx.emptySet()
	c.set(1)
	assert.NotEqual(t, a.key(), c.key())
}

func TestValueInterning(t *testing.T) {
	idx, err := buildIndex(fourObjects())
	require.NoError(t, err)

	// Attribute "a" has values {x, y}, coded in sorted order.
	require.Len(t, idx.valueNames, 2)
	assert.Equal(t, []string{"x", "y"}, idx.valueNames[0])
	assert.Equal(t, []string{"p", "q"}, idx.valueNames[1])

	// Object "0" holds a=x, b=p.
	assert.Equal(t, uint32(0), idx.codes[0][0])
	assert.Equal(t, uint32(0), idx.codes[0][1])
	// Object "3" holds a=y, b=q.
	assert.Equal(t, uint32(1), idx.codes[3][0])
	assert.Equal(t, uint32(1), idx.codes[3][1])
}

func TestPartitionInternal(t *testing.T) {
	idx, err := buildIndex(fourObjects())
	require.NoError(t, err)

	parts := idx.partition(idx.fullSet(), 0)
	require.Len(t, parts, 2)
	assert.Equal(t, 2, parts[0].count())
	assert.Equal(t, 2, parts[1].count())

	// Filtering to a=x keeps objects 0 and 1.
	filtered := idx.filter(idx.fullSet(), 0, 0)
	assert.True(t, filtered.has(0))
	assert.True(t, filtered.has(1))
	assert.False(t, filtered.has(2))
}
