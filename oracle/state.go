package oracle

import (
	"encoding/binary"
	"math/bits"
	"sort"

	"github.com/oqabench/oqa/errors"
)

// Table maps object id -> attribute name -> attribute value.
// Every object must carry the identical set of attribute names, and each
// attribute takes finitely many discrete string values.
type Table map[string]map[string]string

// index is the immutable, interned form of a Table.
//
// Object ids and attribute names are fixed into sorted order once, so
// iteration and tie-breaking are deterministic. Attribute values are interned
// to small integer codes (assigned in sorted value order) so the hot
// partitioning loop works on integers instead of strings.
type index struct {
	objectIDs []string // sorted object ids; bit i of a candidate set refers to objectIDs[i]
	attrs     []string // sorted attribute names
	idPos     map[string]int

	// codes[obj][attr] is the interned value code of objectIDs[obj] for attrs[attr]
	codes [][]uint32
	// valueNames[attr][code] is the original value string behind a code;
	// codes are assigned in sorted value order, so this doubles as the
	// attribute's sorted value domain
	valueNames [][]string

	words int // candidate-set width in 64-bit words
}

func buildIndex(table Table) (*index, error) {
	if len(table) == 0 {
		return nil, errors.ErrEmptyTable
	}

	idx := &index{
		objectIDs: make([]string, 0, len(table)),
		idPos:     make(map[string]int, len(table)),
	}
	for id := range table {
		idx.objectIDs = append(idx.objectIDs, id)
	}
	sort.Strings(idx.objectIDs)
	for i, id := range idx.objectIDs {
		idx.idPos[id] = i
	}

	first := table[idx.objectIDs[0]]
	idx.attrs = make([]string, 0, len(first))
	for name := range first {
		idx.attrs = append(idx.attrs, name)
	}
	sort.Strings(idx.attrs)

	// Every object must hold exactly the attribute names of the first object.
	for _, id := range idx.objectIDs {
		if len(table[id]) != len(idx.attrs) {
			return nil, errors.NewInvalidInputError(
				"object %q has %d attributes, want %d", id, len(table[id]), len(idx.attrs))
		}
		for _, name := range idx.attrs {
			if _, ok := table[id][name]; !ok {
				return nil, errors.NewInvalidInputError("object %q is missing attribute %q", id, name)
			}
		}
	}

	// Intern each attribute's observed values in sorted order, so value codes
	// (and everything ordered by them) are stable across runs.
	idx.codes = make([][]uint32, len(idx.objectIDs))
	for i := range idx.codes {
		idx.codes[i] = make([]uint32, len(idx.attrs))
	}
	idx.valueNames = make([][]string, len(idx.attrs))
	for a, name := range idx.attrs {
		distinct := make(map[string]struct{})
		for _, id := range idx.objectIDs {
			distinct[table[id][name]] = struct{}{}
		}
		values := make([]string, 0, len(distinct))
		for v := range distinct {
			values = append(values, v)
		}
		sort.Strings(values)
		codeOf := make(map[string]uint32, len(values))
		for code, v := range values {
			codeOf[v] = uint32(code)
		}
		for i, id := range idx.objectIDs {
			idx.codes[i][a] = codeOf[table[id][name]]
		}
		idx.valueNames[a] = values
	}

	idx.words = (len(idx.objectIDs) + 63) / 64
	return idx, nil
}

// candSet is a candidate set of objects, one bit per object in the index's
// sorted ordering. Sets are derived functionally and never mutated after the
// deriving loop finishes, so they can serve as memo keys.
type candSet []uint64

func (idx *index) emptySet() candSet {
	return make(candSet, idx.words)
}

func (idx *index) fullSet() candSet {
	s := idx.emptySet()
	for i := range idx.objectIDs {
		s.set(i)
	}
	return s
}

func (s candSet) set(i int) {
	s[i/64] |= 1 << (uint(i) % 64)
}

func (s candSet) has(i int) bool {
	return s[i/64]&(1<<(uint(i)%64)) != 0
}

func (s candSet) count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// members calls fn for each set bit in ascending object order.
func (s candSet) members(fn func(i int)) {
	for wi, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(wi*64 + b)
			w &= w - 1
		}
	}
}

// key packs the bit vector into a string usable as a map key.
func (s candSet) key() string {
	b := make([]byte, len(s)*8)
	for i, w := range s {
		binary.LittleEndian.PutUint64(b[i*8:], w)
	}
	return string(b)
}

// partition splits s into disjoint subsets by value of attrs[attr], ordered
// by ascending value code. A single-group result means the attribute does not
// discriminate within s.
func (idx *index) partition(s candSet, attr int) []candSet {
	buckets := make([]candSet, len(idx.valueNames[attr]))
	s.members(func(i int) {
		code := idx.codes[i][attr]
		if buckets[code] == nil {
			buckets[code] = idx.emptySet()
		}
		buckets[code].set(i)
	})

	parts := make([]candSet, 0, len(buckets))
	for _, b := range buckets {
		if b != nil {
			parts = append(parts, b)
		}
	}
	return parts
}

// filter returns the members of s whose attrs[attr] value has the given code.
func (idx *index) filter(s candSet, attr int, code uint32) candSet {
	out := idx.emptySet()
	s.members(func(i int) {
		if idx.codes[i][attr] == code {
			out.set(i)
		}
	})
	return out
}
