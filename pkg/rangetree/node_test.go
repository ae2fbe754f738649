package rangetree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkNode verifies the partition invariants of n and returns the ranges
// stored in its subtree.
func checkNode(t *testing.T, n *rangeTreeNode[int]) []RangeValuePair[int] {
	t.Helper()
	if n == nil {
		return nil
	}
	assert.True(t, slices.IsSortedFunc(n.bucket, comparePairs(intCompare)), "bucket not sorted at %d", n.center)
	for _, item := range n.bucket {
		assert.True(t, item.Contains(n.center, intCompare), "%s does not contain center %d", item, n.center)
	}
	left := checkNode(t, n.left)
	for _, item := range left {
		assert.True(t, item.EntirelyBefore(n.center, intCompare), "%s left of %d", item, n.center)
	}
	right := checkNode(t, n.right)
	for _, item := range right {
		assert.True(t, item.EntirelyAfter(n.center, intCompare), "%s right of %d", item, n.center)
	}
	if n.left != nil {
		assert.NotEmpty(t, left, "empty left child at %d", n.center)
	}
	if n.right != nil {
		assert.NotEmpty(t, right, "empty right child at %d", n.center)
	}

	all := slices.Concat(n.bucket, left, right)
	return all
}

func TestBuildNodePartition(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for round := 0; round < 100; round++ {
		items := make([]RangeValuePair[int], 1+rng.IntN(100))
		distinct := map[int]struct{}{}
		for i := range items {
			from := rng.IntN(1000)
			items[i] = pair(from, from+rng.IntN(50))
			distinct[items[i].From()] = struct{}{}
			distinct[items[i].To()] = struct{}{}
		}

		root := buildNode(items, intCompare)
		got := checkNode(t, root)
		require.Equal(t, sorted(slices.Clone(items)), sorted(got), "every range is stored exactly once")
		assert.LessOrEqual(t, root.depth(), len(distinct))
	}
}

func TestBuildNodeCenter(t *testing.T) {
	cases := map[string]struct {
		items  []RangeValuePair[int]
		center int
		bucket []RangeValuePair[int]
		left   bool
		right  bool
	}{
		"Single": {
			items:  []RangeValuePair[int]{pair(2, 7)},
			center: 7,
			bucket: []RangeValuePair[int]{pair(2, 7)},
		},
		"Point": {
			items:  []RangeValuePair[int]{pair(4, 4)},
			center: 4,
			bucket: []RangeValuePair[int]{pair(4, 4)},
		},
		"Median": {
			items:  []RangeValuePair[int]{pair(6, 8), pair(4, 10), pair(2, 3), pair(1, 5)},
			center: 5,
			bucket: []RangeValuePair[int]{pair(1, 5), pair(4, 10)},
			left:   true,
			right:  true,
		},
		"SharedEndpoints": {
			items:  []RangeValuePair[int]{pair(1, 3), pair(1, 3), pair(3, 5)},
			center: 3,
			bucket: []RangeValuePair[int]{pair(1, 3), pair(1, 3), pair(3, 5)},
		},
		"TieOnFrom": {
			items:  []RangeValuePair[int]{pair(0, 9), pair(0, 5), pair(2, 5)},
			center: 5,
			bucket: []RangeValuePair[int]{pair(0, 5), pair(0, 9), pair(2, 5)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			n := buildNode(tc.items, intCompare)
			assert.Equal(t, tc.center, n.center)
			assert.Equal(t, tc.bucket, n.bucket)
			assert.Equal(t, tc.left, n.left != nil)
			assert.Equal(t, tc.right, n.right != nil)
		})
	}
}

func TestEmptyNode(t *testing.T) {
	n := newEmptyNode[int]()
	assert.True(t, n.isEmpty())
	assert.Empty(t, n.query(0, intCompare, nil))
	assert.Equal(t, 0, n.count(0, intCompare))
	assert.Equal(t, 1, n.depth())
}

func TestSyncTransitions(t *testing.T) {
	cases := map[string]struct {
		from  syncState
		event syncEvent
		want  syncState
	}{
		"AddInSync":        {from: stateInSync, event: eventAdd, want: stateOutOfSync},
		"AddOutOfSync":     {from: stateOutOfSync, event: eventAdd, want: stateOutOfSync},
		"RemoveInSync":     {from: stateInSync, event: eventRemove, want: stateOutOfSync},
		"RebuildOutOfSync": {from: stateOutOfSync, event: eventRebuild, want: stateInSync},
		"RebuildInSync":    {from: stateInSync, event: eventRebuild, want: stateInSync},
		"ClearOutOfSync":   {from: stateOutOfSync, event: eventClear, want: stateInSync},
		"RemoveOutOfSync":  {from: stateOutOfSync, event: eventRemove, want: stateOutOfSync},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.next(tc.event), "%s on %s", tc.event, tc.from)
		})
	}
}
