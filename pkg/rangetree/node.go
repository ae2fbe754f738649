package rangetree

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// rangeTreeNode partitions ranges around center. Ranges containing center
// live in bucket; ranges entirely before center go left, entirely after go
// right. Nodes are never modified once built.
type rangeTreeNode[T comparable] struct {
	center T
	left   *rangeTreeNode[T] // nil when no range lies before center
	right  *rangeTreeNode[T] // nil when no range lies after center
	bucket []RangeValuePair[T]
}

func newEmptyNode[T comparable]() *rangeTreeNode[T] {
	return &rangeTreeNode[T]{}
}

// buildNode builds the subtree for a non-empty set of ranges.
func buildNode[T comparable](items []RangeValuePair[T], cmp CompareFn[T]) *rangeTreeNode[T] {
	endpoints := make([]T, 0, len(items)*2)
	for _, item := range items {
		endpoints = append(endpoints, item.from, item.to)
	}
	slices.SortFunc(endpoints, cmp)
	endpoints = slices.CompactFunc(endpoints, func(a, b T) bool { return cmp(a, b) == 0 })

	n := &rangeTreeNode[T]{
		center: endpoints[len(endpoints)/2],
	}

	var inner, left, right []RangeValuePair[T]
	for _, item := range items {
		switch {
		case item.EntirelyBefore(n.center, cmp):
			left = append(left, item)
		case item.EntirelyAfter(n.center, cmp):
			right = append(right, item)
		default:
			inner = append(inner, item)
		}
	}

	if len(inner) > 1 {
		slices.SortFunc(inner, comparePairs(cmp))
	}
	n.bucket = inner

	if len(left) > 0 {
		n.left = buildNode(left, cmp)
	}
	if len(right) > 0 {
		n.right = buildNode(right, cmp)
	}
	return n
}

// visit calls fn for every range in the subtree that contains v. Only one
// child is descended per level, so the walk is a single root-to-leaf path.
func (r *rangeTreeNode[T]) visit(v T, cmp CompareFn[T], fn func(RangeValuePair[T])) {
	for n := r; n != nil; {
		for _, item := range n.bucket {
			// bucket is sorted by From; nothing after this can start at or
			// before v
			if cmp(item.from, v) > 0 {
				break
			}
			if cmp(v, item.to) <= 0 {
				fn(item)
			}
		}

		switch c := cmp(v, n.center); {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			n = nil
		}
	}
}

func (r *rangeTreeNode[T]) query(v T, cmp CompareFn[T], dst []RangeValuePair[T]) []RangeValuePair[T] {
	r.visit(v, cmp, func(item RangeValuePair[T]) {
		dst = append(dst, item)
	})
	return dst
}

func (r *rangeTreeNode[T]) count(v T, cmp CompareFn[T]) int {
	var n int
	r.visit(v, cmp, func(RangeValuePair[T]) { n++ })
	return n
}

func (r *rangeTreeNode[T]) isEmpty() bool {
	return r.left == nil && r.right == nil && len(r.bucket) == 0
}

// depth returns the number of levels below and including r.
func (r *rangeTreeNode[T]) depth() int {
	if r == nil {
		return 0
	}
	return 1 + max(r.left.depth(), r.right.depth())
}

// print writes one line per node, children indented under their parent.
func (r *rangeTreeNode[T]) print(w io.Writer, prefix string, level int) {
	indent := strings.Repeat("  ", level)
	if r.isEmpty() {
		fmt.Fprintf(w, "%s%s<empty>\n", indent, prefix)
		return
	}
	bucket := make([]string, 0, len(r.bucket))
	for _, item := range r.bucket {
		bucket = append(bucket, item.String())
	}
	fmt.Fprintf(w, "%s%scenter=%v %s\n", indent, prefix, r.center, strings.Join(bucket, " "))
	if r.left != nil {
		r.left.print(w, "left: ", level+1)
	}
	if r.right != nil {
		r.right.print(w, "right: ", level+1)
	}
}
