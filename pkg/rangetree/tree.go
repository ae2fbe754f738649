// Package rangetree implements a centered interval tree answering "which
// ranges contain this value" queries.
//
// A RangeTree keeps a flat list of ranges as its source of truth and a
// search structure built from that list. Mutations only touch the list and
// mark the tree out of sync; the search structure is rebuilt as a whole,
// either by an explicit Rebuild or by the next read when auto-rebuild is
// enabled. With auto-rebuild disabled, reads run against the structure of
// the last rebuild, which lets callers batch inserts.
//
// A RangeTree is not safe for concurrent use. Queries may rebuild the tree,
// so even concurrent readers need external synchronization.
package rangetree

import (
	"cmp"
	"io"
	"iter"
	"slices"

	"github.com/go-logr/logr"
)

type RangeTree[T comparable] struct {
	root        *rangeTreeNode[T]
	items       []RangeValuePair[T]
	state       syncState
	autoRebuild bool
	cmp         CompareFn[T]
	log         logr.Logger
}

// New returns an empty, in-sync tree ordering values with cmp.
func New[T comparable](cmp CompareFn[T], opts ...Option) *RangeTree[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &RangeTree[T]{
		cmp:         cmp,
		autoRebuild: o.autoRebuild,
		log:         o.logger,
	}
	r.Clear()
	return r
}

// NewOrdered returns an empty tree using the natural order of T.
func NewOrdered[T cmp.Ordered](opts ...Option) *RangeTree[T] {
	return New[T](cmp.Compare[T], opts...)
}

func (r *RangeTree[T]) AutoRebuild() bool { return r.autoRebuild }

func (r *RangeTree[T]) SetAutoRebuild(b bool) { r.autoRebuild = b }

// IsInSync reports whether the search structure reflects the current items.
func (r *RangeTree[T]) IsInSync() bool { return r.state == stateInSync }

// Count returns the number of stored ranges, independent of sync state.
func (r *RangeTree[T]) Count() int { return len(r.items) }

func (r *RangeTree[T]) fire(e syncEvent) {
	r.state = r.state.next(e)
}

// Add stores the range [from, to]. It fails with ErrInvalidRange when from
// compares greater than to, leaving the tree untouched.
func (r *RangeTree[T]) Add(from, to T) error {
	return r.AddPair(NewRangeValuePair(from, to))
}

func (r *RangeTree[T]) AddPair(p RangeValuePair[T]) error {
	if !p.IsValid(r.cmp) {
		return invalidRangef(p)
	}
	r.items = append(r.items, p)
	r.fire(eventAdd)
	return nil
}

// AddAll stores all pairs, or none of them if any pair is invalid.
func (r *RangeTree[T]) AddAll(pairs ...RangeValuePair[T]) error {
	for _, p := range pairs {
		if !p.IsValid(r.cmp) {
			return invalidRangef(p)
		}
	}
	if len(pairs) == 0 {
		return nil
	}
	r.items = append(r.items, pairs...)
	r.fire(eventAdd)
	return nil
}

// Remove deletes one stored range equal to p and reports whether one was
// found. When duplicates are stored, which of them is removed is
// unspecified.
func (r *RangeTree[T]) Remove(p RangeValuePair[T]) bool {
	idx := slices.IndexFunc(r.items, p.Equal)
	if idx < 0 {
		return false
	}
	r.items = slices.Delete(r.items, idx, idx+1)
	r.fire(eventRemove)
	return true
}

// Contains reports whether a range equal to p is stored.
func (r *RangeTree[T]) Contains(p RangeValuePair[T]) bool {
	return slices.ContainsFunc(r.items, p.Equal)
}

// CopyTo copies the stored ranges into dst starting at index i and returns
// the number of ranges copied.
func (r *RangeTree[T]) CopyTo(dst []RangeValuePair[T], i int) int {
	return copy(dst[i:], r.items)
}

// Clear removes all ranges. The tree is in sync afterwards.
func (r *RangeTree[T]) Clear() {
	r.root = newEmptyNode[T]()
	r.items = nil
	r.fire(eventClear)
}

// Rebuild replaces the search structure with one built from the current
// items. It does nothing when the tree is already in sync.
func (r *RangeTree[T]) Rebuild() {
	if r.IsInSync() {
		return
	}
	if len(r.items) > 0 {
		r.root = buildNode(r.items, r.cmp)
	} else {
		r.root = newEmptyNode[T]()
	}
	r.fire(eventRebuild)

	if cap(r.items) > len(r.items) {
		items := make([]RangeValuePair[T], len(r.items))
		copy(items, r.items)
		r.items = items
	}
	if l := r.log.V(1); l.Enabled() {
		l.Info("rebuilt range tree", "ranges", len(r.items), "depth", r.root.depth())
	}
}

func (r *RangeTree[T]) syncForRead() {
	if !r.IsInSync() && r.autoRebuild {
		r.Rebuild()
	}
}

// Query returns every stored range containing v, in no particular order.
func (r *RangeTree[T]) Query(v T) []RangeValuePair[T] {
	r.syncForRead()
	return r.root.query(v, r.cmp, nil)
}

// QueryCount returns the number of stored ranges containing v.
func (r *RangeTree[T]) QueryCount(v T) int {
	r.syncForRead()
	return r.root.count(v, r.cmp)
}

// All iterates over the ranges stored when All was called, in insertion
// order. The tree may be modified while iterating.
func (r *RangeTree[T]) All() iter.Seq[RangeValuePair[T]] {
	r.syncForRead()
	items := slices.Clone(r.items)
	return func(yield func(RangeValuePair[T]) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// Items returns a copy of the stored ranges in insertion order.
func (r *RangeTree[T]) Items() []RangeValuePair[T] {
	r.syncForRead()
	return slices.Clone(r.items)
}

// PrintNodes writes the search structure as of the last rebuild to w.
func (r *RangeTree[T]) PrintNodes(w io.Writer) {
	r.root.print(w, "", 0)
}
