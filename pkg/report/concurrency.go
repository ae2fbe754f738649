// Package report computes load and duration statistics over sessions.
package report

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/henderiw/rangetree/pkg/rangetree"
	"github.com/henderiw/rangetree/pkg/session"
)

type options struct {
	log logr.Logger
}

type Option func(*options)

func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DayLoad is the largest number of sessions active at the same instant
// during one day.
type DayLoad struct {
	Day         time.Time
	MaxSessions int
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// MaxConcurrentByDay groups sessions by the day they started on and returns,
// per day, the maximum number of overlapping sessions, ordered by day.
//
// Overlap can only change at a session boundary, so each day is probed at
// the distinct start and end instants of its sessions.
func MaxConcurrentByDay(sessions []session.Session, opts ...Option) ([]DayLoad, error) {
	o := newOptions(opts)

	groups := map[dayKey][]session.Session{}
	var keys []dayKey
	for _, s := range sessions {
		y, m, d := s.Start.Date()
		k := dayKey{year: y, month: m, day: d}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], s)
	}

	loads := make([]DayLoad, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		peak, err := maxConcurrent(group, o.log)
		if err != nil {
			return nil, errors.Wrapf(err, "day %s", group[0].Day().Format(time.DateOnly))
		}
		loads = append(loads, DayLoad{Day: group[0].Day(), MaxSessions: peak})
	}
	slices.SortFunc(loads, func(a, b DayLoad) int { return a.Day.Compare(b.Day) })
	return loads, nil
}

func maxConcurrent(sessions []session.Session, log logr.Logger) (int, error) {
	tree := rangetree.New[time.Time](time.Time.Compare,
		rangetree.WithAutoRebuild(false),
		rangetree.WithLogger(log),
	)
	ranges := make([]rangetree.RangeValuePair[time.Time], 0, len(sessions))
	points := make([]time.Time, 0, 2*len(sessions))
	for _, s := range sessions {
		ranges = append(ranges, s.Range())
		points = append(points, s.Start, s.End)
	}
	if err := tree.AddAll(ranges...); err != nil {
		return 0, err
	}
	tree.Rebuild()

	slices.SortFunc(points, time.Time.Compare)
	points = slices.CompactFunc(points, time.Time.Equal)

	var peak int
	for _, p := range points {
		peak = max(peak, tree.QueryCount(p))
	}
	return peak, nil
}
