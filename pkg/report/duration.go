package report

import (
	"maps"
	"slices"
	"time"

	"github.com/henderiw/rangetree/pkg/session"
)

// OperatorDurations is the total time an operator spent in each state.
type OperatorDurations struct {
	Operator  string
	Durations map[session.State]time.Duration
}

// Minutes returns the time spent in state s, in minutes.
func (r OperatorDurations) Minutes(s session.State) float64 {
	return r.Durations[s].Minutes()
}

// DurationByOperator sums session durations per operator and state,
// ordered by operator.
func DurationByOperator(sessions []session.Session) []OperatorDurations {
	byOperator := map[string]map[session.State]time.Duration{}
	for _, s := range sessions {
		d, ok := byOperator[s.Operator]
		if !ok {
			d = map[session.State]time.Duration{}
			byOperator[s.Operator] = d
		}
		d[s.State] += s.Duration()
	}

	out := make([]OperatorDurations, 0, len(byOperator))
	for _, op := range slices.Sorted(maps.Keys(byOperator)) {
		out = append(out, OperatorDurations{Operator: op, Durations: byOperator[op]})
	}
	return out
}
