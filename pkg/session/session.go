// Package session models operator sessions read from contact-center exports.
package session

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/henderiw/rangetree/pkg/rangetree"
	"k8s.io/apimachinery/pkg/labels"
)

// ErrInvalidRecord is returned for records that cannot be turned into a
// Session.
var ErrInvalidRecord = errors.New("session: invalid record")

func invalidRecordf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidRecord)
}

const (
	LabelOperator = "operator"
	LabelState    = "state"
)

type State int

const (
	StateReady State = iota
	StateConversation
	StatePause
	StateTreatment
	StateChime
)

// States lists all states in reporting order.
var States = []State{StateReady, StateConversation, StatePause, StateTreatment, StateChime}

var stateNames = map[State]string{
	StateReady:        "Ready",
	StateConversation: "Conversation",
	StatePause:        "Pause",
	StateTreatment:    "Treatment",
	StateChime:        "Chime",
}

// exportStates maps the labels used by the export to states.
var exportStates = map[string]State{
	"Готов":     StateReady,
	"Разговор":  StateConversation,
	"Пауза":     StatePause,
	"Обработка": StateTreatment,
	"Перезвон":  StateChime,
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ParseState accepts the export labels as well as the state names,
// case-insensitively.
func ParseState(s string) (State, error) {
	s = strings.TrimSpace(s)
	if state, ok := exportStates[s]; ok {
		return state, nil
	}
	for _, state := range States {
		if strings.EqualFold(s, state.String()) {
			return state, nil
		}
	}
	return 0, invalidRecordf("unknown state %q", s)
}

type TimeParser struct {
	Layouts  []string
	Location *time.Location
}

var DefaultLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	time.DateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func DefaultTimeParser() TimeParser {
	return TimeParser{
		Layouts:  DefaultLayouts,
		Location: time.Local,
	}
}

// Parse tries each layout in order and returns the first match.
func (r TimeParser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range r.Layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidRecordf("cannot parse %q as a time", s)
}

type Session struct {
	Start    time.Time
	End      time.Time
	Operator string
	State    State
}

// New validates and converts the raw fields of a record. The order of
// start and end is not checked here.
func New(p TimeParser, start, end, operator, state string) (Session, error) {
	s := Session{}
	var err error
	if s.Start, err = p.Parse(start); err != nil {
		return Session{}, errors.Wrap(err, "start")
	}
	if s.End, err = p.Parse(end); err != nil {
		return Session{}, errors.Wrap(err, "end")
	}
	if s.Operator = strings.TrimSpace(operator); s.Operator == "" {
		return Session{}, invalidRecordf("operator cannot be empty")
	}
	if s.State, err = ParseState(state); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r Session) Duration() time.Duration { return r.End.Sub(r.Start) }

// Day returns midnight of the day the session started on.
func (r Session) Day() time.Time {
	y, m, d := r.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Start.Location())
}

func (r Session) Range() rangetree.RangeValuePair[time.Time] {
	return rangetree.NewRangeValuePair(r.Start, r.End)
}

func (r Session) Labels() labels.Set {
	return labels.Set{
		LabelOperator: r.Operator,
		LabelState:    r.State.String(),
	}
}

func (r Session) String() string {
	return r.Operator + " " + r.State.String() + " " + r.Range().String()
}

// Filter returns the sessions whose labels match selector.
func Filter(sessions []Session, selector labels.Selector) []Session {
	if selector == nil || selector.Empty() {
		return sessions
	}
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if selector.Matches(s.Labels()) {
			out = append(out, s)
		}
	}
	return out
}
