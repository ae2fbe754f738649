package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/rangetree/pkg/rangetree"
	"github.com/henderiw/rangetree/pkg/session"
	"github.com/tj/assert"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2019, 3, day, hour, minute, 0, 0, time.UTC)
}

func sess(op string, state session.State, start, end time.Time) session.Session {
	return session.Session{Start: start, End: end, Operator: op, State: state}
}

func TestMaxConcurrentByDay(t *testing.T) {
	cases := map[string]struct {
		sessions []session.Session
		expected []DayLoad
	}{
		"Empty": {
			expected: []DayLoad{},
		},
		"SingleDay": {
			sessions: []session.Session{
				sess("a", session.StateReady, at(12, 8, 0), at(12, 8, 30)),
				sess("b", session.StateReady, at(12, 8, 10), at(12, 8, 20)),
				sess("c", session.StateReady, at(12, 8, 25), at(12, 9, 0)),
				sess("d", session.StateReady, at(12, 10, 0), at(12, 11, 0)),
			},
			expected: []DayLoad{{Day: at(12, 0, 0), MaxSessions: 2}},
		},
		"TouchingEndpoints": {
			sessions: []session.Session{
				sess("a", session.StateReady, at(12, 8, 0), at(12, 9, 0)),
				sess("b", session.StateReady, at(12, 9, 0), at(12, 10, 0)),
				sess("c", session.StateReady, at(12, 9, 0), at(12, 9, 0)),
			},
			expected: []DayLoad{{Day: at(12, 0, 0), MaxSessions: 3}},
		},
		"SeveralDays": {
			sessions: []session.Session{
				sess("a", session.StateReady, at(13, 8, 0), at(13, 9, 0)),
				sess("a", session.StatePause, at(12, 8, 0), at(12, 9, 0)),
				sess("b", session.StatePause, at(12, 8, 30), at(12, 9, 30)),
				sess("c", session.StatePause, at(12, 8, 45), at(12, 8, 50)),
				sess("b", session.StateReady, at(14, 23, 0), at(15, 1, 0)),
			},
			expected: []DayLoad{
				{Day: at(12, 0, 0), MaxSessions: 3},
				{Day: at(13, 0, 0), MaxSessions: 1},
				{Day: at(14, 0, 0), MaxSessions: 1},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			loads, err := MaxConcurrentByDay(tc.sessions)
			assert.NoError(t, err)
			if diff := cmp.Diff(tc.expected, loads); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestMaxConcurrentInvalidSession(t *testing.T) {
	_, err := MaxConcurrentByDay([]session.Session{
		sess("a", session.StateReady, at(12, 9, 0), at(12, 8, 0)),
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, rangetree.ErrInvalidRange))
	assert.Contains(t, err.Error(), "day 2019-03-12")
}

func TestDurationByOperator(t *testing.T) {
	durations := DurationByOperator([]session.Session{
		sess("b", session.StateReady, at(12, 8, 0), at(12, 8, 30)),
		sess("a", session.StateConversation, at(12, 8, 0), at(12, 8, 1)),
		sess("a", session.StateConversation, at(12, 9, 0), at(12, 9, 2)),
		sess("a", session.StateChime, at(12, 9, 0), at(12, 9, 0).Add(20*time.Second)),
	})
	assert.Len(t, durations, 2)
	assert.Equal(t, "a", durations[0].Operator)
	assert.Equal(t, 3.0, durations[0].Minutes(session.StateConversation))
	assert.Equal(t, 0.0, durations[0].Minutes(session.StateReady))
	assert.InDelta(t, 0.333, durations[0].Minutes(session.StateChime), 0.001)
	assert.Equal(t, "b", durations[1].Operator)
	assert.Equal(t, 30.0, durations[1].Minutes(session.StateReady))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDayLoads(&buf, FormatText, []DayLoad{
		{Day: at(12, 0, 0), MaxSessions: 3},
		{Day: at(13, 0, 0), MaxSessions: 1},
	})
	assert.NoError(t, err)
	assert.Equal(t, "12.03.2019  3\n13.03.2019  1\n", buf.String())

	buf.Reset()
	err = WriteDurations(&buf, FormatText, []OperatorDurations{{
		Operator: "a",
		Durations: map[session.State]time.Duration{
			session.StateReady: 90 * time.Second,
			session.StateChime: 20 * time.Second,
		},
	}})
	assert.NoError(t, err)
	assert.Equal(t, "a  Ready: 1.5 Conversation: 0 Pause: 0 Treatment: 0 Chime: 0.33\n", buf.String())
}

func TestFormatMinutes(t *testing.T) {
	cases := map[string]struct {
		minutes  float64
		expected string
	}{
		"Whole":       {minutes: 30, expected: "30"},
		"Zero":        {minutes: 0, expected: "0"},
		"Third":       {minutes: 1.0 / 3, expected: "0.33"},
		"HalfDown":    {minutes: 0.125, expected: "0.12"},
		"HalfUp":      {minutes: 0.375, expected: "0.38"},
		"WholeHalf":   {minutes: 2.5 / 100, expected: "0.02"},
		"NotQuiteOne": {minutes: 0.999, expected: "1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatMinutes(tc.minutes))
		})
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDayLoads(&buf, FormatTable, []DayLoad{{Day: at(12, 0, 0), MaxSessions: 3}})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Max sessions")
	assert.Contains(t, buf.String(), "12.03.2019")

	buf.Reset()
	err = WriteDurations(&buf, FormatTable, []OperatorDurations{{
		Operator:  "a",
		Durations: map[session.State]time.Duration{session.StateTreatment: time.Minute},
	}})
	assert.NoError(t, err)
	for _, s := range session.States {
		assert.Contains(t, buf.String(), s.String())
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]struct {
		input       string
		expected    Format
		expectedErr bool
	}{
		"Table":   {input: "table", expected: FormatTable},
		"Text":    {input: " TEXT ", expected: FormatText},
		"Unknown": {input: "json", expectedErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := ParseFormat(tc.input)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, f)
		})
	}
	assert.Error(t, WriteDayLoads(&bytes.Buffer{}, Format("xml"), nil))
}
