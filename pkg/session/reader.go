package session

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
)

// Columns holds the zero-based field index of each session attribute.
type Columns struct {
	Start    int
	End      int
	Operator int
	State    int
}

// DefaultColumns matches the export layout: start, end, an unused
// column, operator, state.
var DefaultColumns = Columns{Start: 0, End: 1, Operator: 3, State: 4}

func (c Columns) width() int {
	return max(c.Start, c.End, c.Operator, c.State) + 1
}

type Option func(*Reader)

// WithComma sets the field delimiter. Defaults to ';'.
func WithComma(r rune) Option {
	return func(rd *Reader) { rd.csv.Comma = r }
}

func WithColumns(c Columns) Option {
	return func(rd *Reader) { rd.columns = c }
}

func WithTimeParser(p TimeParser) Option {
	return func(rd *Reader) { rd.parser = p }
}

// WithHeader tells the reader whether the first record is a header line.
// Defaults to true.
func WithHeader(b bool) Option {
	return func(rd *Reader) { rd.header = b }
}

// WithSkipInvalid makes the reader log and drop invalid records instead
// of failing.
func WithSkipInvalid(b bool) Option {
	return func(rd *Reader) { rd.skipInvalid = b }
}

func WithLogger(l logr.Logger) Option {
	return func(rd *Reader) { rd.log = l }
}

// Reader reads sessions from delimited text.
type Reader struct {
	csv         *csv.Reader
	columns     Columns
	parser      TimeParser
	header      bool
	skipInvalid bool
	log         logr.Logger

	started bool
	skipped int
}

func NewReader(r io.Reader, opts ...Option) *Reader {
	c := csv.NewReader(r)
	c.Comma = ';'
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	c.TrimLeadingSpace = true

	rd := &Reader{
		csv:     c,
		columns: DefaultColumns,
		parser:  DefaultTimeParser(),
		header:  true,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Skipped returns the number of invalid records dropped so far.
func (r *Reader) Skipped() int { return r.skipped }

// Read returns the next session, or io.EOF when the input is exhausted.
func (r *Reader) Read() (Session, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if err == io.EOF {
				return Session{}, io.EOF
			}
			return Session{}, errors.Wrap(err, "session: reading input")
		}
		line, _ := r.csv.FieldPos(0)

		if !r.started {
			r.started = true
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], "\ufeff")
			}
			if r.header {
				continue
			}
		}
		if isBlank(record) {
			continue
		}

		s, err := r.parse(record)
		if err == nil {
			return s, nil
		}
		err = errors.Wrapf(err, "line %d", line)
		if !r.skipInvalid {
			return Session{}, err
		}
		r.skipped++
		r.log.Info("skipping invalid record", "line", line, "error", err.Error())
	}
}

func (r *Reader) ReadAll() ([]Session, error) {
	var sessions []Session
	for {
		s, err := r.Read()
		if err == io.EOF {
			return sessions, nil
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
}

func (r *Reader) parse(record []string) (Session, error) {
	if len(record) < r.columns.width() {
		return Session{}, invalidRecordf("expected at least %d fields, got %d", r.columns.width(), len(record))
	}
	return New(r.parser,
		record[r.columns.Start],
		record[r.columns.End],
		record[r.columns.Operator],
		record[r.columns.State],
	)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
