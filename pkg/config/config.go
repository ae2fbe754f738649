// Package config loads the ccreport configuration file.
package config

import (
	"bytes"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/henderiw/rangetree/pkg/report"
	"github.com/henderiw/rangetree/pkg/session"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/labels"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

func invalidf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidConfig)
}

type Config struct {
	Input  Input  `yaml:"input"`
	Output Output `yaml:"output"`
	// Selector restricts the reports to sessions whose labels match, e.g.
	// "operator=Ivanov" or "state notin (Pause)".
	Selector string `yaml:"selector"`
}

type Input struct {
	Path        string   `yaml:"path"`
	Delimiter   string   `yaml:"delimiter"`
	Header      bool     `yaml:"header"`
	SkipInvalid bool     `yaml:"skipInvalid"`
	Layouts     []string `yaml:"layouts"`
	// Location is an IANA time zone name; empty means local time.
	Location string  `yaml:"location"`
	Columns  Columns `yaml:"columns"`
}

type Columns struct {
	Start    int `yaml:"start"`
	End      int `yaml:"end"`
	Operator int `yaml:"operator"`
	State    int `yaml:"state"`
}

type Output struct {
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Input: Input{
			Delimiter: ";",
			Header:    true,
			Layouts:   append([]string(nil), session.DefaultLayouts...),
			Columns: Columns{
				Start:    session.DefaultColumns.Start,
				End:      session.DefaultColumns.End,
				Operator: session.DefaultColumns.Operator,
				State:    session.DefaultColumns.State,
			},
		},
		Output: Output{
			Format: string(report.FormatTable),
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return c, nil
}

// Parse decodes YAML over the defaults. Unknown fields are rejected.
func Parse(b []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Mark(errors.Wrap(err, "decoding"), ErrInvalidConfig)
	}
	return c, nil
}

func (r *Config) Validate() error {
	if utf8.RuneCountInString(r.Input.Delimiter) != 1 {
		return invalidf("delimiter must be a single character, got %q", r.Input.Delimiter)
	}
	switch r.Comma() {
	case '\r', '\n', '"', utf8.RuneError:
		return invalidf("delimiter %q is not allowed", r.Input.Delimiter)
	}
	if len(r.Input.Layouts) == 0 {
		return invalidf("at least one time layout is required")
	}
	cols := []int{r.Input.Columns.Start, r.Input.Columns.End, r.Input.Columns.Operator, r.Input.Columns.State}
	seen := map[int]bool{}
	for _, c := range cols {
		if c < 0 {
			return invalidf("column index %d is negative", c)
		}
		if seen[c] {
			return invalidf("column index %d is used twice", c)
		}
		seen[c] = true
	}
	if _, err := r.TimeLocation(); err != nil {
		return err
	}
	if _, err := report.ParseFormat(r.Output.Format); err != nil {
		return errors.Mark(err, ErrInvalidConfig)
	}
	if _, err := r.LabelSelector(); err != nil {
		return err
	}
	return nil
}

func (r *Config) Comma() rune {
	c, _ := utf8.DecodeRuneInString(r.Input.Delimiter)
	return c
}

func (r *Config) TimeLocation() (*time.Location, error) {
	if r.Input.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(r.Input.Location)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "location %q", r.Input.Location), ErrInvalidConfig)
	}
	return loc, nil
}

func (r *Config) LabelSelector() (labels.Selector, error) {
	s, err := labels.Parse(r.Selector)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "selector %q", r.Selector), ErrInvalidConfig)
	}
	return s, nil
}

func (r *Config) Format() report.Format {
	f, _ := report.ParseFormat(r.Output.Format)
	return f
}

// ReaderOptions translates the input section into session reader options.
func (r *Config) ReaderOptions(log logr.Logger) ([]session.Option, error) {
	loc, err := r.TimeLocation()
	if err != nil {
		return nil, err
	}
	return []session.Option{
		session.WithComma(r.Comma()),
		session.WithHeader(r.Input.Header),
		session.WithSkipInvalid(r.Input.SkipInvalid),
		session.WithColumns(session.Columns{
			Start:    r.Input.Columns.Start,
			End:      r.Input.Columns.End,
			Operator: r.Input.Columns.Operator,
			State:    r.Input.Columns.State,
		}),
		session.WithTimeParser(session.TimeParser{Layouts: r.Input.Layouts, Location: loc}),
		session.WithLogger(log),
	}, nil
}
