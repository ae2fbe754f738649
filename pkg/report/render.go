package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/henderiw/rangetree/pkg/session"
	"github.com/olekukonko/tablewriter"
)

type Format string

const (
	FormatTable Format = "table"
	FormatText  Format = "text"
)

// dayLayout renders days as dd.mm.yyyy.
const dayLayout = "02.01.2006"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatText:
		return f, nil
	default:
		return "", errors.Newf("unknown output format %q, expected %q or %q", s, FormatTable, FormatText)
	}
}

func WriteDayLoads(w io.Writer, f Format, loads []DayLoad) error {
	switch f {
	case FormatText:
		for _, l := range loads {
			if _, err := fmt.Fprintf(w, "%s  %d\n", l.Day.Format(dayLayout), l.MaxSessions); err != nil {
				return err
			}
		}
		return nil
	case FormatTable:
		tbl := tablewriter.NewWriter(w)
		tbl.SetHeader([]string{"Day", "Max sessions"})
		tbl.SetAutoFormatHeaders(false)
		for _, l := range loads {
			tbl.Append([]string{l.Day.Format(dayLayout), strconv.Itoa(l.MaxSessions)})
		}
		tbl.Render()
		return nil
	default:
		return errors.Newf("unknown output format %q", f)
	}
}

func WriteDurations(w io.Writer, f Format, durations []OperatorDurations) error {
	switch f {
	case FormatText:
		for _, d := range durations {
			parts := make([]string, 0, len(session.States))
			for _, s := range session.States {
				parts = append(parts, fmt.Sprintf("%s: %s", s, formatMinutes(d.Minutes(s))))
			}
			if _, err := fmt.Fprintf(w, "%s  %s\n", d.Operator, strings.Join(parts, " ")); err != nil {
				return err
			}
		}
		return nil
	case FormatTable:
		tbl := tablewriter.NewWriter(w)
		header := []string{"Operator"}
		for _, s := range session.States {
			header = append(header, s.String())
		}
		tbl.SetHeader(header)
		tbl.SetAutoFormatHeaders(false)
		for _, d := range durations {
			row := []string{d.Operator}
			for _, s := range session.States {
				row = append(row, formatMinutes(d.Minutes(s)))
			}
			tbl.Append(row)
		}
		tbl.Render()
		return nil
	default:
		return errors.Newf("unknown output format %q", f)
	}
}

// formatMinutes rounds to two decimals, halves to even, and drops trailing
// zeros.
func formatMinutes(m float64) string {
	return strconv.FormatFloat(math.RoundToEven(m*100)/100, 'f', -1, 64)
}
