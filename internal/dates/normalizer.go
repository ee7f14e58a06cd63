// Package dates turns backend date strings into chart x-values and renders
// them with fixed, locale-independent labels.
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Midday is the hour every normalized date is pinned to. Noon UTC stays on
// the same calendar day in every zone from UTC-12 to UTC+11.
const Midday = 12

var layouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
}

var monthsPT = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Normalize parses s as a calendar date and pins it to midday UTC
func Normalize(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, Midday, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// NormalizeAll normalizes every entry, failing on the first bad one
func NormalizeAll(in []string) ([]time.Time, error) {
	out := make([]time.Time, len(in))
	for i, s := range in {
		t, err := Normalize(s)
		if err != nil {
			return nil, fmt.Errorf("datas[%d]: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// TickLabel renders the axis tick text, e.g. "mar/2024"
func TickLabel(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%d", monthsPT[t.Month()-1], t.Year())
}

// HoverLabel renders the hover date, e.g. "01/03/2024"
func HoverLabel(t time.Time) string {
	return t.UTC().Format("02/01/2006")
}

// Tick is one labelled x-axis position
type Tick struct {
	Value time.Time
	Label string
}

// Ticks picks at most max tick positions, one candidate per distinct month
// (its first date), evenly thinned when there are more months than max.
func Ticks(dates []time.Time, max int) []Tick {
	if len(dates) == 0 || max <= 0 {
		return nil
	}

	firsts := lo.UniqBy(dates, func(t time.Time) string {
		return t.UTC().Format("2006-01")
	})

	if len(firsts) > max {
		step := (len(firsts) + max - 1) / max
		firsts = lo.Filter(firsts, func(_ time.Time, i int) bool {
			return i%step == 0
		})
	}

	return lo.Map(firsts, func(t time.Time, _ int) Tick {
		return Tick{Value: t, Label: TickLabel(t)}
	})
}
