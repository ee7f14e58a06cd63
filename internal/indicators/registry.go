// Package indicators holds the static per-indicator presentation table:
// how values are formatted and which color identifies each indicator.
package indicators

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind enumerates the indicators with dedicated presentation rules
type Kind int

const (
	KindDefault Kind = iota
	KindEnergia
	KindCesta
	KindGasolina
	KindAluguel
)

// Entry is one row of the presentation table
type Entry struct {
	Kind   Kind
	Key    string
	Format func(float64) string
	Color  string
}

func currency(unit string) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("R$ %.2f%s", v, unit)
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

var defaultEntry = Entry{Kind: KindDefault, Format: percent, Color: "#9E9E9E"}

var registry = [...]Entry{
	KindDefault:  defaultEntry,
	KindEnergia:  {Kind: KindEnergia, Key: "energia", Format: currency("/kWh"), Color: "#4CAF50"},
	KindCesta:    {Kind: KindCesta, Key: "cesta", Format: currency("/mês"), Color: "#FFB74D"},
	KindGasolina: {Kind: KindGasolina, Key: "gasolina", Format: currency("/L"), Color: "#E57373"},
	KindAluguel:  {Kind: KindAluguel, Key: "aluguel", Format: currency("/m²"), Color: "#BA68C8"},
}

var byKey = func() map[string]Kind {
	m := make(map[string]Kind, len(registry))
	for _, e := range registry {
		if e.Key != "" {
			m[e.Key] = e.Kind
		}
	}
	return m
}()

// ParseKind resolves an indicator key. Matching is exact and
// case-sensitive; anything unknown maps to KindDefault.
func ParseKind(key string) Kind {
	if k, ok := byKey[key]; ok {
		return k
	}
	return KindDefault
}

// Known reports whether key has a dedicated entry
func Known(key string) bool {
	_, ok := byKey[key]
	return ok
}

// Lookup returns the entry for kind, falling back to the default entry
func Lookup(kind Kind) Entry {
	if kind < 0 || int(kind) >= len(registry) {
		return defaultEntry
	}
	return registry[kind]
}

// FormatFloat formats v with the rules of kind
func FormatFloat(kind Kind, v float64) string {
	return Lookup(kind).Format(v)
}

// FormatValue parses raw like a browser parseFloat and formats it with the
// rules of key. Unparseable input is rendered as NaN; no error is raised.
func FormatValue(key, raw string) string {
	return FormatFloat(ParseKind(key), ParseNumber(raw))
}

// ColorFor returns the display color for key
func ColorFor(key string) string {
	return Lookup(ParseKind(key)).Color
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber parses the longest numeric prefix of s after trimming
// whitespace. It returns NaN when s has no numeric prefix.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		return math.Inf(1)
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1)
	}
	m := leadingNumber.FindString(s)
	if m == "" {
		return math.NaN()
	}
	// the prefix always matches float syntax; on exponent overflow
	// ParseFloat still returns ±Inf, which is what we want
	v, _ := strconv.ParseFloat(m, 64)
	return v
}
