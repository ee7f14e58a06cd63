package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNoData reports a payload that cannot be charted: no dates, or no
// values for either indicator.
var ErrNoData = errors.New("dados não disponíveis")

// ComparisonPayload is the JSON body returned by GET /dados
type ComparisonPayload struct {
	Indicador1 string    `json:"indicador1"` // display name of slot 1, upper-cased by the backend
	Indicador2 string    `json:"indicador2"`
	Datas      []string  `json:"datas"`    // shared x-axis, YYYY-MM-DD
	Valores1   []float64 `json:"valores1"` // slot 1 values, index-aligned with Datas
	Valores2   []float64 `json:"valores2"`
}

// Validate enforces the minimum shape required before charting
func (p ComparisonPayload) Validate() error {
	if len(p.Datas) == 0 {
		return ErrNoData
	}
	if len(p.Valores1) == 0 && len(p.Valores2) == 0 {
		return ErrNoData
	}
	return nil
}

// IndicatorSeries is one named series on the normalized shared x-axis
type IndicatorSeries struct {
	Name   string      `json:"name"`
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// Len returns the number of aligned points
func (s IndicatorSeries) Len() int {
	return len(s.Values)
}

// RefreshRequest is the selection read from the form at refresh time
type RefreshRequest struct {
	Indicador1  string `json:"indicador1"`
	Indicador2  string `json:"indicador2"`
	Periodo     string `json:"periodo"` // months, as sent in the query string
	ShowSeries1 bool   `json:"show_series1"`
	ShowSeries2 bool   `json:"show_series2"`
}

// Query returns the GET /dados query parameters for the request
func (r RefreshRequest) Query() map[string]string {
	return map[string]string{
		"indicador1": r.Indicador1,
		"indicador2": r.Indicador2,
		"periodo":    r.Periodo,
	}
}

var nominalIndicators = map[string]struct{}{
	"DOLAR":    {},
	"IBOV":     {},
	"CESTA":    {},
	"SALARIO":  {},
	"BIGMAC":   {},
	"FIPEZAP":  {},
	"GASOLINA": {},
	"ENERGIA":  {},
	"ALUGUEL":  {},
}

// IsNominal reports whether the indicator is a nominal value (price, index
// points, currency) rather than a rate. Matching ignores case because the
// form sends lower-case keys and the backend answers upper-case names.
func IsNominal(indicator string) bool {
	_, ok := nominalIndicators[strings.ToUpper(indicator)]
	return ok
}
