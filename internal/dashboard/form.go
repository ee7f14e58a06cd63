package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"comparador/internal/models"
)

// Element identifiers of the selection form
const (
	FieldIndicador1 = "indicador1"
	FieldIndicador2 = "indicador2"
	FieldPeriodo    = "periodo"
	FieldCheck1     = "check1"
	FieldCheck2     = "check2"
)

// Form holds the current selector and checkbox values. The refresh
// controller reads it at refresh time.
type Form struct {
	mu  sync.RWMutex
	sel models.RefreshRequest
}

// NewForm returns a form with both series checked
func NewForm(indicador1, indicador2, periodo string) *Form {
	return &Form{sel: models.RefreshRequest{
		Indicador1:  indicador1,
		Indicador2:  indicador2,
		Periodo:     periodo,
		ShowSeries1: true,
		ShowSeries2: true,
	}}
}

// Selection returns a copy of the current values
func (f *Form) Selection() models.RefreshRequest {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sel
}

// Apply updates the fields present in values. Nothing changes if any
// field is unknown or malformed.
func (f *Form) Apply(values url.Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.sel
	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := vs[len(vs)-1]

		switch key {
		case FieldIndicador1:
			next.Indicador1 = v
		case FieldIndicador2:
			next.Indicador2 = v
		case FieldPeriodo:
			if _, err := strconv.Atoi(v); err != nil {
				return fmt.Errorf("invalid %s %q: must be a number of months", key, v)
			}
			next.Periodo = v
		case FieldCheck1, FieldCheck2:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			if key == FieldCheck1 {
				next.ShowSeries1 = b
			} else {
				next.ShowSeries2 = b
			}
		default:
			return fmt.Errorf("unknown form field %q", key)
		}
	}

	f.sel = next
	return nil
}
