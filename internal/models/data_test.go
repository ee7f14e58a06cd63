package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestComparisonPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload ComparisonPayload
		wantErr bool
	}{
		{
			name:    "both series present",
			payload: ComparisonPayload{Datas: []string{"2024-01-01"}, Valores1: []float64{1}, Valores2: []float64{2}},
		},
		{
			name:    "only second series",
			payload: ComparisonPayload{Datas: []string{"2024-01-01"}, Valores2: []float64{2}},
		},
		{
			name:    "no dates",
			payload: ComparisonPayload{Valores1: []float64{1}, Valores2: []float64{2}},
			wantErr: true,
		},
		{
			name:    "both value arrays empty",
			payload: ComparisonPayload{Datas: []string{"2024-01-01"}},
			wantErr: true,
		},
		{
			name:    "zero value",
			payload: ComparisonPayload{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr && !errors.Is(err, ErrNoData) {
				t.Errorf("expected ErrNoData, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestComparisonPayloadDecodesBackendShape(t *testing.T) {
	body := `{"datas":["2024-01-31","2024-02-29"],"valores1":[10.5,10.75],"valores2":[4.5,4.2],"indicador1":"SELIC","indicador2":"IPCA"}`

	var p ComparisonPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Indicador1 != "SELIC" || p.Indicador2 != "IPCA" {
		t.Errorf("unexpected names %q %q", p.Indicador1, p.Indicador2)
	}
	if len(p.Datas) != 2 || p.Valores1[1] != 10.75 || p.Valores2[0] != 4.5 {
		t.Errorf("unexpected payload %+v", p)
	}
}

func TestRefreshRequestQuery(t *testing.T) {
	q := RefreshRequest{Indicador1: "dolar", Indicador2: "ibov", Periodo: "24", ShowSeries1: true}.Query()

	if len(q) != 3 {
		t.Fatalf("expected exactly 3 query params, got %v", q)
	}
	if q["indicador1"] != "dolar" || q["indicador2"] != "ibov" || q["periodo"] != "24" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestIsNominal(t *testing.T) {
	for _, k := range []string{"DOLAR", "ibov", "Energia", "aluguel"} {
		if !IsNominal(k) {
			t.Errorf("expected %s to be nominal", k)
		}
	}
	for _, k := range []string{"selic", "IPCA", "cdi", "igpm", ""} {
		if IsNominal(k) {
			t.Errorf("expected %s to be a rate", k)
		}
	}
}
