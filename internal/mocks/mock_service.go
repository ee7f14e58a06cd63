package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"comparador/internal/models"
)

// DadosFile is the fixture served in mockup mode
const DadosFile = "dados.json"

// Fixture is the on-disk mock backend: one shared date axis and a series
// per indicator key.
type Fixture struct {
	Datas  []string             `json:"datas"`
	Series map[string][]float64 `json:"series"`
}

// MockService answers comparison requests from fixture files, standing in
// for the /dados backend
type MockService struct {
	mocksDir string
}

// NewMockService creates a new mock service
func NewMockService(mocksDir string) *MockService {
	return &MockService{
		mocksDir: filepath.Join(mocksDir, "data"),
	}
}

// LoadFixture reads the dados fixture
func (m *MockService) LoadFixture() (*Fixture, error) {
	var fx Fixture
	if err := m.loadTypedJSONFile(DadosFile, &fx); err != nil {
		return nil, fmt.Errorf("failed to load dados fixture: %w", err)
	}
	return &fx, nil
}

// FetchComparison builds the payload the backend would return for req.
// Periodo keeps the last N dates; unknown indicators get no values.
func (m *MockService) FetchComparison(ctx context.Context, req models.RefreshRequest) (models.ComparisonPayload, error) {
	if err := ctx.Err(); err != nil {
		return models.ComparisonPayload{}, err
	}

	fx, err := m.LoadFixture()
	if err != nil {
		return models.ComparisonPayload{}, err
	}

	start := 0
	if n, err := strconv.Atoi(req.Periodo); err == nil && n > 0 && n < len(fx.Datas) {
		start = len(fx.Datas) - n
	}

	return models.ComparisonPayload{
		Indicador1: strings.ToUpper(req.Indicador1),
		Indicador2: strings.ToUpper(req.Indicador2),
		Datas:      fx.Datas[start:],
		Valores1:   window(fx.Series[req.Indicador1], start),
		Valores2:   window(fx.Series[req.Indicador2], start),
	}, nil
}

func window(values []float64, start int) []float64 {
	if start >= len(values) {
		return nil
	}
	return values[start:]
}

// loadTypedJSONFile loads a JSON file and unmarshals it into target
func (m *MockService) loadTypedJSONFile(filename string, target interface{}) error {
	content, err := os.ReadFile(filepath.Join(m.mocksDir, filename))
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to unmarshal file %s: %w", filename, err)
	}
	return nil
}
