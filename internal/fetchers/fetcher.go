package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"comparador/internal/logger"
	"comparador/internal/models"
)

// DadosPath is the backend endpoint serving comparison payloads
const DadosPath = "/dados"

// ErrInvalidPayload wraps a /dados response body that is not a valid payload
var ErrInvalidPayload = errors.New("invalid dados payload")

// StatusError is returned when the backend answers with a non-200 status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dados API returned status %d", e.Code)
}

// Options configures a DadosFetcher
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// DadosFetcher fetches comparison payloads from the dashboard backend
type DadosFetcher struct {
	client *resty.Client
	log    *logger.Logger
}

// NewDadosFetcher creates a fetcher for the backend at opts.BaseURL
func NewDadosFetcher(opts Options) *DadosFetcher {
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetHeader("Accept", "application/json")

	return &DadosFetcher{
		client: client,
		log:    logger.Component("fetcher"),
	}
}

// FetchComparison issues GET /dados for the selection in req
func (f *DadosFetcher) FetchComparison(ctx context.Context, req models.RefreshRequest) (models.ComparisonPayload, error) {
	start := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(req.Query()).
		Get(DadosPath)
	if err != nil {
		return models.ComparisonPayload{}, fmt.Errorf("failed to fetch dados: %w", err)
	}

	f.log.Debug("dados response", logger.Fields{
		"status":      resp.StatusCode(),
		"indicador1":  req.Indicador1,
		"indicador2":  req.Indicador2,
		"periodo":     req.Periodo,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode() != http.StatusOK {
		return models.ComparisonPayload{}, &StatusError{Code: resp.StatusCode()}
	}

	var payload models.ComparisonPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return models.ComparisonPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return payload, nil
}
