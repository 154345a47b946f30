package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/service"
)

const fetchTimeout = 5 * time.Second

// HTTPRateProvider fetches exchange rates from a JSON rate API shaped like
// GET <base_url>/<FROM> returning {"rates": {"EUR": 0.93, ...}}.
type HTTPRateProvider struct {
	client  *http.Client
	baseURL string
}

// NewHTTPRateProvider creates a provider against the given base URL.
func NewHTTPRateProvider(baseURL string) *HTTPRateProvider {
	return &HTTPRateProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: fetchTimeout},
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchLatestRates fetches the full rate table for a base currency. Transient
// failures are retried with backoff; the context bounds the whole call.
func (p *HTTPRateProvider) FetchLatestRates(ctx context.Context, from string) (map[string]float64, error) {
	if p.baseURL == "" {
		return nil, fmt.Errorf("%w: rate provider URL", common.ErrMissingConfig)
	}

	url := p.baseURL + "/" + strings.ToUpper(strings.TrimSpace(from))

	var rates map[string]float64
	err := common.WithRetry(ctx, func() error {
		fetched, fetchErr := p.fetchOnce(ctx, url)
		if fetchErr != nil {
			return fetchErr
		}
		rates = fetched
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (p *HTTPRateProvider) fetchOnce(ctx context.Context, url string) (map[string]float64, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRateFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: unexpected status %d", common.ErrRateFetch, resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &common.RetryableError{Err: err, Retryable: false}
		}
		return nil, err
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", common.ErrRateFetch, err)
	}
	if len(body.Rates) == 0 {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: response has no rates", common.ErrRateFetch),
			Retryable: false,
		}
	}
	return body.Rates, nil
}
