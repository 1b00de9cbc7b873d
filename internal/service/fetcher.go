package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"envizi_webhook/internal/domain"
	"envizi_webhook/pkg/logger"
)

// Fetcher pulls raw data from a webhook's source endpoint.
type Fetcher struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

func NewFetcher(retries int, retryDelay, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// Fetch executes the configured request with fixed-delay retries and
// decodes the JSON response.
func (f *Fetcher) Fetch(ctx context.Context, cfg *domain.WebhookConfig) (interface{}, error) {
	var lastErr error
	for attempt := 1; attempt <= f.retries; attempt++ {
		data, err := f.fetchOnce(ctx, cfg)
		if err == nil {
			return data, nil
		}
		lastErr = err
		logger.Warnf("Fetch attempt %d/%d for webhook %s failed: %v", attempt, f.retries, cfg.ID, err)

		if attempt < f.retries {
			select {
			case <-time.After(f.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", f.retries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, cfg *domain.WebhookConfig) (interface{}, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if method != http.MethodGet {
		body = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}
	applyAuth(req, cfg.Auth)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, cfg.Endpoint)
	}

	var data interface{}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return data, nil
}

func applyAuth(req *http.Request, auth *domain.WebhookAuth) {
	if auth == nil || !auth.Enabled || auth.Key == "" {
		return
	}
	switch auth.Type {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+auth.Key)
	case "api_key":
		header := auth.HeaderName
		if header == "" {
			header = "auth-token"
		}
		req.Header.Set(header, auth.Key)
	}
}

// ExtractRecords pulls the record batch out of an arbitrary response
/// shape: a top-level array is the batch, an object contributes its
// first array-valued property, anything else is a single-record batch.
func ExtractRecords(data interface{}) []domain.Record {
	switch v := data.(type) {
	case []interface{}:
		return toRecords(v)
	case map[string]interface{}:
		// Key order is pinned so the same response shape always yields
		// the same batch.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if arr, ok := v[key].([]interface{}); ok {
				return toRecords(arr)
			}
		}
		return []domain.Record{v}
	case nil:
		return []domain.Record{}
	default:
		// Scalar response; nothing to map against.
		return []domain.Record{}
	}
}

func toRecords(arr []interface{}) []domain.Record {
	records := make([]domain.Record, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]interface{}); ok {
			records = append(records, obj)
		}
	}
	return records
}
