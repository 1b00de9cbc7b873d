package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"envizi_webhook/internal/domain"
	"envizi_webhook/pkg/logger"
)

// EnviziSink pushes transformed records to the Envizi data API.
type EnviziSink struct {
	client *http.Client
}

func NewEnviziSink(timeout time.Duration) *EnviziSink {
	return &EnviziSink{
		client: &http.Client{Timeout: timeout},
	}
}

// Push submits a batch of transformed records to the configured
// organization endpoint.
func (s *EnviziSink) Push(ctx context.Context, target *domain.EnviziConfig, records []domain.TransformedRecord) error {
	if target.Endpoint == "" || target.OrganizationID == "" {
		return fmt.Errorf("envizi endpoint and organization id are required")
	}
	body, err := json.Marshal(map[string]interface{}{
		"records": records,
	})
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	url := fmt.Sprintf("%s/organizations/%s/data", target.Endpoint, target.OrganizationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if target.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+target.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("envizi returned status %d: %s", resp.StatusCode, snippet)
	}
	logger.Debugf("Pushed %d records to %s", len(records), url)
	return nil
}
