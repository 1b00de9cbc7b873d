package repository

import (
	"context"
	"fmt"
	"time"

	influxdb3 "github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"

	"envizi_webhook/internal/domain"
)

// MetricsRepo writes execution metrics points to InfluxDB. A nil client
// turns every write into a no-op so metrics stay optional.
type MetricsRepo struct {
	client *influxdb3.Client
}

func NewMetricsRepo(client *influxdb3.Client) *MetricsRepo {
	return &MetricsRepo{client: client}
}

// RecordExecution writes one point per webhook run.
func (r *MetricsRepo) RecordExecution(ctx context.Context, result *domain.ExecutionResult) error {
	if r.client == nil {
		return nil
	}

	tags := map[string]string{
		"webhook_id": result.WebhookID,
		"success":    fmt.Sprintf("%t", result.Success),
	}
	fields := map[string]interface{}{
		"records_processed": int64(result.RecordsProcessed),
		"validation_errors": int64(len(result.ValidationErrors)),
		"duration_ms":       result.Duration.Milliseconds(),
	}

	point := influxdb3.NewPoint("webhook_execution", tags, fields, result.Timestamp)

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.client.WritePoints(writeCtx, []*influxdb3.Point{point}); err != nil {
		return fmt.Errorf("WritePoints failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *MetricsRepo) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
