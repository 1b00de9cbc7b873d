package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"envizi_webhook/internal/domain"
	"envizi_webhook/internal/mapping"
	"envizi_webhook/internal/repository"
	"envizi_webhook/internal/template"
	"envizi_webhook/pkg/logger"
)

// Service orchestrates webhook configuration, mapping suggestion and
// execution against the configured repositories.
type Service struct {
	webhooks   *repository.WebhookRepo
	executions *repository.ExecutionRepo
	metrics    *repository.MetricsRepo
	templates  *template.Provider
	fetcher    *Fetcher
	sink       *EnviziSink
}

func NewService(
	webhooks *repository.WebhookRepo,
	executions *repository.ExecutionRepo,
	metrics *repository.MetricsRepo,
	templates *template.Provider,
	fetcher *Fetcher,
	sink *EnviziSink,
) *Service {
	return &Service{
		webhooks:   webhooks,
		executions: executions,
		metrics:    metrics,
		templates:  templates,
		fetcher:    fetcher,
		sink:       sink,
	}
}

// MappingOverride is one user correction to a suggested mapping.
type MappingOverride struct {
	EnviziField    string                 `json:"enviziField"`
	SourcePath     string                 `json:"sourcePath"`
	ManualValue    string                 `json:"manualValue"`
	Transformation *domain.Transformation `json:"transformation"`
}

// SuggestionResult is the outcome of probing a source endpoint for
// automatic field mappings.
type SuggestionResult struct {
	Mappings    []domain.Mapping `json:"mappings"`
	SourcePaths []string         `json:"source_paths"`
	Sample      domain.Record    `json:"sample,omitempty"`
	RecordCount int              `json:"record_count"`
}

// ValidateConfig checks a webhook configuration before it is stored.
func ValidateConfig(cfg *domain.WebhookConfig) []domain.ValidationError {
	var errs []domain.ValidationError
	if strings.TrimSpace(cfg.Name) == "" {
		errs = append(errs, domain.ValidationError{
			Field:    "name",
			Message:  "name is required",
			Severity: domain.SeverityError,
		})
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		errs = append(errs, domain.ValidationError{
			Field:    "endpoint",
			Message:  "endpoint is required",
			Severity: domain.SeverityError,
		})
	} else if u, err := url.Parse(cfg.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, domain.ValidationError{
			Field:      "endpoint",
			Message:    "endpoint must be an absolute URL",
			Severity:   domain.SeverityError,
			Resolution: "Use a full http(s) URL including scheme and host",
		})
	}
	if strings.TrimSpace(cfg.EnviziTemplate) == "" {
		errs = append(errs, domain.ValidationError{
			Field:    "envizi_template",
			Message:  "envizi_template is required",
			Severity: domain.SeverityError,
		})
	}
	if cfg.Scheduler.Enabled && cfg.Scheduler.Interval <= 0 {
		errs = append(errs, domain.ValidationError{
			Field:      "scheduler.interval",
			Message:    "scheduler interval must be positive",
			Severity:   domain.SeverityError,
			Resolution: "Set the interval in minutes or disable the scheduler",
		})
	}
	return errs
}

// CreateWebhook validates and stores a new webhook configuration.
func (s *Service) CreateWebhook(ctx context.Context, cfg *domain.WebhookConfig) error {
	if errs := ValidateConfig(cfg); len(errs) > 0 {
		return configError(errs)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.Method == "" {
		cfg.Method = "GET"
	}
	cfg.Active = true
	if cfg.Scheduler.Enabled {
		next := time.Now().Add(time.Duration(cfg.Scheduler.Interval) * time.Minute)
		cfg.Scheduler.NextRun = &next
	}
	if err := s.webhooks.Create(ctx, cfg); err != nil {
		return err
	}
	logger.Infof("Created webhook %s (%s)", cfg.ID, cfg.Name)
	return nil
}

func (s *Service) GetWebhook(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	return s.webhooks.Get(ctx, id)
}

func (s *Service) ListWebhooks(ctx context.Context) ([]domain.WebhookConfig, error) {
	return s.webhooks.List(ctx)
}

// UpdateWebhook validates and replaces an existing configuration.
func (s *Service) UpdateWebhook(ctx context.Context, id string, cfg *domain.WebhookConfig) error {
	if errs := ValidateConfig(cfg); len(errs) > 0 {
		return configError(errs)
	}
	cfg.ID = id
	if cfg.Scheduler.Enabled && cfg.Scheduler.NextRun == nil {
		next := time.Now().Add(time.Duration(cfg.Scheduler.Interval) * time.Minute)
		cfg.Scheduler.NextRun = &next
	}
	return s.webhooks.Update(ctx, id, cfg)
}

func (s *Service) DeleteWebhook(ctx context.Context, id string) error {
	return s.webhooks.Delete(ctx, id)
}

// SuggestMappings fetches a sample from the source endpoint and proposes
// a mapping toward the webhook's Envizi template.
func (s *Service) SuggestMappings(ctx context.Context, cfg *domain.WebhookConfig) (*SuggestionResult, error) {
	tmpl, err := s.templates.GetTemplate(ctx, cfg.EnviziTemplate)
	if err != nil {
		return nil, err
	}
	data, err := s.fetcher.Fetch(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching sample data: %w", err)
	}
	records := ExtractRecords(data)
	if len(records) == 0 {
		return &SuggestionResult{}, nil
	}
	sample := records[0]
	flat := mapping.Flatten(sample)
	return &SuggestionResult{
		Mappings:    mapping.Suggest(sample, tmpl),
		SourcePaths: mapping.FlatPaths(flat),
		Sample:      sample,
		RecordCount: len(records),
	}, nil
}

// SuggestFromSample proposes a mapping for an already-captured sample
// record, without touching the network.
func (s *Service) SuggestFromSample(ctx context.Context, templateName string, sample domain.Record) (*SuggestionResult, error) {
	tmpl, err := s.templates.GetTemplate(ctx, templateName)
	if err != nil {
		return nil, err
	}
	flat := mapping.Flatten(sample)
	return &SuggestionResult{
		Mappings:    mapping.Suggest(sample, tmpl),
		SourcePaths: mapping.FlatPaths(flat),
		Sample:      sample,
		RecordCount: 1,
	}, nil
}

// ApplyOverrides rewrites selected mappings on a stored webhook. Each
// override pins a source path or manual value and marks the mapping as
// user-confirmed.
func (s *Service) ApplyOverrides(ctx context.Context, id string, overrides []MappingOverride) (*domain.WebhookConfig, error) {
	cfg, err := s.webhooks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, ov := range overrides {
		applied := false
		for i, m := range cfg.Mapping {
			if m.EnviziField != ov.EnviziField {
				continue
			}
			cfg.Mapping[i] = mapping.ApplyOverride(m, ov.SourcePath, ov.ManualValue, ov.Transformation)
			applied = true
			break
		}
		if !applied {
			cfg.Mapping = append(cfg.Mapping, mapping.ApplyOverride(domain.Mapping{
				EnviziField: ov.EnviziField,
			}, ov.SourcePath, ov.ManualValue, ov.Transformation))
		}
	}
	if err := s.webhooks.Update(ctx, id, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateWebhook checks a stored webhook's configuration and its
// mapping against the referenced template.
func (s *Service) ValidateWebhook(ctx context.Context, id string) ([]domain.ValidationError, error) {
	cfg, err := s.webhooks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	errs := ValidateConfig(cfg)
	tmpl, err := s.templates.GetTemplate(ctx, cfg.EnviziTemplate)
	if err != nil {
		return nil, err
	}
	errs = append(errs, mapping.ValidateMappings(cfg.Mapping, tmpl)...)
	return errs, nil
}

// Test runs the full fetch/map/transform/validate pipeline without
// pushing anything downstream or recording the run.
func (s *Service) Test(ctx context.Context, id string) (*domain.ExecutionResult, error) {
	cfg, err := s.webhooks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, cfg, false), nil
}

// Execute performs a full run: transformed records are pushed to Envizi
// when a target is configured, and the outcome is persisted.
func (s *Service) Execute(ctx context.Context, id string) (*domain.ExecutionResult, error) {
	cfg, err := s.webhooks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result := s.run(ctx, cfg, true)
	if err := s.executions.Record(ctx, result); err != nil {
		logger.Errorf("Recording execution for %s: %v", id, err)
	}
	if err := s.metrics.RecordExecution(ctx, result); err != nil {
		logger.Warnf("Writing execution metrics for %s: %v", id, err)
	}
	return result, nil
}

// ExecutionHistory returns the most recent runs for a webhook.
func (s *Service) ExecutionHistory(ctx context.Context, id string, limit int) ([]domain.ExecutionResult, error) {
	if _, err := s.webhooks.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.executions.History(ctx, id, limit)
}

func (s *Service) run(ctx context.Context, cfg *domain.WebhookConfig, push bool) *domain.ExecutionResult {
	start := time.Now()
	result := &domain.ExecutionResult{
		WebhookID: cfg.ID,
		Timestamp: start,
	}
	fail := func(err error) *domain.ExecutionResult {
		result.Error = err.Error()
		result.Duration = time.Since(start)
		logger.Errorf("Webhook %s run failed: %v", cfg.ID, err)
		return result
	}

	tmpl, err := s.templates.GetTemplate(ctx, cfg.EnviziTemplate)
	if err != nil {
		return fail(fmt.Errorf("loading template %q: %w", cfg.EnviziTemplate, err))
	}

	data, err := s.fetcher.Fetch(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	records := ExtractRecords(data)
	result.Records = records
	if len(records) == 0 {
		return fail(fmt.Errorf("source returned no records"))
	}

	mappings := cfg.Mapping
	if len(mappings) == 0 {
		mappings = mapping.Suggest(records[0], tmpl)
		logger.Infof("Webhook %s has no stored mapping, suggested %d mappings", cfg.ID, len(mappings))
	}
	result.Mappings = mappings

	for _, e := range mapping.ValidateMappings(mappings, tmpl) {
		result.ValidationErrors = append(result.ValidationErrors,
			fmt.Sprintf("%s: %s", e.Field, e.Message))
	}

	transformed := mapping.TransformBatch(records, mappings, tmpl)
	result.TransformedData = transformed
	result.RecordsProcessed = len(transformed)
	result.ValidationErrors = append(result.ValidationErrors,
		mapping.ValidateBatch(transformed, tmpl)...)

	result.Success = len(result.ValidationErrors) == 0
	if push && result.Success && cfg.Envizi != nil {
		if err := s.sink.Push(ctx, cfg.Envizi, transformed); err != nil {
			return fail(fmt.Errorf("pushing to Envizi: %w", err))
		}
		logger.Infof("Webhook %s pushed %d records to Envizi", cfg.ID, len(transformed))
	}

	result.Duration = time.Since(start)
	logger.Infof("Webhook %s processed %d records in %s (success=%t)",
		cfg.ID, result.RecordsProcessed, result.Duration, result.Success)
	return result
}

// ConfigError wraps structured validation findings so handlers can
// return them verbatim.
type ConfigError struct {
	Errors []domain.ValidationError
}

func (e *ConfigError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "invalid webhook config: " + strings.Join(msgs, "; ")
}

func configError(errs []domain.ValidationError) error {
	return &ConfigError{Errors: errs}
}
