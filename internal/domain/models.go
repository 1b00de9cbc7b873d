package domain

import "time"

// FieldType is the destination type of a template field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeDate   FieldType = "date"
)

// FieldValidation holds optional range/pattern constraints for a field.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" bson:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" bson:"pattern,omitempty"`
}

// Field is one typed destination column of an Envizi template.
type Field struct {
	Name       string           `json:"name" bson:"name"`
	Type       FieldType        `json:"type" bson:"type"`
	Required   bool             `json:"required" bson:"required"`
	Validation *FieldValidation `json:"validation,omitempty" bson:"validation,omitempty"`
}

// Template is an ordered set of destination fields. Immutable once published.
type Template struct {
	Name        string    `json:"name" bson:"name"`
	Version     string    `json:"version,omitempty" bson:"version,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Fields      []Field   `json:"fields" bson:"fields"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// FieldByName returns the template field with the given name, or nil.
func (t *Template) FieldByName(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// TransformType selects how a mapped value is coerced.
type TransformType string

const (
	TransformDirect TransformType = "direct"
	TransformDate   TransformType = "date"
	TransformMath   TransformType = "math"
	TransformText   TransformType = "text"
)

// Transformation is the per-mapping coercion rule.
// Format carries "iso"/"ymd" for dates and "fixed2" for numbers;
// Operation carries "uppercase"/"lowercase"/"trim" for text.
type Transformation struct {
	Type      TransformType `json:"type" bson:"type"`
	Format    string        `json:"format,omitempty" bson:"format,omitempty"`
	Operation string        `json:"operation,omitempty" bson:"operation,omitempty"`
}

// Mapping associates one template field with a source path in the raw
// record. ManualValue, when set, takes precedence over SourcePath.
type Mapping struct {
	EnviziField    string          `json:"enviziField" bson:"envizi_field"`
	SourcePath     string          `json:"sourcePath" bson:"source_path"`
	Required       bool            `json:"required" bson:"required"`
	ManualValue    string          `json:"manualValue,omitempty" bson:"manual_value,omitempty"`
	Transformation *Transformation `json:"transformation,omitempty" bson:"transformation,omitempty"`
	Confidence     float64         `json:"confidence" bson:"confidence"`
}

// Record is one raw payload row from an external source. Shape unknown;
// all access goes through path flattening.
type Record = map[string]interface{}

// TransformedRecord is keyed by template field name with coerced values.
type TransformedRecord = map[string]interface{}

// Severity of a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError is one structured finding from mapping validation.
type ValidationError struct {
	Field      string   `json:"field"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Resolution string   `json:"resolution,omitempty"`
}

// WebhookAuth configures outbound auth for the source endpoint.
type WebhookAuth struct {
	Enabled    bool   `json:"enabled" bson:"enabled"`
	Type       string `json:"type,omitempty" bson:"type,omitempty"` // "bearer" or "api_key"
	HeaderName string `json:"headerName,omitempty" bson:"header_name,omitempty"`
	Key        string `json:"key,omitempty" bson:"key,omitempty"`
}

// SchedulerConfig controls periodic execution of a webhook.
type SchedulerConfig struct {
	Enabled  bool       `json:"enabled" bson:"enabled"`
	Interval int        `json:"interval" bson:"interval"` // minutes
	LastRun  *time.Time `json:"lastRun,omitempty" bson:"last_run,omitempty"`
	NextRun  *time.Time `json:"nextRun,omitempty" bson:"next_run,omitempty"`
}

// EnviziConfig is the downstream analytics API target.
type EnviziConfig struct {
	Endpoint       string `json:"endpoint" bson:"endpoint"`
	OrganizationID string `json:"organizationId" bson:"organization_id"`
	APIKey         string `json:"apiKey,omitempty" bson:"api_key,omitempty"`
}

// WebhookConfig is one configured external data source plus its mapping.
type WebhookConfig struct {
	ID             string            `json:"id" bson:"id"`
	Name           string            `json:"name" bson:"name"`
	Desc           string            `json:"desc,omitempty" bson:"desc,omitempty"`
	Endpoint       string            `json:"endpoint" bson:"endpoint"`
	Method         string            `json:"method" bson:"method"`
	Headers        map[string]string `json:"headers,omitempty" bson:"headers,omitempty"`
	Auth           *WebhookAuth      `json:"auth,omitempty" bson:"auth,omitempty"`
	EnviziTemplate string            `json:"envizi_template" bson:"envizi_template"`
	Mapping        []Mapping         `json:"mapping,omitempty" bson:"mapping,omitempty"`
	Scheduler      SchedulerConfig   `json:"scheduler" bson:"scheduler"`
	Envizi         *EnviziConfig     `json:"envizi,omitempty" bson:"envizi,omitempty"`
	Active         bool              `json:"active" bson:"active"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" bson:"updated_at"`
}

// ExecutionResult summarizes one webhook run.
type ExecutionResult struct {
	WebhookID        string              `json:"webhook_id" bson:"webhook_id"`
	Success          bool                `json:"success" bson:"success"`
	RecordsProcessed int                 `json:"records_processed" bson:"records_processed"`
	Records          []Record            `json:"records,omitempty" bson:"-"`
	Mappings         []Mapping           `json:"mappings,omitempty" bson:"-"`
	TransformedData  []TransformedRecord `json:"transformed_data,omitempty" bson:"-"`
	ValidationErrors []string            `json:"validation_errors,omitempty" bson:"validation_errors,omitempty"`
	Error            string              `json:"error,omitempty" bson:"error,omitempty"`
	Duration         time.Duration       `json:"duration" bson:"duration"`
	Timestamp        time.Time           `json:"timestamp" bson:"timestamp"`
}
