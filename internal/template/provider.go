package template

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"envizi_webhook/internal/domain"
	"envizi_webhook/internal/mapping"
	"envizi_webhook/pkg/logger"
)

// ErrNotFound is returned when no template exists under a name.
var ErrNotFound = errors.New("template not found")

// Store is the persistence backend for templates.
type Store interface {
	Get(ctx context.Context, name string) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	Save(ctx context.Context, tmpl *domain.Template) error
}

// Provider serves templates from a process-lifetime cache in front of
// the store. Templates are immutable once published, so cached entries
// are never invalidated.
type Provider struct {
	store Store
	cache sync.Map // name -> *domain.Template
}

func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// GetTemplate returns the named template, consulting the cache first.
// Returns ErrNotFound when neither cache nor store has it.
func (p *Provider) GetTemplate(ctx context.Context, name string) (*domain.Template, error) {
	if cached, ok := p.cache.Load(name); ok {
		return cached.(*domain.Template), nil
	}

	tmpl, err := p.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	p.cache.Store(name, tmpl)
	return tmpl, nil
}

// ListTemplates returns all stored templates.
func (p *Provider) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return p.store.List(ctx)
}

// SaveTemplate validates and persists a template, then caches it.
func (p *Provider) SaveTemplate(ctx context.Context, tmpl *domain.Template) error {
	if tmpl.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if len(tmpl.Fields) == 0 {
		return fmt.Errorf("template %s has no fields", tmpl.Name)
	}
	if tmpl.Version == "" {
		tmpl.Version = "1.0"
	}
	tmpl.UpdatedAt = time.Now()
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = tmpl.UpdatedAt
	}

	if err := p.store.Save(ctx, tmpl); err != nil {
		return err
	}
	p.cache.Store(tmpl.Name, tmpl)
	return nil
}

// EnsureDefaults seeds the built-in template when the store is empty.
func (p *Provider) EnsureDefaults(ctx context.Context) error {
	existing, err := p.store.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	tmpl := DefaultTemplate()
	if err := p.SaveTemplate(ctx, tmpl); err != nil {
		return err
	}
	logger.Infof("Seeded default template %q with %d fields", tmpl.Name, len(tmpl.Fields))
	return nil
}

// BuildField constructs a typed template field from an uploaded header,
// inferring the type from a sample value or the header name.
func BuildField(name string, sample interface{}, required bool, validation string) domain.Field {
	return domain.Field{
		Name:       name,
		Type:       mapping.InferType(name, sample),
		Required:   required,
		Validation: ParseValidation(validation),
	}
}

var (
	minRe     = regexp.MustCompile(`min:(\d+)`)
	maxRe     = regexp.MustCompile(`max:(\d+)`)
	patternRe = regexp.MustCompile(`pattern:([^;]+)`)
)

// ParseValidation parses a compact validation string of the form
// "min:0;max:100;pattern:^DK" as carried in uploaded template sheets.
// Returns nil when nothing usable is present.
func ParseValidation(s string) *domain.FieldValidation {
	if s == "" {
		return nil
	}

	v := &domain.FieldValidation{}
	found := false
	if m := minRe.FindStringSubmatch(s); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			v.Min = &f
			found = true
		}
	}
	if m := maxRe.FindStringSubmatch(s); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			v.Max = &f
			found = true
		}
	}
	if m := patternRe.FindStringSubmatch(s); m != nil {
		v.Pattern = m[1]
		found = true
	}
	if !found {
		return nil
	}
	return v
}

// DefaultTemplate is the built-in Envizi PM&C account setup template.
func DefaultTemplate() *domain.Template {
	return &domain.Template{
		Name:        "envizi-pmc",
		Version:     "1.0",
		Description: "Envizi PM&C account data template",
		Fields: []domain.Field{
			{Name: "Organization", Type: domain.TypeString, Required: true},
			{Name: "Location", Type: domain.TypeString, Required: true},
			{Name: "Account Style Caption", Type: domain.TypeString},
			{Name: "Account Number", Type: domain.TypeString, Required: true},
			{Name: "Account Name", Type: domain.TypeString},
			{Name: "Record Start", Type: domain.TypeDate, Required: true},
			{Name: "Record End", Type: domain.TypeDate, Required: true},
			{Name: "Quantity", Type: domain.TypeNumber, Required: true},
			{Name: "Usage Unit", Type: domain.TypeString},
			{Name: "Total Cost", Type: domain.TypeNumber},
			{Name: "Cost Unit", Type: domain.TypeString},
			{Name: "Supplier", Type: domain.TypeString},
			{Name: "Reference", Type: domain.TypeString},
			{Name: "Notes", Type: domain.TypeString},
		},
	}
}
