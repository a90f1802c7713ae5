package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"rail_announcer/internal/models"
	"rail_announcer/internal/placeholder"
	"rail_announcer/internal/store"
)

// RequiredCategories must be present in an imported template document.
var RequiredCategories = []string{"Arriving", "Delay", "Cancelled", "Platform_Change"}

const templateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["Arriving", "Delay", "Cancelled", "Platform_Change"],
  "propertyNames": {"pattern": "^[A-Za-z0-9_-]{1,64}$"},
  "additionalProperties": {"type": "string", "minLength": 1}
}`

var (
	compiledTemplateSchema = jsonschema.MustCompileString("templates.schema.json", templateSchema)
	categoryName           = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// TemplateService translates announcement templates and voices their parts.
type TemplateService struct {
	store      *store.Store
	translator RouteTranslator
	synth      Synthesizer
	pacer      Pacer
	languages  []models.Language
	logger     *logrus.Logger
}

func NewTemplateService(st *store.Store, t RouteTranslator, synth Synthesizer, pacer Pacer, languages []models.Language, logger *logrus.Logger) *TemplateService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TemplateService{store: st, translator: t, synth: synth, pacer: pacer, languages: languages, logger: logger}
}

// Save translates a source-language template into every language and
// replaces the category.
func (s *TemplateService) Save(ctx context.Context, category, text string) ([]models.AnnouncementTemplate, error) {
	if !categoryName.MatchString(category) {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidTemplates, category)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty template for %q", ErrInvalidTemplates, category)
	}

	records, err := s.translator.TranslateTemplate(ctx, category, text, s.languages)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceTemplate(ctx, category, records); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return records, nil
}

// ParseTemplateDocument decodes a JSON or YAML object mapping category to
// source template and validates it.
func ParseTemplateDocument(document []byte) (map[string]string, error) {
	var raw any
	if err := yaml.Unmarshal(document, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplates, err)
	}
	if err := compiledTemplateSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplates, err)
	}

	obj := raw.(map[string]any)
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		out[k] = v.(string)
	}
	return out, nil
}

// Import replaces the whole template set with a validated document. Every
// template is tokenized and translated before anything is written.
func (s *TemplateService) Import(ctx context.Context, document []byte) (map[string][]models.AnnouncementTemplate, error) {
	doc, err := ParseTemplateDocument(document)
	if err != nil {
		return nil, err
	}
	for category, text := range doc {
		if _, err := placeholder.Tokenize(text); err != nil {
			return nil, fmt.Errorf("template %q: %w", category, err)
		}
	}

	all := make(map[string][]models.AnnouncementTemplate, len(doc))
	for category, text := range doc {
		records, err := s.translator.TranslateTemplate(ctx, category, text, s.languages)
		if err != nil {
			return nil, err
		}
		all[category] = records
	}
	if err := s.store.ReplaceAllTemplates(ctx, all); err != nil {
		return nil, fmt.Errorf("save templates: %w", err)
	}
	return all, nil
}

// GenerateAudio voices every non-blank literal part of every language of
// a category, one request at a time.
func (s *TemplateService) GenerateAudio(ctx context.Context, category string) ([]models.TemplatePartAudio, error) {
	rows, err := s.store.TemplatesFor(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}

	var out []models.TemplatePartAudio
	for _, row := range rows {
		tokens, err := placeholder.Tokenize(row.TemplateText)
		if err != nil {
			return nil, fmt.Errorf("template %q %s: %w", category, row.LanguageCode, err)
		}

		parts := make(map[int][]byte)
		for i, lit := range placeholder.Literals(tokens) {
			if placeholder.IsBlank(lit) {
				continue
			}
			if err := s.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("audio for template %q: %w", category, err)
			}
			parts[i] = s.synth.Synthesize(ctx, strings.TrimSpace(lit), row.LanguageCode)
		}

		saved, err := s.store.ReplaceTemplatePartAudio(ctx, category, row.LanguageCode, parts)
		if err != nil {
			return nil, fmt.Errorf("save template audio %s: %w", row.LanguageCode, err)
		}
		out = append(out, saved...)
	}

	s.logger.WithFields(logrus.Fields{
		"category": category,
		"parts":    len(out),
	}).Info("Template audio generated")
	return out, nil
}
