package translate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"rail_announcer/internal/models"
	"rail_announcer/internal/numeral"
	"rail_announcer/internal/placeholder"
)

// DefaultConcurrency caps in-flight translation calls.
const DefaultConcurrency = 8

// Orchestrator runs every literal segment of route fields and templates
// through a TextTranslator for each language and reassembles the results.
type Orchestrator struct {
	translator TextTranslator
	sourceLang string
	limit      int
	logger     *logrus.Logger
}

func NewOrchestrator(t TextTranslator, sourceLang string, maxConcurrency int, logger *logrus.Logger) *Orchestrator {
	if sourceLang == "" {
		sourceLang = "en"
	}
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{translator: t, sourceLang: sourceLang, limit: maxConcurrency, logger: logger}
}

// unit is one tokenized text to be rendered in one language.
type unit struct {
	tokens []placeholder.Token
	lang   string
	fixed  *string // already final, not translated
}

// TranslateRoute returns one Translation per language, in order, with
// every field set. Train numbers are spelled out for digit-spelled
// languages and translated as spaced digits otherwise.
func (o *Orchestrator) TranslateRoute(ctx context.Context, route models.Route, languages []models.Language) ([]models.Translation, error) {
	spaced := numeral.SpaceDigits(route.TrainNumber)

	tokenized := make(map[models.Field][]placeholder.Token, len(models.Fields))
	for _, f := range models.Fields {
		src := route.Source(f)
		if f == models.FieldTrainNumber {
			src = spaced
		}
		tokens, err := placeholder.Tokenize(src)
		if err != nil {
			return nil, fmt.Errorf("route %d %s: %w", route.ID, f, err)
		}
		tokenized[f] = tokens
	}

	units := make([]unit, 0, len(languages)*len(models.Fields))
	for _, lang := range languages {
		for _, f := range models.Fields {
			u := unit{tokens: tokenized[f], lang: lang.Code}
			if f == models.FieldTrainNumber && lang.DigitSpelled {
				spelled := numeral.SpellDigits(route.TrainNumber, lang.Code)
				u.fixed = &spelled
			}
			units = append(units, u)
		}
	}

	texts, err := o.run(ctx, units)
	if err != nil {
		return nil, err
	}

	out := make([]models.Translation, len(languages))
	for li, lang := range languages {
		row := texts[li*len(models.Fields) : (li+1)*len(models.Fields)]
		out[li] = models.Translation{
			RouteID:      route.ID,
			LanguageCode: lang.Code,
			TrainNumber:  row[0],
			TrainName:    row[1],
			StartStation: row[2],
			EndStation:   row[3],
		}
	}

	o.logger.WithFields(logrus.Fields{
		"route_id":  route.ID,
		"languages": len(languages),
	}).Info("Route translated")
	return out, nil
}

// TranslateTemplate renders a source-language template in every language.
// The source-language row is the template as given.
func (o *Orchestrator) TranslateTemplate(ctx context.Context, category, template string, languages []models.Language) ([]models.AnnouncementTemplate, error) {
	tokens, err := placeholder.Tokenize(template)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", category, err)
	}

	units := make([]unit, len(languages))
	for i, lang := range languages {
		units[i] = unit{tokens: tokens, lang: lang.Code}
		if lang.Code == o.sourceLang {
			src := template
			units[i].fixed = &src
		}
	}

	texts, err := o.run(ctx, units)
	if err != nil {
		return nil, err
	}

	out := make([]models.AnnouncementTemplate, len(languages))
	for i, lang := range languages {
		out[i] = models.AnnouncementTemplate{
			Category:     category,
			LanguageCode: lang.Code,
			TemplateText: texts[i],
		}
	}
	return out, nil
}

// run translates every non-blank literal of every unit concurrently and
// returns the reassembled text per unit. Results are only returned once
// all calls have finished.
func (o *Orchestrator) run(ctx context.Context, units []unit) ([]string, error) {
	literals := make([][]string, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit)

	for ui, u := range units {
		if u.fixed != nil {
			continue
		}
		lits := placeholder.Literals(u.tokens)
		literals[ui] = lits
		for li, lit := range lits {
			if placeholder.IsBlank(lit) {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				lead, core, trail := placeholder.SplitSpace(lit)
				literals[ui][li] = lead + o.translator.Translate(gctx, core, u.lang) + trail
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	out := make([]string, len(units))
	for ui, u := range units {
		if u.fixed != nil {
			out[ui] = *u.fixed
			continue
		}
		text, err := placeholder.Reassemble(u.tokens, literals[ui])
		if err != nil {
			return nil, err
		}
		out[ui] = text
	}
	return out, nil
}
