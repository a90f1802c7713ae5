// Package announcement puts a template, a route's translations and the
// stored clips together into the text, audio playlist and sign-language
// videos of one announcement per language.
package announcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"rail_announcer/internal/models"
	"rail_announcer/internal/numeral"
	"rail_announcer/internal/placeholder"
	"rail_announcer/internal/store"
)

// ErrUnknownLanguage is returned for a requested language that is not configured.
var ErrUnknownLanguage = errors.New("unknown language")

// PlaceholderPlatform is filled from the request, not from the route.
const PlaceholderPlatform = "platform"

// Request selects what to announce.
type Request struct {
	RouteID   uint     `json:"route_id" binding:"required"`
	Category  string   `json:"category" binding:"required"`
	Platform  string   `json:"platform"`
	Languages []string `json:"languages"` // all configured languages when empty
}

// Announcement is the rendered result for one language.
type Announcement struct {
	LanguageCode string   `json:"language_code"`
	Text         string   `json:"text"`
	Audio        []string `json:"audio"`
	Videos       []string `json:"videos"`
}

// Assembler renders announcements from stored assets.
type Assembler struct {
	store     *store.Store
	sequencer VideoSequencer
	languages []models.Language
	logger    *logrus.Logger
}

func NewAssembler(st *store.Store, seq VideoSequencer, languages []models.Language, logger *logrus.Logger) *Assembler {
	if seq == nil {
		seq = NoSequencer{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Assembler{store: st, sequencer: seq, languages: languages, logger: logger}
}

// Assemble renders req in each requested language that has a template for
// the category. It fails with store.ErrNotFound when none does.
func (a *Assembler) Assemble(ctx context.Context, req Request) ([]Announcement, error) {
	langs, err := a.resolveLanguages(req.Languages)
	if err != nil {
		return nil, err
	}

	route, err := a.store.GetRoute(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	translations, err := a.store.TranslationsFor(ctx, route.ID)
	if err != nil {
		return nil, err
	}
	audio, err := a.store.AudioFor(ctx, route.ID)
	if err != nil {
		return nil, err
	}

	out := make([]Announcement, 0, len(langs))
	for _, lang := range langs {
		tpl, err := a.store.Template(ctx, req.Category, lang.Code)
		if errors.Is(err, store.ErrNotFound) {
			a.logger.WithFields(logrus.Fields{
				"category": req.Category,
				"language": lang.Code,
			}).Debug("No template for language")
			continue
		}
		if err != nil {
			return nil, err
		}

		tokens, err := placeholder.Tokenize(tpl.TemplateText)
		if err != nil {
			return nil, fmt.Errorf("template %q %s: %w", req.Category, lang.Code, err)
		}
		parts, err := a.store.TemplatePartAudio(ctx, req.Category, lang.Code)
		if err != nil {
			return nil, err
		}

		values := placeholderValues(route, findTranslation(translations, lang.Code), lang, req.Platform)
		text := placeholder.Fill(tokens, values)

		ann := Announcement{
			LanguageCode: lang.Code,
			Text:         text,
			Audio:        orderedAudio(tokens, parts, findAudio(audio, lang.Code)),
			Videos:       []string{},
		}

		videos, err := a.sequencer.Sequence(ctx, text, lang.Code)
		if err != nil {
			a.logger.WithError(err).WithField("language", lang.Code).Warn("Video sequencing failed")
		} else if videos != nil {
			ann.Videos = videos
		}
		out = append(out, ann)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("template %q: %w", req.Category, store.ErrNotFound)
	}
	return out, nil
}

func (a *Assembler) resolveLanguages(codes []string) ([]models.Language, error) {
	if len(codes) == 0 {
		return a.languages, nil
	}
	out := make([]models.Language, 0, len(codes))
	for _, c := range codes {
		l, ok := models.FindLanguage(a.languages, c)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, c)
		}
		out = append(out, l)
	}
	return out, nil
}

// placeholderValues maps placeholder names to display text. Without a
// stored translation the source fields are used.
func placeholderValues(route models.Route, tr *models.Translation, lang models.Language, platform string) map[string]string {
	values := make(map[string]string, len(models.Fields)+1)
	for _, f := range models.Fields {
		v := route.Source(f)
		if tr != nil && tr.Value(f) != "" {
			v = tr.Value(f)
		}
		values[string(f)] = v
	}
	if platform != "" {
		if lang.DigitSpelled {
			values[PlaceholderPlatform] = numeral.SpellDigits(platform, lang.Code)
		} else {
			values[PlaceholderPlatform] = platform
		}
	}
	return values
}

// orderedAudio lists clip references in speaking order: literal part i
// plays template part clip i, a field placeholder plays the route clip.
// Missing clips are skipped.
func orderedAudio(tokens []placeholder.Token, parts []models.TemplatePartAudio, asset *models.AudioAsset) []string {
	byIndex := make(map[int]string, len(parts))
	for _, p := range parts {
		byIndex[p.PartIndex] = p.AudioPath
	}

	out := []string{}
	lit := 0
	for _, t := range tokens {
		if t.Kind == placeholder.Literal {
			if ref, ok := byIndex[lit]; ok {
				out = append(out, ref)
			}
			lit++
			continue
		}
		if asset == nil {
			continue
		}
		if ref := asset.Path(models.Field(placeholder.Name(t.Value))); ref != nil {
			out = append(out, *ref)
		}
	}
	return out
}

func findTranslation(rows []models.Translation, lang string) *models.Translation {
	for i := range rows {
		if rows[i].LanguageCode == lang {
			return &rows[i]
		}
	}
	return nil
}

func findAudio(rows []models.AudioAsset, lang string) *models.AudioAsset {
	for i := range rows {
		if rows[i].LanguageCode == lang {
			return &rows[i]
		}
	}
	return nil
}
