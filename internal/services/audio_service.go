package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"rail_announcer/internal/models"
	"rail_announcer/internal/store"
)

// AudioService synthesizes and stores the field clips of a route.
type AudioService struct {
	store     *store.Store
	synth     Synthesizer
	pacer     Pacer
	languages []models.Language
	logger    *logrus.Logger
}

func NewAudioService(st *store.Store, synth Synthesizer, pacer Pacer, languages []models.Language, logger *logrus.Logger) *AudioService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AudioService{store: st, synth: synth, pacer: pacer, languages: languages, logger: logger}
}

// GenerateForRoute speaks every translated field of a route, one request
// at a time, and replaces the stored audio per language. Fields the engine
// cannot voice are left absent.
func (s *AudioService) GenerateForRoute(ctx context.Context, routeID uint) ([]models.AudioAsset, error) {
	if _, err := s.store.GetRoute(ctx, routeID); err != nil {
		return nil, err
	}
	translations, err := s.store.TranslationsFor(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}

	var assets []models.AudioAsset
	for _, t := range orderByLanguage(translations, s.languages) {
		clips := make(map[models.Field][]byte, len(models.Fields))
		for _, f := range models.Fields {
			text := t.Value(f)
			if text == "" {
				continue
			}
			if err := s.pacer.Wait(ctx); err != nil {
				return nil, fmt.Errorf("audio for route %d: %w", routeID, err)
			}
			clips[f] = s.synth.Synthesize(ctx, text, t.LanguageCode)
		}

		asset, err := s.store.ReplaceAudio(ctx, routeID, t.LanguageCode, clips)
		if err != nil {
			return nil, fmt.Errorf("save audio %s: %w", t.LanguageCode, err)
		}
		if asset == nil {
			s.logger.WithFields(logrus.Fields{
				"route_id": routeID,
				"language": t.LanguageCode,
			}).Warn("No audio produced for language")
			continue
		}
		assets = append(assets, *asset)
	}
	return assets, nil
}

// orderByLanguage puts configured languages first, in configured order,
// followed by any stored language no longer configured.
func orderByLanguage(rows []models.Translation, languages []models.Language) []models.Translation {
	out := make([]models.Translation, 0, len(rows))
	used := make([]bool, len(rows))
	for _, l := range languages {
		for i, r := range rows {
			if !used[i] && r.LanguageCode == l.Code {
				out = append(out, r)
				used[i] = true
			}
		}
	}
	for i, r := range rows {
		if !used[i] {
			out = append(out, r)
		}
	}
	return out
}
