package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"rail_announcer/internal/models"
	"rail_announcer/internal/placeholder"
	"rail_announcer/internal/store"
)

// TranslationService regenerates route translations.
type TranslationService struct {
	store      *store.Store
	translator RouteTranslator
	languages  []models.Language
	logger     *logrus.Logger
}

func NewTranslationService(st *store.Store, t RouteTranslator, languages []models.Language, logger *logrus.Logger) *TranslationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TranslationService{store: st, translator: t, languages: languages, logger: logger}
}

// RegenerateRoute translates one route into every language and replaces
// its stored translations. Nothing is written until all languages are done.
func (s *TranslationService) RegenerateRoute(ctx context.Context, routeID uint) ([]models.Translation, error) {
	route, err := s.store.GetRoute(ctx, routeID)
	if err != nil {
		return nil, err
	}

	records, err := s.translator.TranslateRoute(ctx, route, s.languages)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceTranslations(ctx, route.ID, records); err != nil {
		return nil, fmt.Errorf("save translations: %w", err)
	}
	return records, nil
}

// RegenerateSummary reports the outcome of RegenerateAll.
type RegenerateSummary struct {
	Routes     int    `json:"routes"`
	Translated int    `json:"translated"`
	Skipped    []uint `json:"skipped,omitempty"`
}

// RegenerateAll regenerates every route in turn. A route whose fields are
// malformed is skipped and reported; any other error stops the run.
func (s *TranslationService) RegenerateAll(ctx context.Context) (RegenerateSummary, error) {
	routes, err := s.store.ListRoutes(ctx)
	if err != nil {
		return RegenerateSummary{}, err
	}

	sum := RegenerateSummary{Routes: len(routes)}
	for _, r := range routes {
		if _, err := s.RegenerateRoute(ctx, r.ID); err != nil {
			if errors.Is(err, placeholder.ErrMalformedTemplate) || errors.Is(err, store.ErrNotFound) {
				s.logger.WithError(err).WithField("route_id", r.ID).Warn("Route skipped")
				sum.Skipped = append(sum.Skipped, r.ID)
				continue
			}
			return sum, err
		}
		sum.Translated++
	}

	s.logger.WithFields(logrus.Fields{
		"routes":     sum.Routes,
		"translated": sum.Translated,
		"skipped":    len(sum.Skipped),
	}).Info("All routes translated")
	return sum, nil
}
