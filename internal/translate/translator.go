// Package translate wraps machine translation engines behind a
// never-failing adapter and fans route and template text out across the
// configured languages.
package translate

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Backend is a machine translation engine. Implementations return one
// translation per input string, in order.
type Backend interface {
	Translate(ctx context.Context, contents []string, sourceLang, targetLang string) ([]string, error)
	Name() string
}

// TextTranslator translates one string into a target language.
type TextTranslator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// Client adapts a Backend to TextTranslator. Remote failures are logged
// and counted, and the original text is returned in their place.
type Client struct {
	backend    Backend
	sourceLang string
	logger     *logrus.Logger
}

// NewClient builds the adapter. sourceLang defaults to "en".
func NewClient(backend Backend, sourceLang string, logger *logrus.Logger) *Client {
	if sourceLang == "" {
		sourceLang = "en"
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{backend: backend, sourceLang: sourceLang, logger: logger}
}

// SourceLanguage returns the language all input is assumed to be in.
func (c *Client) SourceLanguage() string { return c.sourceLang }

// Translate returns text in targetLang, or text itself when it is empty,
// already in the target language, or the engine fails.
func (c *Client) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || strings.EqualFold(targetLang, c.sourceLang) {
		return text
	}

	engine := c.backend.Name()
	start := time.Now()
	out, err := c.backend.Translate(ctx, []string{text}, c.sourceLang, targetLang)
	elapsed := time.Since(start)

	if err != nil {
		observeRequest(engine, statusError, elapsed)
		translationFallbacksTotal.WithLabelValues(engine, targetLang).Inc()
		c.logger.WithError(err).WithFields(logrus.Fields{
			"engine":      engine,
			"source_lang": c.sourceLang,
			"target_lang": targetLang,
		}).Warn("Translation failed, keeping source text")
		return text
	}

	observeRequest(engine, statusSuccess, elapsed)
	if len(out) == 0 || out[0] == "" {
		translationFallbacksTotal.WithLabelValues(engine, targetLang).Inc()
		c.logger.WithFields(logrus.Fields{
			"engine":      engine,
			"target_lang": targetLang,
		}).Debug("Empty translation, keeping source text")
		return text
	}
	return out[0]
}
