// Package speech turns announcement text into WAV clips through a remote
// text-to-speech engine.
//
// Engines return raw PCM. The Synthesizer wraps it in a WAV container and
// hides every engine failure behind a nil result, so callers only ever see
// audio or its absence.
package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"rail_announcer/internal/models"
)

// Format describes raw PCM samples.
type Format struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
}

// DefaultFormat is mono 24 kHz 16-bit little-endian PCM.
var DefaultFormat = Format{SampleRate: 24000, Channels: 1, BytesPerSample: 2}

// Options selects the voice for one request.
type Options struct {
	// Language is the ISO 639-1 code, e.g. "hi".
	Language string
	// Locale is the speech locale, e.g. "hi-IN".
	Locale string
}

// Audio is raw engine output.
type Audio struct {
	PCM    []byte
	Format Format
}

// Engine is a remote text-to-speech service.
type Engine interface {
	// Synthesize returns PCM for text, or nil Audio when the engine produced none.
	Synthesize(ctx context.Context, text string, opts Options) (*Audio, error)
	Name() string
}

// Synthesizer produces WAV clips for announcement text.
type Synthesizer struct {
	engine  Engine
	locales map[string]string
	logger  *logrus.Logger
}

// NewSynthesizer builds a synthesizer for the given languages. A language
// without a locale is spoken as "<code>-IN".
func NewSynthesizer(engine Engine, languages []models.Language, logger *logrus.Logger) *Synthesizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	locales := make(map[string]string, len(languages))
	for _, l := range languages {
		if l.Locale != "" {
			locales[l.Code] = l.Locale
		}
	}
	return &Synthesizer{engine: engine, locales: locales, logger: logger}
}

// Locale returns the speech locale used for lang.
func (s *Synthesizer) Locale(lang string) string {
	if loc, ok := s.locales[lang]; ok {
		return loc
	}
	if lang == "" {
		return "en-IN"
	}
	return fmt.Sprintf("%s-IN", strings.ToLower(lang))
}

// Synthesize returns a WAV clip, or nil when text is blank or the engine
// fails or returns nothing.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string) []byte {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	engine := s.engine.Name()
	start := time.Now()
	audio, err := s.engine.Synthesize(ctx, text, Options{Language: lang, Locale: s.Locale(lang)})
	elapsed := time.Since(start)

	if err != nil {
		observeSynthesis(engine, statusError, elapsed)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"engine":   engine,
			"language": lang,
			"text_len": len(text),
		}).Warn("Speech synthesis failed")
		return nil
	}
	if audio == nil || len(audio.PCM) == 0 {
		observeSynthesis(engine, statusEmpty, elapsed)
		s.logger.WithFields(logrus.Fields{
			"engine":   engine,
			"language": lang,
		}).Warn("Speech engine returned no audio")
		return nil
	}

	observeSynthesis(engine, statusSuccess, elapsed)
	wav := EncodeWAV(audio.PCM, audio.Format)
	synthesisAudioBytes.WithLabelValues(engine).Observe(float64(len(wav)))
	return wav
}
