package speech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// EngineType represents the type of speech engine to use.
type EngineType string

const (
	// EngineGemini uses the Gemini TTS models.
	EngineGemini EngineType = "gemini"
	// EngineNone never produces audio.
	EngineNone EngineType = "none"
)

// DefaultTimeout bounds a single synthesis request.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for creating an Engine.
type Config struct {
	Engine  EngineType
	BaseURL string
	APIKey  string
	Model   string
	Voice   string
	Timeout time.Duration
	Logger  *logrus.Logger
}

// NewEngine creates the engine named by cfg.Engine.
func NewEngine(cfg Config) (Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	cfg.Logger.WithFields(logrus.Fields{
		"engine": cfg.Engine,
		"model":  cfg.Model,
	}).Info("Creating speech engine")

	switch cfg.Engine {
	case EngineGemini:
		return NewGeminiEngine(cfg)
	case EngineNone:
		return Silent{}, nil
	default:
		return nil, fmt.Errorf("unknown speech engine: %s", cfg.Engine)
	}
}

// ParseEngineType parses a string into an EngineType.
func ParseEngineType(s string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini", "googleai":
		return EngineGemini, nil
	case "none", "":
		return EngineNone, nil
	default:
		return "", fmt.Errorf("unknown engine type: %s (supported: gemini, none)", s)
	}
}

// Silent is an Engine that never returns audio.
type Silent struct{}

func (Silent) Name() string { return string(EngineNone) }

func (Silent) Synthesize(context.Context, string, Options) (*Audio, error) { return nil, nil }
