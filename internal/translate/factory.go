package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// EngineType represents the type of translation engine to use.
type EngineType string

const (
	// EngineGoogle uses Google Cloud Translation v3.
	EngineGoogle EngineType = "google"
	// EngineLibreTranslate uses a LibreTranslate server.
	EngineLibreTranslate EngineType = "libretranslate"
	// EngineNone returns input unchanged.
	EngineNone EngineType = "none"
)

// DefaultTimeout bounds a single engine request.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for creating a Backend.
type Config struct {
	Engine  EngineType
	BaseURL string
	Timeout time.Duration

	// Google only.
	ProjectID   string
	Location    string
	AccessToken string // static bearer token; Application Default Credentials when empty

	Logger *logrus.Logger
}

// NewBackend creates the engine named by cfg.Engine.
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	cfg.Logger.WithFields(logrus.Fields{
		"engine":   cfg.Engine,
		"base_url": cfg.BaseURL,
	}).Info("Creating translation backend")

	switch cfg.Engine {
	case EngineGoogle:
		return NewGoogleBackend(ctx, cfg)
	case EngineLibreTranslate:
		return NewLibreTranslateBackend(cfg.BaseURL, cfg.Timeout, cfg.Logger), nil
	case EngineNone:
		return PassThrough{}, nil
	default:
		return nil, fmt.Errorf("unknown translation engine: %s", cfg.Engine)
	}
}

// ParseEngineType parses a string into an EngineType.
func ParseEngineType(s string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google", "gcp":
		return EngineGoogle, nil
	case "libretranslate":
		return EngineLibreTranslate, nil
	case "none", "":
		return EngineNone, nil
	default:
		return "", fmt.Errorf("unknown engine type: %s (supported: google, libretranslate, none)", s)
	}
}

// PassThrough is a Backend that echoes its input.
type PassThrough struct{}

func (PassThrough) Name() string { return string(EngineNone) }

func (PassThrough) Translate(_ context.Context, contents []string, _, _ string) ([]string, error) {
	out := make([]string, len(contents))
	copy(out, contents)
	return out, nil
}
