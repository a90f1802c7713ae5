package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultGoogleURL is the Cloud Translation API endpoint.
	DefaultGoogleURL = "https://translation.googleapis.com"
	// DefaultGoogleLocation is used when no location is configured.
	DefaultGoogleLocation = "global"

	cloudTranslationScope = "https://www.googleapis.com/auth/cloud-translation"
)

// ErrMissingProject is returned when the Google engine has no project id.
var ErrMissingProject = errors.New("google translation: project id is required")

// GoogleBackend calls the Cloud Translation v3 translateText method.
type GoogleBackend struct {
	baseURL    string
	parent     string
	httpClient *http.Client
	logger     *logrus.Logger
}

type googleRequest struct {
	Contents           []string `json:"contents"`
	MimeType           string   `json:"mimeType"`
	SourceLanguageCode string   `json:"sourceLanguageCode"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
}

type googleResponse struct {
	Translations []struct {
		TranslatedText string `json:"translatedText"`
	} `json:"translations"`
}

// NewGoogleBackend builds an authenticated client. A static access token
// takes precedence over Application Default Credentials.
func NewGoogleBackend(ctx context.Context, cfg Config) (*GoogleBackend, error) {
	if cfg.ProjectID == "" {
		return nil, ErrMissingProject
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoogleURL
	}
	if cfg.Location == "" {
		cfg.Location = DefaultGoogleLocation
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var httpClient *http.Client
	if cfg.AccessToken != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		}))
	} else {
		c, err := google.DefaultClient(ctx, cloudTranslationScope)
		if err != nil {
			return nil, fmt.Errorf("google translation credentials: %w", err)
		}
		httpClient = c
	}
	httpClient.Timeout = cfg.Timeout

	return &GoogleBackend{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		parent:     fmt.Sprintf("projects/%s/locations/%s", cfg.ProjectID, cfg.Location),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

func (g *GoogleBackend) Name() string { return string(EngineGoogle) }

// Translate sends every string of contents in one request.
func (g *GoogleBackend) Translate(ctx context.Context, contents []string, sourceLang, targetLang string) ([]string, error) {
	body, err := json.Marshal(googleRequest{
		Contents:           contents,
		MimeType:           "text/plain",
		SourceLanguageCode: sourceLang,
		TargetLanguageCode: targetLang,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v3/%s:translateText", g.baseURL, g.parent)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	g.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"target_lang": targetLang,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Google translation request completed")

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var gr googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([]string, len(gr.Translations))
	for i, t := range gr.Translations {
		out[i] = t.TranslatedText
	}
	return out, nil
}
