package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLibreTranslateURL is the default base URL for LibreTranslate API.
const DefaultLibreTranslateURL = "http://localhost:5000"

// LibreTranslateBackend talks to a self-hosted LibreTranslate server.
type LibreTranslateBackend struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewLibreTranslateBackend creates a new LibreTranslate client.
func NewLibreTranslateBackend(baseURL string, timeout time.Duration, logger *logrus.Logger) *LibreTranslateBackend {
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LibreTranslateBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// libreRequest sends q as an array so several strings share one call.
type libreRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

// libreResponse.TranslatedText is a string for a single q and an array otherwise.
type libreResponse struct {
	TranslatedText json.RawMessage `json:"translatedText"`
}

func (c *LibreTranslateBackend) Name() string { return string(EngineLibreTranslate) }

func (c *LibreTranslateBackend) Translate(ctx context.Context, contents []string, sourceLang, targetLang string) ([]string, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(libreRequest{
		Q:      contents,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	}); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("LibreTranslate request completed")

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var lr libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var many []string
	if err := json.Unmarshal(lr.TranslatedText, &many); err == nil {
		return many, nil
	}
	var one string
	if err := json.Unmarshal(lr.TranslatedText, &one); err != nil {
		return nil, fmt.Errorf("decode translatedText: %w", err)
	}
	return []string{one}, nil
}
