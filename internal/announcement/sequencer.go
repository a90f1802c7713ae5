package announcement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// VideoSequencer maps announcement text to an ordered list of
// sign-language video references.
type VideoSequencer interface {
	Sequence(ctx context.Context, text, lang string) ([]string, error)
}

// NoSequencer returns no videos.
type NoSequencer struct{}

func (NoSequencer) Sequence(context.Context, string, string) ([]string, error) { return nil, nil }

// HTTPSequencer asks a remote service for the playlist.
//
//	POST {url}  {"text": "...", "language": "hi"}
//	200         {"videos": ["/isl_dataset/train.mp4", ...]}
type HTTPSequencer struct {
	url        string
	httpClient *http.Client
}

func NewHTTPSequencer(url string, timeout time.Duration) *HTTPSequencer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSequencer{url: url, httpClient: &http.Client{Timeout: timeout}}
}

type sequenceRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type sequenceResponse struct {
	Videos []string `json:"videos"`
}

func (s *HTTPSequencer) Sequence(ctx context.Context, text, lang string) ([]string, error) {
	body, err := json.Marshal(sequenceRequest{Text: text, Language: lang})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var sr sequenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return sr.Videos, nil
}

// ListVideos returns the public references of every .mp4 under dir,
// sorted. A missing dir yields an empty list.
func ListVideos(dir, publicPrefix string) ([]string, error) {
	out := []string{}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return out, nil
	}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".mp4") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out = append(out, path.Join("/", publicPrefix, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
