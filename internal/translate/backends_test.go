package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBackend_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/projects/rail-demo/locations/global:translateText", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req googleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text/plain", req.MimeType)
		assert.Equal(t, "en", req.SourceLanguageCode)
		assert.Equal(t, "hi", req.TargetLanguageCode)

		resp := map[string]any{"translations": []map[string]string{}}
		list := resp["translations"].([]map[string]string)
		for _, c := range req.Contents {
			list = append(list, map[string]string{"translatedText": strings.ToUpper(c)})
		}
		resp["translations"] = list
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	b, err := NewGoogleBackend(context.Background(), Config{
		BaseURL:     srv.URL,
		ProjectID:   "rail-demo",
		AccessToken: "test-token",
		Logger:      quietLogger(),
	})
	require.NoError(t, err)

	out, err := b.Translate(context.Background(), []string{"platform", "train"}, "en", "hi")
	require.NoError(t, err)
	assert.Equal(t, []string{"PLATFORM", "TRAIN"}, out)
}

func TestGoogleBackend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b, err := NewGoogleBackend(context.Background(), Config{
		BaseURL:     srv.URL,
		ProjectID:   "rail-demo",
		AccessToken: "test-token",
		Logger:      quietLogger(),
	})
	require.NoError(t, err)

	_, err = b.Translate(context.Background(), []string{"platform"}, "en", "hi")
	assert.ErrorContains(t, err, "429")

	// The adapter turns the failure into the source text.
	c := NewClient(b, "en", quietLogger())
	assert.Equal(t, "platform", c.Translate(context.Background(), "platform", "hi"))
}

func TestLibreTranslateBackend_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)

		var req libreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text", req.Format)
		assert.Equal(t, "mr", req.Target)

		if len(req.Q) == 1 {
			_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "[" + req.Q[0] + "]"})
			return
		}
		out := make([]string, len(req.Q))
		for i, q := range req.Q {
			out[i] = "[" + q + "]"
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"translatedText": out})
	}))
	defer srv.Close()

	b := NewLibreTranslateBackend(srv.URL, 0, quietLogger())

	out, err := b.Translate(context.Background(), []string{"Pune"}, "en", "mr")
	require.NoError(t, err)
	assert.Equal(t, []string{"[Pune]"}, out)

	out, err = b.Translate(context.Background(), []string{"Pune", "Nagpur"}, "en", "mr")
	require.NoError(t, err)
	assert.Equal(t, []string{"[Pune]", "[Nagpur]"}, out)
}

func TestLibreTranslateBackend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	b := NewLibreTranslateBackend(url, 0, quietLogger())
	_, err := b.Translate(context.Background(), []string{"Pune"}, "en", "mr")
	assert.Error(t, err)
}
