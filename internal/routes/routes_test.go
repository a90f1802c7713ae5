package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rail_announcer/internal/announcement"
	"rail_announcer/internal/middleware"
	"rail_announcer/internal/models"
	"rail_announcer/internal/services"
	"rail_announcer/internal/speech"
	"rail_announcer/internal/store"
	"rail_announcer/internal/translate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLanguages = []models.Language{
	{Code: "en", Locale: "en-IN"},
	{Code: "hi", Locale: "hi-IN", DigitSpelled: true},
}

type upper struct{}

func (upper) Translate(_ context.Context, text, lang string) string {
	if lang == "en" {
		return text
	}
	return strings.ToUpper(text)
}

type echoSynth struct{}

func (echoSynth) Synthesize(_ context.Context, text, _ string) []byte {
	if text == "" {
		return nil
	}
	return speech.EncodeWAV([]byte(text), speech.DefaultFormat)
}

type testServer struct {
	engine *gin.Engine
	dir    string
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "api.db")+"?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	st := store.New(db, store.NewFiles(filepath.Join(dir, "audio"), "/audio"), log)
	orch := translate.NewOrchestrator(upper{}, "en", 4, log)
	videoDir := filepath.Join(dir, "isl")

	engine := SetupRouter(Deps{
		Store:        st,
		Translations: services.NewTranslationService(st, orch, testLanguages, log),
		Audio:        services.NewAudioService(st, echoSynth{}, speech.NoPacer{}, testLanguages, log),
		Templates:    services.NewTemplateService(st, orch, echoSynth{}, speech.NoPacer{}, testLanguages, log),
		Assembler:    announcement.NewAssembler(st, nil, testLanguages, log),
		JWTSecret:    []byte(secret),
		VideoDir:     videoDir,
		VideoPrefix:  "/isl",
		AccessLog:    io.Discard,
	})
	return &testServer{engine: engine, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var sampleRoute = map[string]string{
	"train_number":  "12127",
	"train_name":    "Intercity Express",
	"start_station": "Pune",
	"start_code":    "PUNE",
	"end_station":   "Mumbai",
	"end_code":      "CSMT",
}

func TestHealthzAndRequestID(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouteEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodPost, "/routes", "", sampleRoute)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Route](t, w)
	require.NotZero(t, created.ID)

	w = s.do(t, http.MethodGet, "/routes/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/routes/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[map[string]string](t, w), "error")

	w = s.do(t, http.MethodPost, "/routes", "", map[string]string{"train_number": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/routes", "", []map[string]string{sampleRoute, sampleRoute})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/routes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Route](t, w), 2)

	w = s.do(t, http.MethodDelete, "/routes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/routes", "", nil)
	assert.Empty(t, decode[[]models.Route](t, w))
}

func TestAnnouncementFlow(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodPost, "/routes", "", sampleRoute)
	require.Equal(t, http.StatusCreated, w.Code)
	route := decode[models.Route](t, w)
	base := "/routes/" + jsonID(route.ID)

	// Audio before translation is a conflict.
	w = s.do(t, http.MethodPost, base+"/audio", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, base+"/translations", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[[]models.Translation](t, w), len(testLanguages))

	w = s.do(t, http.MethodGet, base+"/translations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]models.Translation](t, w)
	require.Len(t, rows, 2)

	w = s.do(t, http.MethodPost, base+"/audio", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, base+"/audio", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assets := decode[[]models.AudioAsset](t, w)
	require.Len(t, assets, 2)
	require.NotNil(t, assets[0].TrainNamePath)

	// Stored clips are served statically.
	w = s.do(t, http.MethodGet, *assets[0].TrainNamePath, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("RIFF")))

	w = s.do(t, http.MethodPut, "/templates/Arriving", "", map[string]string{
		"template": "Train {train_name} to {end_station} is arriving.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/templates/Arriving", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.AnnouncementTemplate](t, w), 2)

	w = s.do(t, http.MethodPost, "/templates/Arriving/audio", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/announcements", "", map[string]any{
		"route_id": route.ID,
		"category": "Arriving",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	anns := decode[[]announcement.Announcement](t, w)
	require.Len(t, anns, 2)
	assert.Equal(t, "en", anns[0].LanguageCode)
	assert.Equal(t, "Train Intercity Express to Mumbai is arriving.", anns[0].Text)
	// Three literal parts plus two field clips.
	assert.Len(t, anns[0].Audio, 5)
	assert.Contains(t, anns[1].Text, "MUMBAI")

	w = s.do(t, http.MethodPost, "/announcements", "", map[string]any{
		"route_id":  route.ID,
		"category":  "Arriving",
		"languages": []string{"xx"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/announcements", "", map[string]any{
		"route_id": route.ID,
		"category": "Delay",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, base, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, base+"/audio", "", nil)
	assert.Empty(t, decode[[]models.AudioAsset](t, w))
}

func TestBulkTranslationAndAudioEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/routes", "", sampleRoute).Code)

	w := s.do(t, http.MethodPost, "/translations", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sum := decode[services.RegenerateSummary](t, w)
	assert.Equal(t, 1, sum.Translated)

	w = s.do(t, http.MethodGet, "/translations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	grouped := decode[[]models.Route](t, w)
	require.Len(t, grouped, 1)
	assert.Len(t, grouped[0].Translations, 2)

	w = s.do(t, http.MethodDelete, "/translations", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/translations", "", nil)
	assert.Empty(t, decode[[]models.Route](t, w))

	w = s.do(t, http.MethodDelete, "/audio-assets", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/audio-assets", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTemplateImport(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodPost, "/templates/import", "", `{"Arriving": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/templates/import", "", "Arriving: Train {train_name} arriving\n"+
		"Delay: Train {train_name} is late\n"+
		"Cancelled: Train {train_name} is cancelled\n"+
		"Platform_Change: Train {train_name} now on platform {platform}\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/templates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.AnnouncementTemplate](t, w), 8)

	w = s.do(t, http.MethodDelete, "/templates/Delay", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/templates/Delay", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/templates/bad%20name", "", map[string]string{"template": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthGuards(t *testing.T) {
	secret := "test-secret"
	s := newTestServer(t, secret)

	user, err := middleware.GenerateToken([]byte(secret), "operator", "user", time.Hour)
	require.NoError(t, err)
	admin, err := middleware.GenerateToken([]byte(secret), "root", "admin", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/routes", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/routes", "", sampleRoute).Code)
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/routes", user, sampleRoute).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, "/routes", user, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/routes", admin, nil).Code)
}

func TestListVideos(t *testing.T) {
	s := newTestServer(t, "")

	w := s.do(t, http.MethodGet, "/isl-videos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]string](t, w))

	dir := filepath.Join(s.dir, "isl", "words")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "train.mp4"), []byte("x"), 0o644))

	w = s.do(t, http.MethodGet, "/isl-videos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/isl/words/train.mp4"}, decode[[]string](t, w))
}

func jsonID(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
