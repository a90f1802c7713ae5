package translate

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Name() string {
	return "mock"
}

func (m *MockBackend) Translate(ctx context.Context, contents []string, sourceLang, targetLang string) ([]string, error) {
	args := m.Called(ctx, contents, sourceLang, targetLang)
	if out, ok := args.Get(0).([]string); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// --- Tests ---

func TestClient_Success(t *testing.T) {
	b := new(MockBackend)
	b.On("Translate", mock.Anything, []string{"Mumbai"}, "en", "hi").Return([]string{"मुंबई"}, nil)

	c := NewClient(b, "en", quietLogger())
	assert.Equal(t, "मुंबई", c.Translate(context.Background(), "Mumbai", "hi"))
	b.AssertExpectations(t)
}

func TestClient_FallbackOnError(t *testing.T) {
	b := new(MockBackend)
	b.On("Translate", mock.Anything, []string{"Mumbai"}, "en", "gu").Return(nil, errors.New("quota exceeded"))

	c := NewClient(b, "en", quietLogger())
	assert.Equal(t, "Mumbai", c.Translate(context.Background(), "Mumbai", "gu"))
	b.AssertExpectations(t)
}

func TestClient_FallbackOnEmptyResult(t *testing.T) {
	b := new(MockBackend)
	b.On("Translate", mock.Anything, []string{"Pune"}, "en", "mr").Return([]string{""}, nil).Once()
	b.On("Translate", mock.Anything, []string{"Pune"}, "en", "hi").Return([]string{}, nil).Once()

	c := NewClient(b, "en", quietLogger())
	assert.Equal(t, "Pune", c.Translate(context.Background(), "Pune", "mr"))
	assert.Equal(t, "Pune", c.Translate(context.Background(), "Pune", "hi"))
	b.AssertExpectations(t)
}

func TestClient_SkipsSourceLanguageAndEmptyText(t *testing.T) {
	b := new(MockBackend)

	c := NewClient(b, "en", quietLogger())
	assert.Equal(t, "Mumbai", c.Translate(context.Background(), "Mumbai", "en"))
	assert.Equal(t, "", c.Translate(context.Background(), "", "hi"))

	b.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClient_FallbackIsIdempotent(t *testing.T) {
	b := new(MockBackend)
	b.On("Translate", mock.Anything, mock.Anything, "en", "hi").Return(nil, errors.New("down"))

	c := NewClient(b, "en", quietLogger())
	first := c.Translate(context.Background(), "Express", "hi")
	second := c.Translate(context.Background(), first, "hi")
	assert.Equal(t, "Express", second)
}

func TestParseEngineType(t *testing.T) {
	for in, want := range map[string]EngineType{
		"google":         EngineGoogle,
		"GCP":            EngineGoogle,
		"LibreTranslate": EngineLibreTranslate,
		"none":           EngineNone,
		"":               EngineNone,
	} {
		got, err := ParseEngineType(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseEngineType("babelfish")
	assert.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	ctx := context.Background()

	b, err := NewBackend(ctx, Config{Engine: EngineNone, Logger: quietLogger()})
	assert.NoError(t, err)
	out, err := b.Translate(ctx, []string{"a", "b"}, "en", "hi")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)

	_, err = NewBackend(ctx, Config{Engine: EngineGoogle, Logger: quietLogger()})
	assert.ErrorIs(t, err, ErrMissingProject)

	_, err = NewBackend(ctx, Config{Engine: "babelfish", Logger: quietLogger()})
	assert.Error(t, err)
}
