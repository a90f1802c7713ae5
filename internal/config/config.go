// Package config loads the announcer configuration from defaults, an
// optional YAML file, a .env file and ANNOUNCER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"rail_announcer/internal/models"
	"rail_announcer/internal/numeral"
)

// Config is the root configuration.
type Config struct {
	Server         ServerConfig      `mapstructure:"server"`
	Database       DatabaseConfig    `mapstructure:"database"`
	Storage        StorageConfig     `mapstructure:"storage"`
	SourceLanguage string            `mapstructure:"source_language"`
	Languages      []models.Language `mapstructure:"languages"`
	Translation    TranslationConfig `mapstructure:"translation"`
	Speech         SpeechConfig      `mapstructure:"speech"`
	Video          VideoConfig       `mapstructure:"video"`
	Logging        LoggingConfig     `mapstructure:"logging"`

	v  *viper.Viper
	mu sync.Mutex
}

type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	JWTSecret   string   `mapstructure:"jwt_secret"` // empty disables auth
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig selects postgres or sqlite. For postgres a DSN takes
// precedence over the individual fields.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres, sqlite
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
}

type StorageConfig struct {
	AudioDir     string `mapstructure:"audio_dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
}

type TranslationConfig struct {
	Engine         string        `mapstructure:"engine"` // google, libretranslate, none
	BaseURL        string        `mapstructure:"base_url"`
	ProjectID      string        `mapstructure:"project_id"`
	Location       string        `mapstructure:"location"`
	AccessToken    string        `mapstructure:"access_token"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

type SpeechConfig struct {
	Engine         string        `mapstructure:"engine"` // gemini, none
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Voice          string        `mapstructure:"voice"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PacingInterval time.Duration `mapstructure:"pacing_interval"`
}

type VideoConfig struct {
	SequencerURL string        `mapstructure:"sequencer_url"` // empty disables sequencing
	Timeout      time.Duration `mapstructure:"timeout"`
	DatasetDir   string        `mapstructure:"dataset_dir"`
	PublicPrefix string        `mapstructure:"public_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	File   string `mapstructure:"file"`   // rotated log file, empty for stdout only
	Format string `mapstructure:"format"` // text, json
}

// DefaultLanguages is English plus the digit-spelled Indic languages.
var DefaultLanguages = []models.Language{
	{Code: "en", Locale: "en-IN"},
	{Code: "hi", Locale: "hi-IN", DigitSpelled: true},
	{Code: "mr", Locale: "mr-IN", DigitSpelled: true},
	{Code: "gu", Locale: "gu-IN", DigitSpelled: true},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "announcer")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")

	v.SetDefault("storage.audio_dir", "./public/audio")
	v.SetDefault("storage.public_prefix", "/audio")

	v.SetDefault("source_language", "en")
	langs := make([]map[string]any, len(DefaultLanguages))
	for i, l := range DefaultLanguages {
		langs[i] = map[string]any{"code": l.Code, "locale": l.Locale, "digit_spelled": l.DigitSpelled}
	}
	v.SetDefault("languages", langs)

	v.SetDefault("translation.engine", "none")
	v.SetDefault("translation.base_url", "")
	v.SetDefault("translation.project_id", "")
	v.SetDefault("translation.location", "global")
	v.SetDefault("translation.access_token", "")
	v.SetDefault("translation.timeout", "30s")
	v.SetDefault("translation.max_concurrency", 8)

	v.SetDefault("speech.engine", "none")
	v.SetDefault("speech.base_url", "")
	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("speech.voice", "Achernar")
	v.SetDefault("speech.timeout", "60s")
	v.SetDefault("speech.pacing_interval", "2s")

	v.SetDefault("video.sequencer_url", "")
	v.SetDefault("video.timeout", "10s")
	v.SetDefault("video.dataset_dir", "./public/isl_dataset")
	v.SetDefault("video.public_prefix", "/isl_dataset")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "./logs/app.log")
	v.SetDefault("logging.format", "text")
}

// Load reads the configuration. If configFile is non-empty it is used
// directly; otherwise ./announcer.yaml, ./configs/announcer.yaml and
// /etc/announcer/announcer.yaml are searched.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("announcer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/announcer")
	}

	// ANNOUNCER_DATABASE_DRIVER, ANNOUNCER_SPEECH_API_KEY, etc.
	v.SetEnvPrefix("ANNOUNCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		logrus.Info("No config file found, using defaults and environment variables")
	} else {
		logrus.WithField("path", v.ConfigFileUsed()).Info("Loaded config file")
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.resolveSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveSecrets() {
	c.Server.JWTSecret = resolveEnvRef(c.Server.JWTSecret)
	c.Database.DSN = resolveEnvRef(c.Database.DSN)
	c.Database.Password = resolveEnvRef(c.Database.Password)
	c.Translation.AccessToken = resolveEnvRef(c.Translation.AccessToken)
	c.Translation.ProjectID = resolveEnvRef(c.Translation.ProjectID)
	c.Speech.APIKey = resolveEnvRef(c.Speech.APIKey)
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
// A reference to an unset variable is kept so Validate can report it.
func resolveEnvRef(val string) string {
	if isEnvRef(val) {
		if envVal := os.Getenv(val[2 : len(val)-1]); envVal != "" {
			return envVal
		}
	}
	return val
}

func isEnvRef(val string) bool {
	return len(val) > 3 && strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}")
}

// unresolvedSecrets lists secret keys whose ${VAR} reference found no value.
func (c *Config) unresolvedSecrets() []error {
	secrets := []struct{ key, val string }{
		{"server.jwt_secret", c.Server.JWTSecret},
		{"database.dsn", c.Database.DSN},
		{"database.password", c.Database.Password},
		{"translation.access_token", c.Translation.AccessToken},
		{"translation.project_id", c.Translation.ProjectID},
		{"speech.api_key", c.Speech.APIKey},
	}
	var errs []error
	for _, s := range secrets {
		if isEnvRef(s.val) {
			errs = append(errs, fmt.Errorf("%s: environment variable %s is not set", s.key, s.val[2:len(s.val)-1]))
		}
	}
	return errs
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("languages: at least one language is required"))
	}
	seen := make(map[string]bool, len(c.Languages))
	for _, l := range c.Languages {
		switch {
		case l.Code == "":
			errs = append(errs, errors.New("languages: code is required"))
		case seen[l.Code]:
			errs = append(errs, fmt.Errorf("languages: duplicate code %q", l.Code))
		case l.DigitSpelled && !numeral.Supports(l.Code):
			errs = append(errs, fmt.Errorf("languages: no digit words for %q", l.Code))
		}
		seen[l.Code] = true
	}
	if c.SourceLanguage == "" {
		errs = append(errs, errors.New("source_language is required"))
	} else if _, ok := models.FindLanguage(c.Languages, c.SourceLanguage); !ok {
		errs = append(errs, fmt.Errorf("source_language %q is not in languages", c.SourceLanguage))
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: %d out of range", c.Server.Port))
	}
	if c.Translation.MaxConcurrency < 0 {
		errs = append(errs, errors.New("translation.max_concurrency must not be negative"))
	}
	errs = append(errs, c.unresolvedSecrets()...)

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WatchLogging calls fn with the new logging section whenever the config
// file changes. Nothing happens when no file was loaded.
func (c *Config) WatchLogging(fn func(LoggingConfig)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		c.mu.Lock()
		defer c.mu.Unlock()

		var lc LoggingConfig
		if err := c.v.UnmarshalKey("logging", &lc); err != nil {
			logrus.WithError(err).WithField("file", e.Name).Warn("Ignoring unreadable config change")
			return
		}
		c.Logging = lc
		fn(lc)
	})
	c.v.WatchConfig()
}
