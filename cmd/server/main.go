package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rail_announcer/internal/announcement"
	"rail_announcer/internal/config"
	"rail_announcer/internal/logger"
	"rail_announcer/internal/routes"
	"rail_announcer/internal/services"
	"rail_announcer/internal/speech"
	"rail_announcer/internal/store"
	"rail_announcer/internal/translate"
)

func main() {
	configFile := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	// Initialize structured logging to file
	log, accessLog := logger.Setup(cfg.Logging)
	gin.DefaultWriter = accessLog
	gin.SetMode(gin.ReleaseMode)
	cfg.WatchLogging(func(lc config.LoggingConfig) {
		logger.SetLevel(log, lc.Level)
		log.WithField("level", lc.Level).Info("Log level reloaded")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database
	db, err := config.OpenDatabase(cfg.Database, logger.NewGormLogger(log))
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}
	st := store.New(db, store.NewFiles(cfg.Storage.AudioDir, cfg.Storage.PublicPrefix), log)

	orchestrator, err := newOrchestrator(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up translation")
	}
	synth, pacer, err := newSpeech(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up speech synthesis")
	}

	var sequencer announcement.VideoSequencer
	if cfg.Video.SequencerURL != "" {
		sequencer = announcement.NewHTTPSequencer(cfg.Video.SequencerURL, cfg.Video.Timeout)
	}

	r := routes.SetupRouter(routes.Deps{
		Store:        st,
		Translations: services.NewTranslationService(st, orchestrator, cfg.Languages, log),
		Audio:        services.NewAudioService(st, synth, pacer, cfg.Languages, log),
		Templates:    services.NewTemplateService(st, orchestrator, synth, pacer, cfg.Languages, log),
		Assembler:    announcement.NewAssembler(st, sequencer, cfg.Languages, log),
		JWTSecret:    []byte(cfg.Server.JWTSecret),
		CORSOrigins:  cfg.Server.CORSOrigins,
		VideoDir:     cfg.Video.DatasetDir,
		VideoPrefix:  cfg.Video.PublicPrefix,
		AccessLog:    accessLog,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newOrchestrator(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*translate.Orchestrator, error) {
	engine, err := translate.ParseEngineType(cfg.Translation.Engine)
	if err != nil {
		return nil, err
	}
	backend, err := translate.NewBackend(ctx, translate.Config{
		Engine:      engine,
		BaseURL:     cfg.Translation.BaseURL,
		Timeout:     cfg.Translation.Timeout,
		ProjectID:   cfg.Translation.ProjectID,
		Location:    cfg.Translation.Location,
		AccessToken: cfg.Translation.AccessToken,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	client := translate.NewClient(backend, cfg.SourceLanguage, log)
	return translate.NewOrchestrator(client, cfg.SourceLanguage, cfg.Translation.MaxConcurrency, log), nil
}

func newSpeech(cfg *config.Config, log *logrus.Logger) (*speech.Synthesizer, speech.Pacer, error) {
	engineType, err := speech.ParseEngineType(cfg.Speech.Engine)
	if err != nil {
		return nil, nil, err
	}
	engine, err := speech.NewEngine(speech.Config{
		Engine:  engineType,
		BaseURL: cfg.Speech.BaseURL,
		APIKey:  cfg.Speech.APIKey,
		Model:   cfg.Speech.Model,
		Voice:   cfg.Speech.Voice,
		Timeout: cfg.Speech.Timeout,
		Logger:  log,
	})
	if err != nil {
		return nil, nil, err
	}
	return speech.NewSynthesizer(engine, cfg.Languages, log), speech.NewIntervalPacer(cfg.Speech.PacingInterval), nil
}
