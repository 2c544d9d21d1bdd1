package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/camera"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/config"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/engine"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/frames"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/llm"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/logger"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/prompt"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/server"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/session"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/speech"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/storage"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcribe"
	"github.com/Pedro-Fischer/Projeto-Multimidia/internal/transcript"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	logger.SetDebug(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	for _, dir := range []string{cfg.Paths.FramesDir, cfg.Paths.StaticDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("failed to create artifact dir", "dir", dir, "error", err)
		}
	}

	model, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		logger.Fatal("failed to create llm", "error", err)
	}

	device := camera.NewMJPEGDevice(cfg.Camera.StreamURLs)
	cam := camera.NewAdapter(device, cfg.Camera.Primary, cfg.Camera.Fallback)

	store := frames.NewStore(cfg.Paths.ProcessingImage, cfg.Paths.DisplayImage)

	synth := speech.NewSynthesizer(speech.Config{
		BaseURL:    cfg.Speech.BaseURL,
		APIKey:     cfg.Speech.APIKey,
		Model:      cfg.Speech.Model,
		Voice:      cfg.Speech.Voice,
		Speed:      cfg.Speech.Speed,
		OutputPath: cfg.Paths.AnswerAudio,
	})

	if cfg.Storage.Enabled {
		mirror, err := storage.NewClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to create storage client", "error", err)
		}
		if err := mirror.Init(context.Background()); err != nil {
			logger.Fatal("failed to init storage", "error", err)
		}
		store.SetMirror(mirror)
		synth.SetMirror(mirror)
		logger.Info("artifact mirroring enabled", "endpoint", cfg.Storage.Endpoint)
	}

	transcriber := transcribe.NewClient(transcribe.Config{
		BaseURL:  cfg.Transcriber.BaseURL,
		APIKey:   cfg.Transcriber.APIKey,
		Model:    cfg.Transcriber.Model,
		Language: cfg.Transcriber.Language,
		BeamSize: cfg.Transcriber.BeamSize,
	})

	conversation := transcript.NewLog()
	composer := prompt.NewComposer(cfg.PersonaPath)
	responder := engine.New(model, conversation)

	controller := session.NewController(
		cam,
		store,
		transcriber,
		composer,
		responder,
		synth,
		conversation,
		cfg.Paths.AudioScratch,
	)

	srv := server.New(controller)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Router(cfg.AllowedOrigins, cfg.Paths.StaticDir),
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr, "provider", cfg.LLM.Provider)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	controller.Deactivate()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
