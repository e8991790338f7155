package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"fable/pkg/ambient"
	"fable/pkg/billing"
	"fable/pkg/config"
	"fable/pkg/credits"
	"fable/pkg/extract"
	"fable/pkg/inference"
	"fable/pkg/server"
	"fable/pkg/store"
	"fable/pkg/story"
	"fable/pkg/translate"
	"fable/pkg/voice"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	openAI := inference.NewOpenAIInferencer(cfg.OpenAIKey, cfg.OpenAIModel)
	switch {
	case cfg.OpenAIBaseURL != "":
		openAI.ChangeBaseURL(cfg.OpenAIBaseURL)
	case cfg.OpenAIKey == "":
		// No key: talk to a local OpenAI-compatible server instead.
		openAI.ChangeBaseURL("http://localhost:1234/v1")
		openAI.SetModel("")
	}
	var inf inference.Inferencer = openAI

	if cfg.GeminiKey != "" {
		gemini, err := inference.NewGeminiInferencer(cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal("failed creating gemini client", "error", err)
		}
		inf = gemini
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "fable.json"))
	if err != nil {
		log.Fatal("failed opening store", "dir", cfg.DataDir, "error", err)
	}
	counter := credits.NewCounter(st.Usage(), st)

	engine := story.NewEngine(inf, counter,
		story.WithSaver(st),
		story.WithTimeout(cfg.StreamTimeout),
		story.WithTokenBudget(cfg.ContextTokenBudget),
	)

	srv := server.NewServer(inf, engine, st, counter)
	srv.Echo.Logger.SetLevel(gommon.INFO)
	srv.Detector = ambient.NewDetector(cfg.OpenWeatherKey)
	srv.VoiceID = cfg.VoiceID
	srv.AudioDir = filepath.Join(cfg.DataDir, cfg.AudioDir)
	if cfg.TavilyKey != "" {
		srv.Extractor = extract.NewClient(cfg.TavilyKey)
	}
	if cfg.ElevenLabsKey != "" {
		srv.Voice = voice.NewClient(cfg.ElevenLabsKey)
	}
	if cfg.TranslateKey != "" {
		srv.Translator = translate.NewClient(cfg.TranslateKey)
	}
	if cfg.BillingKey != "" {
		srv.Billing = billing.NewClient(cfg.BillingKey)
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
	<-finishedShutDown
}
