package server

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/openai/openai-go/v3"
	"github.com/segmentio/ksuid"

	"fable/pkg/schema"
	"fable/pkg/utils"
)

type pageReq struct {
	URL     string `json:"url"`
	VoiceID string `json:"voiceId"`
}

// POST /api/flashcards
func (s *Server) handlePostFlashcards(c echo.Context) error {
	var req pageReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if !validURL(req.URL) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid url")
	}
	if s.Extractor == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "page extraction is not configured")
	}

	ctx := c.Request().Context()
	page, err := s.Extractor.Extract(ctx, req.URL)
	if err != nil {
		log.Error("page extraction failed", "url", req.URL, "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed extracting page content"))
	}

	// Long pages are chunked so each request stays within context; the card
	// sets are concatenated.
	var cards []schema.Flashcard
	chunks := utils.ChunkText(page.RawContent, 8192*4)
	for i, chunk := range chunks {
		user := fmt.Sprintf("Convert the following text into flashcards. Each flashcard should be in the format:\nfront: <question or prompt>\nback: <answer or explanation>\nReturn as a JSON array of objects with 'front' and 'back' keys.\n\nText:\n%s", chunk)
		params := &openai.ChatCompletionNewParams{
			Temperature:    openai.Float(0.7),
			ResponseFormat: schema.FlashcardsResponseFormat(),
		}
		raw, err := s.Inferencer.Infer(ctx, params, "You are a flashcard author.", user)
		if err != nil {
			log.Error("flashcard generation failed", "url", req.URL, "chunk", i+1, "error", err)
			if len(cards) > 0 {
				break
			}
			return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed generating flashcards"))
		}
		cards = append(cards, parseFlashcards(raw)...)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"content":    page.RawContent,
		"flashcards": cards,
		"metadata": map[string]any{
			"url":     cmp.Or(page.URL, req.URL),
			"favicon": page.Favicon,
			"images":  page.Images,
		},
	})
}

// parseFlashcards accepts the structured-outputs object, a bare card array,
// or falls back to one card carrying the raw text.
func parseFlashcards(raw string) []schema.Flashcard {
	cleaned := utils.CleanJSON(raw)

	var set schema.FlashcardSet
	if err := json.Unmarshal([]byte(cleaned), &set); err == nil && len(set.Flashcards) > 0 {
		return set.Flashcards
	}
	var cards []schema.Flashcard
	if err := json.Unmarshal([]byte(cleaned), &cards); err == nil && len(cards) > 0 {
		return cards
	}
	if raw == "" {
		return nil
	}
	return []schema.Flashcard{{Front: "Flashcards", Back: raw}}
}

// POST /api/podcast
func (s *Server) handlePostPodcast(c echo.Context) error {
	var req pageReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if !validURL(req.URL) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid url")
	}
	if s.Extractor == nil || s.Voice == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "podcast narration is not configured")
	}

	ctx := c.Request().Context()
	page, err := s.Extractor.Extract(ctx, req.URL)
	if err != nil {
		log.Error("page extraction failed", "url", req.URL, "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed extracting page content"))
	}

	user := fmt.Sprintf("Write a friendly, engaging, and informative podcast script (about 15 seconds when read aloud) based on the following content. The script should have a short intro, a main body, and a closing.\n\nContent:\n%s", page.RawContent)
	params := &openai.ChatCompletionNewParams{Temperature: openai.Float(0.7)}
	script, err := s.Inferencer.Infer(ctx, params, "You are a podcast script writer.", user)
	if err != nil {
		log.Error("podcast script generation failed", "url", req.URL, "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed generating podcast script"))
	}
	log.Debug("podcast script generated", "url", req.URL, "script", utils.LimitStr(script, 120))

	voiceID := cmp.Or(req.VoiceID, s.VoiceID, "Rachel")
	audio, err := s.Voice.Synthesize(ctx, script, voiceID)
	if err != nil {
		log.Error("speech synthesis failed", "voice", voiceID, "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed synthesizing audio"))
	}

	if err := os.MkdirAll(s.AudioDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed preparing audio directory"))
	}
	filename := ksuid.New().String() + ".mp3"
	if err := os.WriteFile(filepath.Join(s.AudioDir, filename), audio, 0o644); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed writing audio file"))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"script":   script,
		"audioUrl": "/audio/" + filename,
	})
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
