package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/openai/openai-go/v3"

	"fable/pkg/locale"
)

// definitionUnavailable is returned when every lookup path fails; the reader
// still gets a rendered card.
const definitionUnavailable = "Definition not available"

type definitionKey struct {
	Word   string
	Locale string
}

type wordDefinitionReq struct {
	Word   string `json:"word"`
	Locale string `json:"locale"`
}

// POST /api/word-definition
func (s *Server) handlePostWordDefinition(c echo.Context) error {
	var req wordDefinitionReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	req.Word = strings.TrimSpace(req.Word)
	if req.Word == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "word is required")
	}

	key := definitionKey{Word: strings.ToLower(req.Word), Locale: locale.Normalize(req.Locale)}
	definition, err := s.definitions.Get(key)
	if err != nil {
		log.Warn("definition lookup failed", "word", key.Word, "locale", key.Locale, "error", err)
		return c.JSON(http.StatusOK, map[string]string{"definition": definitionUnavailable})
	}

	if err := s.Store.RecordWord(req.Word, definition, key.Locale); err != nil {
		log.Warn("failed recording word lookup", "word", req.Word, "error", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"definition": definition})
}

// GET /api/words
func (s *Server) handleGetWords(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"words": s.Store.Words(),
	})
}

// lookupDefinition is the flight-cache work function; concurrent lookups for
// the same word+locale share one inference call.
func (s *Server) lookupDefinition(k definitionKey) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	language := locale.Language(k.Locale)
	system := fmt.Sprintf("You are a helpful dictionary assistant. Provide clear, concise definitions for words in %s. Include the part of speech and a simple example if helpful. Keep responses under 100 words.", language)
	user := fmt.Sprintf("Define the word %q in %s in a clear, simple way.", k.Word, language)

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(150),
		Temperature:         openai.Float(0.3),
	}
	definition, err := s.Inferencer.Infer(ctx, params, system, user)
	if err != nil {
		return "", err
	}
	if definition = strings.TrimSpace(definition); definition == "" {
		return definitionUnavailable, nil
	}
	return definition, nil
}
