package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"fable/pkg/utils"
)

type translateReq struct {
	Content      json.RawMessage `json:"content"`
	SourceLocale string          `json:"sourceLocale"`
	TargetLocale string          `json:"targetLocale"`
}

// POST /api/translate
//
// Pure passthrough to the localization engine; the payload structure is
// whatever the client sent.
func (s *Server) handlePostTranslate(c echo.Context) error {
	var req translateReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if len(req.Content) == 0 || req.TargetLocale == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content and targetLocale are required")
	}
	if req.SourceLocale == "" {
		req.SourceLocale = "en"
	}
	if s.Translator == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "translation is not configured")
	}

	translated, err := s.Translator.Localize(c.Request().Context(), req.Content, req.SourceLocale, req.TargetLocale)
	if err != nil {
		log.Error("translation failed", "target", req.TargetLocale, "error", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("Translation failed"))
	}
	return c.JSON(http.StatusOK, map[string]any{"translated": translated})
}
