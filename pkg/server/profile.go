package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fable/pkg/locale"
	"fable/pkg/utils"
)

// GET /api/profile
func (s *Server) handleGetProfile(c echo.Context) error {
	profile, onboarded := s.Store.Profile()
	return c.JSON(http.StatusOK, map[string]any{
		"profile":   profile,
		"onboarded": onboarded,
	})
}

// PUT /api/profile
//
// Partial updates: fields absent from the body keep their stored value.
func (s *Server) handlePutProfile(c echo.Context) error {
	profile, _ := s.Store.Profile()
	if err := c.Bind(&profile); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	profile.Locale = locale.Normalize(profile.Locale)

	if err := s.Store.SetProfile(profile); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed saving profile"))
	}
	return c.JSON(http.StatusOK, profile)
}

// POST /api/reset
//
// Wipes everything: profile, usage counter including the one-shot pro grant,
// saved stories, word history, customer identity, and all live sessions.
func (s *Server) handlePostReset(c echo.Context) error {
	s.Sessions.Clear()
	if err := s.Store.Reset(); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed resetting store"))
	}
	if err := s.Counter.Reset(); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed resetting credits"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
