package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fable/pkg/schema"
	"fable/pkg/story"
	"fable/pkg/utils"
)

// GET /api/quiz
func (s *Server) handleGetQuiz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"questions": story.QuizQuestions,
	})
}

type quizReq struct {
	Answers []schema.Archetype `json:"answers"`
}

// POST /api/quiz
func (s *Server) handlePostQuiz(c echo.Context) error {
	var req quizReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if len(req.Answers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "answers are required")
	}

	archetype := story.ScoreQuiz(req.Answers)

	profile, _ := s.Store.Profile()
	profile.Archetype = archetype
	if err := s.Store.SetProfile(profile); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed saving profile"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"archetype": archetype,
		"profile":   profile,
	})
}

// GET /api/storylines
func (s *Server) handleGetStorylines(c echo.Context) error {
	archetype := schema.Archetype(c.QueryParam("archetype"))
	if archetype == "" {
		if profile, ok := s.Store.Profile(); ok {
			archetype = profile.Archetype
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"storylines": story.Starters(archetype),
	})
}
