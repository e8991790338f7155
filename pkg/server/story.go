package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/openai/openai-go/v3"

	"fable/pkg/credits"
	"fable/pkg/locale"
	"fable/pkg/schema"
	"fable/pkg/story"
	"fable/pkg/utils"
)

type createStoryReq struct {
	Title   string `json:"title"`
	Prompt  string `json:"prompt"`
	Premise string `json:"premise"`
}

// POST /api/stories
func (s *Server) handlePostStories(c echo.Context) error {
	var req createStoryReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	var storyline schema.Storyline
	switch {
	case req.Premise != "":
		storyline = story.CustomStoryline(req.Premise)
	case req.Prompt != "" && req.Title != "":
		storyline = schema.Storyline{Title: req.Title, Prompt: req.Prompt}
	case req.Prompt != "":
		storyline = story.CustomStoryline(req.Prompt)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "a storyline prompt or premise is required")
	}

	sess := story.NewSession(storyline)
	s.Sessions.Store(sess.ID, sess)
	log.Info("session created", "id", sess.ID, "title", storyline.Title)

	return c.JSON(http.StatusCreated, sess.Snapshot())
}

// GET /api/stories/:id
func (s *Server) handleGetStory(c echo.Context) error {
	sess, ok := s.Sessions.Load(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

type nextReq struct {
	Option    string   `json:"option"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// POST /api/stories/:id/next
//
// Streams the next paragraph as text/plain chunks, one flush per delta. State
// errors are reported before the first byte; a failure mid-stream can only
// surface as a closed connection.
func (s *Server) handlePostNext(c echo.Context) error {
	sess, ok := s.Sessions.Load(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}

	var req nextReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if req.Option != "" {
		if err := sess.Select(req.Option); err != nil {
			return echo.NewHTTPError(http.StatusConflict, "a paragraph is already being generated")
		}
	}

	ctx := c.Request().Context()
	profile, _ := s.Store.Profile()

	var lat, lon float64
	hasCoords := req.Latitude != nil && req.Longitude != nil
	if hasCoords {
		lat, lon = *req.Latitude, *req.Longitude
	}
	env := s.Detector.Detect(ctx, lat, lon, hasCoords)

	// The writer is created lazily on the first delta so that rejections
	// (turn in flight, credits exhausted) still get a proper status code.
	var w *utils.ChunkWriter
	err := s.Engine.NextParagraph(ctx, sess, profile, &env, func(delta string) error {
		if w == nil {
			var werr error
			if w, werr = utils.NewChunkWriter(c); werr != nil {
				return werr
			}
		}
		return w.Write(delta)
	})
	if err != nil {
		if w != nil {
			// Headers are out; the dropped connection is the error signal.
			log.Error("stream failed mid-flight", "session", sess.ID, "error", err)
			return nil
		}
		switch {
		case errors.Is(err, story.ErrTurnInFlight):
			return echo.NewHTTPError(http.StatusConflict, "a paragraph is already being generated")
		case errors.Is(err, credits.ErrExhausted):
			return echo.NewHTTPError(http.StatusPaymentRequired, "credit limit reached")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "story generation failed")
		}
	}
	if w == nil {
		// Zero-delta stream; still emit the (empty) 200 response.
		if w, err = utils.NewChunkWriter(c); err != nil {
			return err
		}
	}

	s.trackUsage("story_paragraphs")
	return nil
}

type selectReq struct {
	Option string `json:"option"`
}

// POST /api/stories/:id/select
func (s *Server) handlePostSelect(c echo.Context) error {
	sess, ok := s.Sessions.Load(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if err := sess.Select(req.Option); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "a paragraph is already being generated")
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// POST /api/stories/:id/back
func (s *Server) handlePostBack(c echo.Context) error {
	return s.navigate(c, (*story.Session).Back)
}

// POST /api/stories/:id/forward
func (s *Server) handlePostForward(c echo.Context) error {
	return s.navigate(c, (*story.Session).Forward)
}

func (s *Server) navigate(c echo.Context, move func(*story.Session) error) error {
	sess, ok := s.Sessions.Load(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}
	switch err := move(sess); {
	case errors.Is(err, story.ErrTurnInFlight):
		return echo.NewHTTPError(http.StatusConflict, "a paragraph is already being generated")
	case errors.Is(err, story.ErrNoParagraph):
		return echo.NewHTTPError(http.StatusBadRequest, "no paragraph in that direction")
	case err != nil:
		return err
	}
	return c.JSON(http.StatusOK, sess.Snapshot())
}

// DELETE /api/stories/:id
func (s *Server) handleDeleteStory(c echo.Context) error {
	s.Sessions.Delete(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// GET /api/saved
func (s *Server) handleGetSaved(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"stories": s.Store.Stories(),
	})
}

// DELETE /api/saved/:id
func (s *Server) handleDeleteSaved(c echo.Context) error {
	ok, err := s.Store.DeleteStory(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed deleting story"))
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "story not found")
	}
	return c.NoContent(http.StatusNoContent)
}

type streamStoryReq struct {
	Prompt             string           `json:"prompt"`
	Profile            schema.Archetype `json:"profile"`
	ParagraphIndex     int              `json:"paragraphIndex"`
	PreviousParagraphs []string         `json:"previousParagraphs"`
	SelectedOption     string           `json:"selectedOption"`
	UseEmojis          *bool            `json:"useEmojis"`
	Locale             string           `json:"locale"`
	Mood               schema.Mood      `json:"mood"`
	Context            *struct {
		TimeOfDay schema.TimeOfDay `json:"timeOfDay"`
		Weather   schema.Weather   `json:"weather"`
		Season    schema.Season    `json:"season"`
		City      string           `json:"city"`
	} `json:"context"`
}

// POST /api/stream-story
//
// The stateless turn: the client carries all story state and gets the next
// paragraph back as chunked text/plain. Credits are still enforced here.
func (s *Server) handlePostStreamStory(c echo.Context) error {
	var req streamStoryReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if req.Prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prompt is required")
	}

	profile := schema.Profile{
		Archetype: req.Profile,
		Mood:      req.Mood,
		UseEmojis: req.UseEmojis == nil || *req.UseEmojis,
		Locale:    locale.Normalize(req.Locale),
	}

	var env *schema.Context
	if req.Context != nil {
		env = &schema.Context{
			TimeOfDay: req.Context.TimeOfDay,
			Weather:   req.Context.Weather,
			Season:    req.Context.Season,
			City:      req.Context.City,
		}
	}

	if err := s.Counter.Consume(); err != nil {
		return echo.NewHTTPError(http.StatusPaymentRequired, "credit limit reached")
	}

	turn := story.BuildTurn(req.Prompt, profile, env, req.ParagraphIndex, req.PreviousParagraphs, req.SelectedOption, 0)

	w, err := utils.NewChunkWriter(c)
	if err != nil {
		return err
	}
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(200),
		Temperature:         openai.Float(0.8),
	}
	err = s.Inferencer.Stream(c.Request().Context(), params, turn.System, turn.User, w.Write)
	if err != nil {
		log.Error("stateless stream failed", "error", err)
		return nil
	}

	s.trackUsage("story_paragraphs")
	return nil
}

type storyOptionsReq struct {
	Prompt           string           `json:"prompt"`
	Profile          schema.Archetype `json:"profile"`
	StorySoFar       string           `json:"storySoFar"`
	CurrentParagraph string           `json:"currentParagraph"`
	Locale           string           `json:"locale"`
}

// POST /api/story-options
//
// Always answers with exactly three options; backend failures degrade to the
// fixed fallback set.
func (s *Server) handlePostStoryOptions(c echo.Context) error {
	var req storyOptionsReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	turn := story.BuildOptions(req.Prompt, req.Profile, req.StorySoFar, req.CurrentParagraph, locale.Normalize(req.Locale))
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(300),
		Temperature:         openai.Float(0.8),
	}

	options := story.FallbackOptions()
	raw, err := s.Inferencer.Infer(c.Request().Context(), params, turn.System, turn.User)
	if err != nil {
		log.Warn("option generation failed", "error", err)
	} else {
		options = story.ParseOptions(raw)
	}

	return c.JSON(http.StatusOK, map[string]any{"options": options})
}

// trackUsage reports one metered use to billing without ever blocking or
// failing the request that triggered it.
func (s *Server) trackUsage(featureID string) {
	if s.Billing == nil {
		return
	}
	customerID, err := s.Store.CustomerID()
	if err != nil {
		log.Warn("customer id unavailable", "error", err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Billing.Track(ctx, customerID, featureID); err != nil {
			log.Debug("usage tracking failed", "feature", featureID, "error", err)
		}
	}()
}
