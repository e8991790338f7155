package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"fable/pkg/ambient"
	"fable/pkg/billing"
	"fable/pkg/credits"
	"fable/pkg/extract"
	"fable/pkg/flight"
	"fable/pkg/inference"
	"fable/pkg/store"
	"fable/pkg/story"
	"fable/pkg/translate"
	"fable/pkg/utils"
	"fable/pkg/voice"
)

type Server struct {
	Echo       *echo.Echo
	Inferencer inference.Inferencer
	Engine     *story.Engine
	Store      *store.Store
	Counter    *credits.Counter
	Sessions   *utils.SyncMap[string, *story.Session]
	Detector   *ambient.Detector

	// Optional vendor collaborators; a nil client disables its routes.
	Extractor  *extract.Client
	Voice      *voice.Client
	Translator *translate.Client
	Billing    *billing.Client

	VoiceID  string
	AudioDir string

	definitions *flight.Cache[definitionKey, string]
}

func NewServer(inf inference.Inferencer, engine *story.Engine, st *store.Store, counter *credits.Counter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:       e,
		Inferencer: inf,
		Engine:     engine,
		Store:      st,
		Counter:    counter,
		Sessions:   utils.NewSyncMap[string, *story.Session](),
		Detector:   ambient.NewDetector(""),
	}
	s.definitions = flight.New(24*time.Hour, s.lookupDefinition)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")

	api.GET("/quiz", s.handleGetQuiz)
	api.POST("/quiz", s.handlePostQuiz)
	api.GET("/profile", s.handleGetProfile)
	api.PUT("/profile", s.handlePutProfile)
	api.POST("/reset", s.handlePostReset)
	api.GET("/storylines", s.handleGetStorylines)

	api.POST("/stories", s.handlePostStories)
	api.GET("/stories/:id", s.handleGetStory)
	api.POST("/stories/:id/next", s.handlePostNext)
	api.POST("/stories/:id/select", s.handlePostSelect)
	api.POST("/stories/:id/back", s.handlePostBack)
	api.POST("/stories/:id/forward", s.handlePostForward)
	api.DELETE("/stories/:id", s.handleDeleteStory)

	api.GET("/saved", s.handleGetSaved)
	api.DELETE("/saved/:id", s.handleDeleteSaved)

	// stateless wire contract kept for clients that manage story state
	// themselves
	api.POST("/stream-story", s.handlePostStreamStory)
	api.POST("/story-options", s.handlePostStoryOptions)

	api.POST("/word-definition", s.handlePostWordDefinition)
	api.GET("/words", s.handleGetWords)
	api.POST("/flashcards", s.handlePostFlashcards)
	api.POST("/podcast", s.handlePostPodcast)
	api.POST("/translate", s.handlePostTranslate)

	api.GET("/credits", s.handleGetCredits)
	api.POST("/upgrade", s.handlePostUpgrade)
}

func (s *Server) Start(addr string) error {
	if s.AudioDir != "" {
		s.Echo.Static("/audio", s.AudioDir)
	}
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")

	flushErr := s.Store.Flush()
	if err := s.Echo.Shutdown(ctx); err != nil {
		return err
	}
	return flushErr
}
