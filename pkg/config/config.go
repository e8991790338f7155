// Package config loads server configuration from the environment. A .env file
// in the working directory is honored via godotenv's autoload in cmd.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"1323"`
	DataDir string `envconfig:"DATA_DIR" default:"."`

	OpenAIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	GeminiKey   string `envconfig:"GEMINI_API_KEY"`
	GeminiModel string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	OpenWeatherKey string `envconfig:"OPENWEATHER_API_KEY"`
	TavilyKey      string `envconfig:"TAVILY_API_KEY"`

	ElevenLabsKey string `envconfig:"ELEVENLABS_API_KEY"`
	VoiceID       string `envconfig:"ELEVENLABS_VOICE_ID" default:"Rachel"`
	AudioDir      string `envconfig:"AUDIO_DIR" default:"audio_generations"`

	BillingKey   string `envconfig:"BILLING_API_KEY"`
	TranslateKey string `envconfig:"TRANSLATE_API_KEY"`

	// StreamTimeout bounds a single generation turn. Zero disables the bound.
	StreamTimeout time.Duration `envconfig:"STREAM_TIMEOUT" default:"0"`

	// ContextTokenBudget caps prior-paragraph context sent on continuation
	// turns. Zero sends everything.
	ContextTokenBudget int `envconfig:"CONTEXT_TOKEN_BUDGET" default:"6000"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
