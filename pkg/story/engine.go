package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"fable/pkg/credits"
	"fable/pkg/inference"
	"fable/pkg/schema"
)

// ErrGenerationFailed wraps any transport or stream-read failure during a
// turn. The credit for the turn is already spent by then; that optimistic
// ordering is deliberate and covered by the engine tests.
var ErrGenerationFailed = errors.New("story: generation failed")

// autoSaveThreshold is the paragraph count at which a session is persisted to
// the saved-story collection after every settled turn.
const autoSaveThreshold = 3

// Saver persists completed stories; overwrite-by-title semantics live behind
// this interface.
type Saver interface {
	SaveStory(title string, content []string, archetype schema.Archetype) (schema.SavedStory, error)
}

// Engine drives paragraph turns: credit check, dispatch, stream consumption,
// settlement, and branch-option generation.
type Engine struct {
	inf         inference.Inferencer
	counter     *credits.Counter
	saver       Saver
	timeout     time.Duration
	tokenBudget int
}

type Option func(*Engine)

// WithTimeout bounds a single turn, stream read included. Zero means no
// timeout: a stalled backend then holds the session in its streaming state
// until the caller's context is cancelled.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithTokenBudget caps how much prior-paragraph context a continue request
// carries; oldest paragraphs are dropped first.
func WithTokenBudget(tokens int) Option {
	return func(e *Engine) { e.tokenBudget = tokens }
}

// WithSaver enables the auto-save side effect on settlement.
func WithSaver(s Saver) Option {
	return func(e *Engine) { e.saver = s }
}

func NewEngine(inf inference.Inferencer, counter *credits.Counter, opts ...Option) *Engine {
	e := &Engine{inf: inf, counter: counter}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NextParagraph runs one full turn against the session: the first call starts
// the story from its premise, later calls continue it, honoring a previously
// selected branch option. Each streamed delta reaches sink before the next
// one is read. On return the turn has either settled (one new paragraph,
// options refreshed) or failed without touching settled paragraphs.
//
// A turn is rejected up front with ErrTurnInFlight while another is running,
// and with credits.ErrExhausted when the usage limit is reached; neither
// consumes a credit. Past that point one credit is spent no matter how the
// turn ends.
func (e *Engine) NextParagraph(ctx context.Context, sess *Session, profile schema.Profile, env *schema.Context, sink func(delta string) error) error {
	index, previous, selected, err := sess.beginTurn()
	if err != nil {
		return err
	}

	if err := e.counter.Consume(); err != nil {
		sess.failTurn()
		return err
	}

	req := BuildTurn(sess.Storyline.Prompt, profile, env, index, previous, selected, e.tokenBudget)

	streamCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		streamCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(200),
		Temperature:         openai.Float(0.8),
	}
	err = e.inf.Stream(streamCtx, params, req.System, req.User, func(delta string) error {
		sess.appendDelta(delta)
		if sink != nil {
			return sink(delta)
		}
		return nil
	})
	if err != nil {
		sess.failTurn()
		return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	paragraph, count := sess.settle()
	log.Debug("turn settled", "session", sess.ID, "paragraphs", count, "chars", len(paragraph))

	if count >= autoSaveThreshold && e.saver != nil {
		if _, err := e.saver.SaveStory(sess.Storyline.Title, sess.Paragraphs(), profile.Archetype); err != nil {
			log.Warn("auto-save failed", "session", sess.ID, "title", sess.Storyline.Title, "error", err)
		}
	}

	// Options only follow a continuation turn; the opening paragraph stands
	// on its own.
	if count >= 2 {
		sess.setOptions(e.GenerateOptions(ctx, sess, profile))
	}
	return nil
}

// GenerateOptions produces exactly OptionCount branch suggestions for the
// session's latest paragraph. It never fails: a backend error degrades to the
// fixed fallback set so option generation can never block progression.
func (e *Engine) GenerateOptions(ctx context.Context, sess *Session, profile schema.Profile) []string {
	paragraphs := sess.Paragraphs()
	if len(paragraphs) == 0 {
		return FallbackOptions()
	}
	storySoFar := strings.Join(paragraphs, "\n\n")
	last := paragraphs[len(paragraphs)-1]

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := BuildOptions(sess.Storyline.Prompt, profile.Archetype, storySoFar, last, profile.Locale)
	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(300),
		Temperature:         openai.Float(0.8),
	}
	raw, err := e.inf.Infer(ctx, params, req.System, req.User)
	if err != nil {
		log.Warn("option generation failed", "session", sess.ID, "error", err)
		return FallbackOptions()
	}
	return ParseOptions(raw)
}
