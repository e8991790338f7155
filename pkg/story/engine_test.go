package story

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fable/pkg/credits"
	"fable/pkg/schema"
)

type fakeInferencer struct {
	mu        sync.Mutex
	deltas    []string
	streamErr error
	inferOut  string
	inferErr  error

	streamCalls int
	inferCalls  int
	lastUser    string
	lastSystem  string
}

func (f *fakeInferencer) Infer(_ context.Context, _ *openai.ChatCompletionNewParams, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inferCalls++
	return f.inferOut, f.inferErr
}

func (f *fakeInferencer) Stream(_ context.Context, _ *openai.ChatCompletionNewParams, system, user string, emit func(string) error) error {
	f.mu.Lock()
	f.streamCalls++
	f.lastSystem, f.lastUser = system, user
	deltas, streamErr := f.deltas, f.streamErr
	f.mu.Unlock()

	for _, d := range deltas {
		if err := emit(d); err != nil {
			return err
		}
	}
	return streamErr
}

type fakeSaver struct {
	mu    sync.Mutex
	calls []schema.SavedStory
	err   error
}

func (f *fakeSaver) SaveStory(title string, content []string, archetype schema.Archetype) (schema.SavedStory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := schema.SavedStory{Title: title, Content: content, Archetype: archetype}
	f.calls = append(f.calls, st)
	return st, f.err
}

func newTestEngine(inf *fakeInferencer, opts ...Option) (*Engine, *credits.Counter) {
	counter := credits.NewCounter(credits.Usage{}, nil)
	return NewEngine(inf, counter, opts...), counter
}

func TestNextParagraphSettlesAndStreams(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"The ", "detective ", "entered."}, inferOut: `["a","b","c"]`}
	engine, counter := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Title: "Mystery Manor", Prompt: "A detective enters."})

	var streamed []string
	err := engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, func(delta string) error {
		streamed = append(streamed, delta)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"The ", "detective ", "entered."}, streamed)
	assert.Equal(t, []string{"The detective entered."}, sess.Paragraphs())
	assert.Equal(t, 0, sess.Snapshot().CurrentIndex)
	assert.False(t, sess.IsStreaming())
	assert.Equal(t, 1, counter.Used())
	assert.Contains(t, inf.lastUser, "Start a story with this premise: A detective enters.")
}

func TestNextParagraphFailureDiscardsBufferButSpendsCredit(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"partial "}, streamErr: errors.New("connection reset")}
	engine, counter := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Prompt: "p"})

	err := engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil)
	require.ErrorIs(t, err, ErrGenerationFailed)

	assert.Empty(t, sess.Paragraphs())
	assert.False(t, sess.IsStreaming())
	assert.Equal(t, 1, counter.Used(), "a dispatched turn costs a credit even when it fails")
}

func TestNextParagraphBlockedWhenExhausted(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"x"}}
	counter := credits.NewCounter(credits.Usage{Used: 5}, nil)
	engine := NewEngine(inf, counter)
	sess := NewSession(schema.Storyline{Prompt: "p"})

	err := engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil)
	require.ErrorIs(t, err, credits.ErrExhausted)

	assert.Equal(t, 0, inf.streamCalls, "no request may be dispatched past the limit")
	assert.Equal(t, 5, counter.Used())
	assert.False(t, sess.IsStreaming())
}

func TestNextParagraphRejectsConcurrentTurn(t *testing.T) {
	inf := &fakeInferencer{inferOut: `["a","b","c"]`}
	engine, _ := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Prompt: "p"})

	started := make(chan struct{})
	release := make(chan struct{})
	inf.deltas = []string{"only"}

	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		firstErr = engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, func(string) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil)
	assert.ErrorIs(t, err, ErrTurnInFlight)

	close(release)
	<-done
	require.NoError(t, firstErr)
	assert.Equal(t, []string{"only"}, sess.Paragraphs())
}

func TestNextParagraphConsumesSelectedOption(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"next"}, inferOut: `["a","b","c"]`}
	engine, _ := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Prompt: "p"})

	require.NoError(t, engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil))
	require.NoError(t, sess.Select("She opens the locked door"))
	require.NoError(t, engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil))

	assert.Contains(t, inf.lastUser, `Continue the story following this specific direction: "She opens the locked door".`)
	assert.Empty(t, sess.Snapshot().SelectedOption, "a settled turn clears the selection")
}

func TestNextParagraphGeneratesOptionsAfterSecondParagraph(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"one"}, inferOut: `["Go left","Go right","Wait"]`}
	engine, _ := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Prompt: "p"})

	require.NoError(t, engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil))
	assert.Empty(t, sess.Options(), "the opening paragraph gets no options")

	require.NoError(t, engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil))
	assert.Equal(t, []string{"Go left", "Go right", "Wait"}, sess.Options())
}

func TestNextParagraphAutoSavesAtThreshold(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"p"}, inferOut: `["a","b","c"]`}
	saver := &fakeSaver{}
	counter := credits.NewCounter(credits.Usage{Pro: true, ProGranted: true}, nil)
	engine := NewEngine(inf, counter, WithSaver(saver))
	sess := NewSession(schema.Storyline{Title: "Mystery Manor", Prompt: "p"})

	profile := schema.DefaultProfile()
	for range 4 {
		require.NoError(t, engine.NextParagraph(context.Background(), sess, profile, nil, nil))
	}

	require.Len(t, saver.calls, 2, "saved on the third and fourth paragraphs")
	assert.Equal(t, "Mystery Manor", saver.calls[0].Title)
	assert.Len(t, saver.calls[0].Content, 3)
	assert.Len(t, saver.calls[1].Content, 4)
	assert.Equal(t, schema.ArchetypeExplorer, saver.calls[0].Archetype)
}

func TestNextParagraphSaverFailureDoesNotFailTurn(t *testing.T) {
	inf := &fakeInferencer{deltas: []string{"p"}, inferOut: `["a","b","c"]`}
	saver := &fakeSaver{err: errors.New("disk full")}
	counter := credits.NewCounter(credits.Usage{Pro: true, ProGranted: true}, nil)
	engine := NewEngine(inf, counter, WithSaver(saver))
	sess := NewSession(schema.Storyline{Title: "T", Prompt: "p"})

	for range 3 {
		require.NoError(t, engine.NextParagraph(context.Background(), sess, schema.DefaultProfile(), nil, nil))
	}
	assert.Len(t, sess.Paragraphs(), 3)
}

func TestGenerateOptionsFallsBackOnError(t *testing.T) {
	inf := &fakeInferencer{inferErr: errors.New("backend down")}
	engine, _ := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Prompt: "p"})
	sess.paragraphs = []string{"one", "two"}

	got := engine.GenerateOptions(context.Background(), sess, schema.DefaultProfile())
	assert.Equal(t, FallbackOptions(), got)
}

func TestGenerateOptionsEmptySession(t *testing.T) {
	inf := &fakeInferencer{}
	engine, _ := newTestEngine(inf)
	sess := NewSession(schema.Storyline{Prompt: "p"})

	got := engine.GenerateOptions(context.Background(), sess, schema.DefaultProfile())
	assert.Equal(t, FallbackOptions(), got)
	assert.Equal(t, 0, inf.inferCalls)
}
