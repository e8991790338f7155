package story

import (
	"errors"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"

	"fable/pkg/schema"
)

var (
	// ErrTurnInFlight rejects any trigger while a paragraph is streaming.
	// At most one generation turn runs per session.
	ErrTurnInFlight = errors.New("story: a generation turn is already in flight")
	// ErrNoParagraph rejects navigation outside the paragraph sequence.
	ErrNoParagraph = errors.New("story: no paragraph at that position")
)

// Session is the in-memory state for one selected storyline, created when the
// storyline is chosen and discarded on reset or navigation away. Paragraphs
// are append-only; the cursor moves freely over settled paragraphs.
type Session struct {
	mu sync.Mutex

	ID        string
	Storyline schema.Storyline

	paragraphs []string
	current    int
	buffer     strings.Builder
	streaming  bool
	selected   string
	options    []string
}

func NewSession(storyline schema.Storyline) *Session {
	return &Session{
		ID:        ksuid.New().String(),
		Storyline: storyline,
	}
}

// Snapshot is a copyable view of the session for JSON responses and tests.
type Snapshot struct {
	ID             string           `json:"id"`
	Storyline      schema.Storyline `json:"storyline"`
	Paragraphs     []string         `json:"paragraphs"`
	CurrentIndex   int              `json:"current_index"`
	IsStreaming    bool             `json:"is_streaming"`
	StreamingText  string           `json:"streaming_text,omitempty"`
	Options        []string         `json:"options,omitempty"`
	SelectedOption string           `json:"selected_option,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.ID,
		Storyline:      s.Storyline,
		Paragraphs:     append([]string(nil), s.paragraphs...),
		CurrentIndex:   s.current,
		IsStreaming:    s.streaming,
		StreamingText:  s.buffer.String(),
		Options:        append([]string(nil), s.options...),
		SelectedOption: s.selected,
	}
}

func (s *Session) Paragraphs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paragraphs...)
}

func (s *Session) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

func (s *Session) Options() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.options...)
}

// Select records the branch suggestion the next turn should follow. It is
// consumed (cleared) when that turn settles.
func (s *Session) Select(option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return ErrTurnInFlight
	}
	s.selected = strings.TrimSpace(option)
	return nil
}

// Back moves the cursor to the previous settled paragraph.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return ErrTurnInFlight
	}
	if s.current == 0 {
		return ErrNoParagraph
	}
	s.current--
	return nil
}

// Forward moves the cursor to the next settled paragraph.
func (s *Session) Forward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return ErrTurnInFlight
	}
	if s.current >= len(s.paragraphs)-1 {
		return ErrNoParagraph
	}
	s.current++
	return nil
}

// beginTurn flips the session into its streaming state and hands back the
// inputs the request builder needs. Stale options are cleared here: they
// described continuations of a paragraph that is no longer the last one.
func (s *Session) beginTurn() (index int, previous []string, selected string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		return 0, nil, "", ErrTurnInFlight
	}
	s.streaming = true
	s.buffer.Reset()
	s.options = nil
	return len(s.paragraphs), append([]string(nil), s.paragraphs...), s.selected, nil
}

func (s *Session) appendDelta(delta string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.WriteString(delta)
}

// failTurn discards the partial buffer; settled paragraphs are untouched.
func (s *Session) failTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer.Reset()
	s.streaming = false
}

// settle folds the buffer into the paragraph sequence, advances the cursor to
// the new last paragraph, and consumes the selected option.
func (s *Session) settle() (paragraph string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	paragraph = s.buffer.String()
	s.buffer.Reset()
	s.paragraphs = append(s.paragraphs, paragraph)
	s.current = len(s.paragraphs) - 1
	s.selected = ""
	s.streaming = false
	return paragraph, len(s.paragraphs)
}

func (s *Session) setOptions(options []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streaming {
		// A new turn started while options were being generated; they
		// describe a stale paragraph now.
		return
	}
	s.options = options
}
