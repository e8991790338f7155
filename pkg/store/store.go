// Package store is the device-scoped persistence layer: one JSON file holding
// the personalization profile, the usage counter, the saved-story collection,
// the word-lookup history, and the billing customer ID. Everything is loaded
// once at startup and written back after every mutation; there is no schema
// migration support.
package store

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"fable/pkg/credits"
	"fable/pkg/schema"
	"fable/pkg/utils"
)

type fileData struct {
	Profile    *schema.Profile      `json:"profile,omitempty"`
	Usage      credits.Usage        `json:"usage"`
	Stories    []schema.SavedStory  `json:"stories,omitempty"`
	Words      []schema.WordMeaning `json:"words,omitempty"`
	CustomerID string               `json:"customer_id,omitempty"`
}

type Store struct {
	mu   sync.Mutex
	path string
	data fileData
	now  func() time.Time
}

// Open loads the store file, starting empty when it does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	data, err := utils.Load[fileData](path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return s, nil
	}
	s.data = data
	return s, nil
}

// SaveStory writes a story into the collection. A matching title replaces the
// existing entry's content, archetype, and date in place; a new title is
// prepended, so the collection stays newest-first.
func (s *Store) SaveStory(title string, content []string, archetype schema.Archetype) (schema.SavedStory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.data.Stories {
		if st.Title == title {
			st.Content = append([]string(nil), content...)
			st.Archetype = archetype
			st.Date = s.now()
			s.data.Stories[i] = st
			return st, s.flush()
		}
	}
	st := schema.SavedStory{
		ID:        ksuid.New().String(),
		Title:     title,
		Content:   append([]string(nil), content...),
		Archetype: archetype,
		Date:      s.now(),
	}
	s.data.Stories = append([]schema.SavedStory{st}, s.data.Stories...)
	return st, s.flush()
}

func (s *Store) Stories() []schema.SavedStory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schema.SavedStory(nil), s.data.Stories...)
}

func (s *Store) DeleteStory(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.data.Stories {
		if st.ID == id {
			s.data.Stories = append(s.data.Stories[:i], s.data.Stories[i+1:]...)
			return true, s.flush()
		}
	}
	return false, nil
}

// SaveUsage implements credits.Persister.
func (s *Store) SaveUsage(u credits.Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Usage = u
	return s.flush()
}

func (s *Store) Usage() credits.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Usage
}

func (s *Store) SetProfile(p schema.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Profile = &p
	return s.flush()
}

// Profile returns the stored profile, or defaults when the quiz has not been
// taken yet.
func (s *Store) Profile() (schema.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Profile == nil {
		return schema.DefaultProfile(), false
	}
	return *s.data.Profile, true
}

// RecordWord adds a lookup to the word history, overwriting any existing
// entry for the same word (case-insensitive) and language.
func (s *Store) RecordWord(word, meaning, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := schema.WordMeaning{Word: word, Meaning: meaning, Language: language, LookedUpAt: s.now()}
	for i, w := range s.data.Words {
		if strings.EqualFold(w.Word, word) && w.Language == language {
			s.data.Words[i] = entry
			return s.flush()
		}
	}
	s.data.Words = append(s.data.Words, entry)
	return s.flush()
}

func (s *Store) Words() []schema.WordMeaning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schema.WordMeaning(nil), s.data.Words...)
}

// CustomerID returns the billing identity, minting and persisting one on
// first use.
func (s *Store) CustomerID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.CustomerID != "" {
		return s.data.CustomerID, nil
	}
	s.data.CustomerID = "user-" + ksuid.New().String()
	return s.data.CustomerID, s.flush()
}

// Reset wipes everything: profile, usage (including the one-shot pro grant),
// stories, word history, and the customer identity.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = fileData{}
	return s.flush()
}

// Flush rewrites the file; called on shutdown as a final safety net.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *Store) flush() error {
	return utils.Save(s.path, s.data)
}
