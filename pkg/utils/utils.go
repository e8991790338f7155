package utils

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// ErrJSON produces a standard JSON error response.
func ErrJSON(msg string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   msg,
	}
}

// CleanJSON removes markdown code fences from a string to extract raw JSON.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			if strings.HasPrefix(lines[0], "```") {
				lines = lines[1:]
			}
			if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
				lines = lines[:len(lines)-1]
			}
			s = strings.Join(lines, "\n")
		}
	}
	return strings.TrimSpace(s)
}

// LimitStr returns a string truncated to n characters with "..." appended if longer.
func LimitStr(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ChunkText splits text into pieces of at most limit runes, preferring
// paragraph boundaries, then line boundaries, then spaces.
func ChunkText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	blocks := strings.Split(text, "\n\n")
	joiner := "\n\n"
	if len(blocks) == 1 {
		blocks = strings.Split(text, "\n")
		joiner = "\n"
	}
	if len(blocks) == 1 {
		blocks = strings.Fields(text)
		joiner = " "
	}

	var out []string
	cur := ""
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		switch {
		case cur == "":
			cur = b
		case utf8.RuneCountInString(cur)+utf8.RuneCountInString(joiner)+utf8.RuneCountInString(b) <= limit:
			cur += joiner + b
		default:
			out = append(out, cur)
			cur = b
		}
		// An oversized single block gets emitted as-is rather than hard-cut
		// mid-rune; callers treat limit as a soft cap.
		if utf8.RuneCountInString(cur) > limit {
			out = append(out, cur)
			cur = ""
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// ChunkWriter streams plain text chunks over an HTTP response, flushing after
// every write so each delta is observable before the next is produced. The
// stream has no end marker beyond transport close.
type ChunkWriter struct {
	w  http.ResponseWriter
	fl http.Flusher
}

func NewChunkWriter(c echo.Context) (*ChunkWriter, error) {
	w := c.Response()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fl, ok := w.Writer.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("chunked streaming unsupported: response writer is not flushable")
	}
	w.WriteHeader(http.StatusOK)
	fl.Flush()
	return &ChunkWriter{w: w, fl: fl}, nil
}

func (c *ChunkWriter) Write(text string) error {
	if text == "" {
		return nil
	}
	if _, err := fmt.Fprint(c.w, text); err != nil {
		return err
	}
	c.fl.Flush()
	return nil
}

// SyncMap is a generic RWMutex-guarded map.
type SyncMap[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{data: make(map[K]V)}
}

func (m *SyncMap[K, V]) Load(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *SyncMap[K, V]) Store(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *SyncMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *SyncMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
}

func (m *SyncMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
