package story

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// CountTokens measures text against the gpt-4 encoding. When the encoding is
// unavailable (offline first run) it falls back to a bytes/4 estimate so the
// context budget still degrades gracefully.
func CountTokens(text string) int {
	encOnce.Do(func() {
		enc, _ = tiktoken.EncodingForModel("gpt-4")
	})
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
