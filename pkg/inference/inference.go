package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Inferencer runs model inference. Infer returns the full completion at once;
// Stream delivers text deltas through emit as they arrive, returning once the
// backend closes the stream or emit returns an error. Every delta must reach
// emit before the next one is read so callers can render incrementally.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Stream(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, emit func(delta string) error) error
}
