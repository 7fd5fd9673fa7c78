package driven

import (
	"context"
)

// GenerativeService turns a text prompt into model output.
// Implementations return the raw model text; schema parsing belongs to the
// core. Transport failures wrap domain.ErrGenerativeUnavailable.
type GenerativeService interface {
	// Analyze sends a prompt and returns the raw model response text
	Analyze(ctx context.Context, prompt string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the generative service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the service
	Close() error
}
