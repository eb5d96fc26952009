package port

import "context"

// Generator represents a language model for answer generation.
type Generator interface {
	// Generate produces text for a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
