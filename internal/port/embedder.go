package port

import "context"

// Intent declares what an embedding will be used for. Providers with
// asymmetric embedding spaces (e.g. Gemini task types) produce better
// retrieval when documents and queries are embedded with matching intent;
// providers with a single space ignore it.
type Intent string

const (
	IntentDocument Intent = "document"
	IntentQuery    Intent = "query"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed returns one vector per input text.
	Embed(ctx context.Context, texts []string, intent Intent) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
