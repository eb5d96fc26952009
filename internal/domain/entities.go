package domain

// ContentType discriminates how a repository document is fetched.
type ContentType string

const (
	// ContentNativeDoc is a provider-native document that must be exported
	// to plain text (e.g. a Google Doc).
	ContentNativeDoc ContentType = "native-doc"
	ContentPlainText ContentType = "text/plain"
	ContentMarkdown  ContentType = "text/markdown"
)

// Eligible reports whether a content type can be indexed.
func (c ContentType) Eligible() bool {
	switch c {
	case ContentNativeDoc, ContentPlainText, ContentMarkdown:
		return true
	default:
		return false
	}
}

// DocumentRef identifies one ingestible document discovered in a repository.
// Content is fetched lazily through the repository, never stored here.
type DocumentRef struct {
	ID          string
	Name        string
	ContentType ContentType
}

// Fragment is a bounded slice of one document's text, the unit of
// embedding and retrieval. Source carries the document name for citation.
type Fragment struct {
	Text   string
	Source string
	Offset int
}

// ScoredFragment pairs a retrieved fragment with its similarity score.
type ScoredFragment struct {
	Fragment Fragment
	Score    float64
}

// Answer is the result of one question against an indexed corpus.
// Sources lists the names of the documents whose fragments were actually
// included in the prompt, deduplicated and sorted.
type Answer struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources,omitempty"`
}
