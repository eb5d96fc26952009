package port

// ContentCache caches fetched document content by document ID for the
// lifetime of a session. Implementations apply their own expiry policy.
type ContentCache interface {
	Get(docID string) (string, bool)

	Put(docID, text string)

	// Invalidate drops every entry, e.g. before a rebuild.
	Invalidate()
}
