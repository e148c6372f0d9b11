package metadesc

// PatchResult is the outcome of patching a document in memory. The caller
// decides whether Content is written to disk, so dry-run behaves identically
// up to the final write.
type PatchResult struct {
	// Content is the full new document content.
	Content string

	// Replaced reports whether an existing description was replaced rather
	// than a new one inserted.
	Replaced bool

	// OldValue is the previous description when one was replaced.
	OldValue string
}

// Patcher locates the insertion point for a description in a document and
// inserts or replaces it. Implementations are pure: they transform content
// in memory and never touch the filesystem.
type Patcher interface {
	// ExistingDescription reports whether doc already carries a description
	// and returns its current value.
	ExistingDescription(doc *Document) (string, bool)

	// Patch inserts or replaces the description in doc and returns the new
	// content. Returns EMISSINGINFO when the document has no metadata block
	// to patch into.
	Patch(doc *Document, description string) (*PatchResult, error)
}
