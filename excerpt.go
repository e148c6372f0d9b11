package metadesc

// Excerpt bounds. Extraction stops collecting prose at MaxExcerptLen
// characters; anything below MinExcerptLen is too thin to describe.
const (
	MaxExcerptLen = 2000
	MinExcerptLen = 40
)

// Extractor reduces a document to a bounded prose excerpt suitable as model
// input. Headings keep their text but markup syntax, comments, code blocks,
// tables, and cross-references are stripped.
type Extractor interface {
	// Extract returns the excerpt for doc. Returns ENOEXCERPT when the
	// document yields fewer than MinExcerptLen characters of usable prose.
	Extract(doc *Document) (string, error)
}
