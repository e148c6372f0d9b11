package mock

import "metadesc"

var _ metadesc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of metadesc.Extractor.
type Extractor struct {
	ExtractFn func(doc *metadesc.Document) (string, error)
}

func (e *Extractor) Extract(doc *metadesc.Document) (string, error) {
	return e.ExtractFn(doc)
}
