package mock

import "metadesc"

var _ metadesc.Patcher = (*Patcher)(nil)

// Patcher is a mock implementation of metadesc.Patcher.
type Patcher struct {
	ExistingDescriptionFn func(doc *metadesc.Document) (string, bool)
	PatchFn               func(doc *metadesc.Document, description string) (*metadesc.PatchResult, error)
}

func (p *Patcher) ExistingDescription(doc *metadesc.Document) (string, bool) {
	return p.ExistingDescriptionFn(doc)
}

func (p *Patcher) Patch(doc *metadesc.Document, description string) (*metadesc.PatchResult, error) {
	return p.PatchFn(doc, description)
}
