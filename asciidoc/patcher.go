package asciidoc

import (
	"regexp"
	"strings"

	"metadesc"
)

// Ensure Patcher implements metadesc.Patcher at compile time.
var _ metadesc.Patcher = (*Patcher)(nil)

var (
	descAttrRe    = regexp.MustCompile(`(?i)^:\s*description\s*:\s*(.*)$`)
	titleLineRe   = regexp.MustCompile(`^\s*=\s+.+`)
	sectionHeadRe = regexp.MustCompile(`^==+\s+.+`)
)

// Patcher inserts or replaces the :description: attribute of an AsciiDoc
// document. The attribute lives in the document header, directly after the
// title line, or at the start of the document when there is no title.
type Patcher struct{}

// NewPatcher creates a new Patcher.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// ExistingDescription returns the current description attribute value, if
// one is declared before the first section heading.
func (p *Patcher) ExistingDescription(doc *metadesc.Document) (string, bool) {
	idx, value := findDescription(strings.Split(doc.Content, "\n"))
	if idx < 0 {
		return "", false
	}
	return value, true
}

// Patch inserts or replaces the description attribute and returns the new
// document content.
func (p *Patcher) Patch(doc *metadesc.Document, description string) (*metadesc.PatchResult, error) {
	lines := strings.Split(doc.Content, "\n")
	decl := ":description: " + description

	if idx, old := findDescription(lines); idx >= 0 {
		lines[idx] = decl
		return &metadesc.PatchResult{
			Content:  strings.Join(lines, "\n"),
			Replaced: true,
			OldValue: old,
		}, nil
	}

	at := 0
	for i, line := range lines {
		if titleLineRe.MatchString(line) {
			at = i + 1
			break
		}
	}
	lines = append(lines[:at], append([]string{decl}, lines[at:]...)...)
	return &metadesc.PatchResult{Content: strings.Join(lines, "\n")}, nil
}

// findDescription locates a description attribute in the document header,
// scanning only up to the first section heading.
func findDescription(lines []string) (int, string) {
	for i, line := range lines {
		if sectionHeadRe.MatchString(line) {
			break
		}
		if m := descAttrRe.FindStringSubmatch(line); m != nil {
			return i, strings.TrimSpace(m[1])
		}
	}
	return -1, ""
}
