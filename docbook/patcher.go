package docbook

import (
	"html"
	"regexp"
	"strings"

	"metadesc"
)

// Ensure Patcher implements metadesc.Patcher at compile time.
var _ metadesc.Patcher = (*Patcher)(nil)

// itsNS is the namespace declared on the root element so the description
// can carry its:translate.
const itsNS = "http://www.w3.org/2005/11/its"

var (
	metaDescRe  = regexp.MustCompile(`(?is)<meta\s+name="description"[^>]*/>|<meta\s+name="description"[^>]*>(.*?)</meta>`)
	infoOpenRe  = regexp.MustCompile(`(?i)<info\b[^>]*>`)
	rootElemRe  = regexp.MustCompile(`<([A-Za-z][\w-]*)[^>]*>`)
	itsDeclRe   = regexp.MustCompile(`xmlns:its=`)
	metaInnerRe = regexp.MustCompile(`(?is)>(.*?)</meta>`)
)

// Patcher inserts or replaces the <meta name="description"> tag in a
// DocBook document's <info> block. It edits the raw text with targeted
// replacements instead of reserializing the tree, so untouched bytes
// (entity references, formatting, DOCTYPE) survive the round trip.
type Patcher struct{}

// NewPatcher creates a new Patcher.
func NewPatcher() *Patcher {
	return &Patcher{}
}

// ExistingDescription returns the current description, if the document
// already carries a description meta tag.
func (p *Patcher) ExistingDescription(doc *metadesc.Document) (string, bool) {
	m := metaDescRe.FindString(doc.Content)
	if m == "" {
		return "", false
	}
	if inner := metaInnerRe.FindStringSubmatch(m); inner != nil {
		return strings.TrimSpace(html.UnescapeString(inner[1])), true
	}
	return "", true
}

// Patch inserts or replaces the description meta tag as the first child of
// the document's <info> block. Returns EMISSINGINFO when no <info> block
// exists.
func (p *Patcher) Patch(doc *metadesc.Document, description string) (*metadesc.PatchResult, error) {
	content := doc.Content

	infoTag := infoOpenRe.FindString(content)
	if infoTag == "" {
		return nil, metadesc.Errorf(metadesc.EMISSINGINFO, "no <info> block in %s", doc.Path)
	}

	content = ensureITSNamespace(content)
	// The info tag may have changed position; its text is unaffected.

	newMeta := `<meta name="description" its:translate="yes">` + html.EscapeString(description) + `</meta>`

	if existing := metaDescRe.FindString(content); existing != "" {
		old, _ := p.ExistingDescription(doc)
		return &metadesc.PatchResult{
			Content:  strings.Replace(content, existing, newMeta, 1),
			Replaced: true,
			OldValue: old,
		}, nil
	}

	// A self-closing <info/> has no interior, so it is expanded into an
	// open/close pair around the new tag.
	if strings.HasSuffix(infoTag, "/>") {
		opening := strings.TrimRight(strings.TrimSuffix(infoTag, "/>"), " \t") + ">"
		expanded := opening + "\n    " + newMeta + "\n    </info>"
		return &metadesc.PatchResult{
			Content: strings.Replace(content, infoTag, expanded, 1),
		}, nil
	}

	insertion := infoTag + "\n    " + newMeta
	return &metadesc.PatchResult{
		Content: strings.Replace(content, infoTag, insertion, 1),
	}, nil
}

// ensureITSNamespace declares the its namespace on the root element when it
// is not already present.
func ensureITSNamespace(content string) string {
	loc := rootElementTag(content)
	if loc == nil {
		return content
	}
	tag := content[loc[0]:loc[1]]
	if itsDeclRe.MatchString(tag) {
		return content
	}
	name := content[loc[2]:loc[3]]
	patched := strings.Replace(tag, "<"+name, "<"+name+` xmlns:its="`+itsNS+`"`, 1)
	return content[:loc[0]] + patched + content[loc[1]:]
}

// rootElementTag locates the opening tag of the root element, skipping the
// XML prolog, DOCTYPE, and comments.
func rootElementTag(content string) []int {
	offset := 0
	for {
		loc := rootElemRe.FindStringSubmatchIndex(content[offset:])
		if loc == nil {
			return nil
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += offset
			}
		}
		// Skip matches inside comments.
		if start := strings.LastIndex(content[:loc[0]], "<!--"); start >= 0 {
			if end := strings.Index(content[start:], "-->"); end < 0 || start+end > loc[0] {
				offset = loc[0] + 1
				continue
			}
		}
		return loc
	}
}
