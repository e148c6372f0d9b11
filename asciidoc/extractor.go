// Package asciidoc implements excerpt extraction, attribute-file parsing,
// and description patching for AsciiDoc documents.
package asciidoc

import (
	"regexp"
	"strings"

	"metadesc"
)

// Ensure Extractor implements metadesc.Extractor at compile time.
var _ metadesc.Extractor = (*Extractor)(nil)

var (
	headingRe   = regexp.MustCompile(`^(=+)\s+(.*)$`)
	attrDeclRe  = regexp.MustCompile(`^:[\w-]+:.*$`)
	includeRe   = regexp.MustCompile(`^include::\S+\[.*\]$`)
	imageRe     = regexp.MustCompile(`image::?\S+\[[^\]]*\]`)
	anchorRe    = regexp.MustCompile(`\[\[[^\]]*\]\]`)
	crossRefRe  = regexp.MustCompile(`<<[^>]*>>`)
	xrefRe      = regexp.MustCompile(`xref:\S+?\[([^\]]*)\]`)
	listMarkRe  = regexp.MustCompile(`^[*.\-]+\s+`)
	monoRe      = regexp.MustCompile("`([^`]+)`")
	boldRe      = regexp.MustCompile(`\*([^*]+)\*`)
	italicRe    = regexp.MustCompile(`_([^_]+)_`)
	blockAttrRe = regexp.MustCompile(`^\[[^\]]*\]$`)
)

// Extractor reduces an AsciiDoc document to a bounded prose excerpt.
// Attribute placeholders are resolved against the entity context before
// stripping so they never leak into the excerpt.
type Extractor struct {
	entities *metadesc.EntityContext
	maxLen   int
}

// NewExtractor creates an Extractor using the given entity context.
// A nil context disables attribute resolution.
func NewExtractor(entities *metadesc.EntityContext) *Extractor {
	return &Extractor{entities: entities, maxLen: metadesc.MaxExcerptLen}
}

// Extract returns the prose excerpt for doc.
func (e *Extractor) Extract(doc *metadesc.Document) (string, error) {
	text := e.entities.ResolveAttributes(doc.Content)
	excerpt := stripMarkup(text, e.maxLen)
	if len(excerpt) < metadesc.MinExcerptLen {
		return "", metadesc.Errorf(metadesc.ENOEXCERPT, "no usable prose in %s", doc.Path)
	}
	return excerpt, nil
}

// stripMarkup reduces AsciiDoc source to plain prose. Headings keep their
// text; comments, attribute declarations, includes, anchors, list markers,
// and the contents of code blocks and tables are dropped.
func stripMarkup(text string, maxLen int) string {
	var (
		out       []string
		inComment bool
		inCode    bool
		inTable   bool
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "////":
			inComment = !inComment
			continue
		case inComment:
			continue
		case trimmed == "----" || trimmed == "....":
			inCode = !inCode
			continue
		case inCode:
			continue
		case trimmed == "|===":
			inTable = !inTable
			continue
		case inTable:
			continue
		}

		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if attrDeclRe.MatchString(trimmed) || includeRe.MatchString(trimmed) || blockAttrRe.MatchString(trimmed) {
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			trimmed = m[2]
		}
		trimmed = listMarkRe.ReplaceAllString(trimmed, "")
		trimmed = imageRe.ReplaceAllString(trimmed, "")
		trimmed = anchorRe.ReplaceAllString(trimmed, "")
		trimmed = crossRefRe.ReplaceAllString(trimmed, "")
		trimmed = xrefRe.ReplaceAllString(trimmed, "$1")
		trimmed = monoRe.ReplaceAllString(trimmed, "$1")
		trimmed = boldRe.ReplaceAllString(trimmed, "$1")
		trimmed = italicRe.ReplaceAllString(trimmed, "$1")

		if trimmed = strings.TrimSpace(trimmed); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	excerpt := strings.Join(out, "\n")
	if len(excerpt) > maxLen {
		excerpt = excerpt[:maxLen]
		if i := strings.LastIndexAny(excerpt, " \n"); i > 0 {
			excerpt = excerpt[:i]
		}
	}
	return strings.TrimSpace(excerpt)
}
