// Package docbook implements excerpt extraction and description patching
// for DocBook XML documents.
package docbook

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"metadesc"
)

// Ensure Extractor implements metadesc.Extractor at compile time.
var _ metadesc.Extractor = (*Extractor)(nil)

// skipTags are non-content elements excluded from excerpts: metadata,
// cross-reference targets, index machinery, and verbatim blocks.
var skipTags = map[string]bool{
	"meta": true, "indexterm": true, "remark": true, "xref": true,
	"anchor": true, "programlisting": true, "screen": true,
	"table": true, "informaltable": true,
}

// customEntityRe matches non-standard entity references left after brand
// resolution. The five predefined XML entities are preserved.
var customEntityRe = regexp.MustCompile(`&([\w-]+);`)

var predefinedEntities = map[string]bool{
	"amp": true, "lt": true, "gt": true, "quot": true, "apos": true,
}

// Extractor reduces a DocBook document to a bounded prose excerpt by
// parsing it into a tree and collecting text content in document order.
// An <info><abstract> block, when present, is preferred as the excerpt
// source. For <set> documents the excerpt is a list of included chapter
// titles.
type Extractor struct {
	entities *metadesc.EntityContext
	maxLen   int

	// readFile loads xi:include targets; overridable in tests.
	readFile func(path string) ([]byte, error)
}

// NewExtractor creates an Extractor using the given entity context.
func NewExtractor(entities *metadesc.EntityContext) *Extractor {
	return &Extractor{
		entities: entities,
		maxLen:   metadesc.MaxExcerptLen,
		readFile: os.ReadFile,
	}
}

// Extract returns the prose excerpt for doc.
func (e *Extractor) Extract(doc *metadesc.Document) (string, error) {
	content := e.resolveEntities(doc.Content)

	tree := etree.NewDocument()
	tree.ReadSettings.Permissive = true
	if err := tree.ReadFromString(content); err != nil {
		return "", metadesc.Errorf(metadesc.EINVALID, "parse %s: %v", doc.Path, err)
	}
	root := tree.Root()
	if root == nil {
		return "", metadesc.Errorf(metadesc.EINVALID, "no root element in %s", doc.Path)
	}

	var excerpt string
	switch {
	case root.Tag == "set":
		excerpt = e.tableOfContents(root, filepath.Dir(doc.Path))
	default:
		if abstract := childByTags(root, "info", "abstract"); abstract != nil {
			excerpt = innerText(abstract)
		} else {
			excerpt = contentText(root)
		}
	}

	excerpt = strings.TrimSpace(excerpt)
	if len(excerpt) > e.maxLen {
		excerpt = excerpt[:e.maxLen]
		if i := strings.LastIndexAny(excerpt, " \n"); i > 0 {
			excerpt = excerpt[:i]
		}
	}
	if len(excerpt) < metadesc.MinExcerptLen {
		return "", metadesc.Errorf(metadesc.ENOEXCERPT, "no usable prose in %s", doc.Path)
	}
	return excerpt, nil
}

// resolveEntities replaces &name; brand references with their canonical
// values and strips any remaining custom entities so they neither leak into
// the excerpt nor break parsing.
func (e *Extractor) resolveEntities(content string) string {
	content = e.entities.ResolveEntityRefs(content)
	return customEntityRe.ReplaceAllStringFunc(content, func(ref string) string {
		if predefinedEntities[ref[1:len(ref)-1]] {
			return ref
		}
		return ""
	})
}

// tableOfContents builds a bullet list of chapter titles referenced by a
// <set> document's xi:include directives.
func (e *Extractor) tableOfContents(root *etree.Element, dir string) string {
	var titles []string
	walkElements(root, func(el *etree.Element) {
		if el.Tag != "include" {
			return
		}
		href := el.SelectAttrValue("href", "")
		if href == "" {
			return
		}
		raw, err := e.readFile(filepath.Join(dir, href))
		if err != nil {
			return
		}
		included := etree.NewDocument()
		included.ReadSettings.Permissive = true
		if err := included.ReadFromString(e.resolveEntities(string(raw))); err != nil {
			return
		}
		if included.Root() == nil {
			return
		}
		if title := childByTags(included.Root(), "info", "title"); title != nil {
			if text := strings.TrimSpace(innerText(title)); text != "" {
				titles = append(titles, "- "+text)
			}
		}
	})
	return strings.Join(titles, "\n")
}

// contentText collects all character data under el in document order,
// skipping non-content subtrees.
func contentText(el *etree.Element) string {
	var parts []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if skipTags[el.Tag] {
			return
		}
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				if s := strings.TrimSpace(t.Data); s != "" {
					parts = append(parts, s)
				}
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.Join(parts, "\n")
}

// innerText collects all character data under el without skipping.
func innerText(el *etree.Element) string {
	var parts []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				if s := strings.TrimSpace(t.Data); s != "" {
					parts = append(parts, s)
				}
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.Join(parts, " ")
}

// childByTags descends from el through the named child tags, matching on
// local names so namespace prefixes do not matter.
func childByTags(el *etree.Element, tags ...string) *etree.Element {
	for _, tag := range tags {
		var next *etree.Element
		for _, child := range el.ChildElements() {
			if child.Tag == tag {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		el = next
	}
	return el
}

// walkElements visits every element under el depth-first.
func walkElements(el *etree.Element, visit func(*etree.Element)) {
	visit(el)
	for _, child := range el.ChildElements() {
		walkElements(child, visit)
	}
}
