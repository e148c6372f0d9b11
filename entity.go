package metadesc

import (
	"regexp"
	"sort"
	"strings"
)

// maxResolveDepth bounds placeholder resolution passes so that circular
// attribute definitions always terminate.
const maxResolveDepth = 10

var (
	// <!ENTITY prod "Acme Widget"> style declarations (DocBook dialect).
	entityDeclRe = regexp.MustCompile(`<!ENTITY\s+([\w-]+)\s+"([^"]+)">`)

	// :prod: Acme Widget style declarations (AsciiDoc dialect).
	adocDeclRe = regexp.MustCompile(`(?m)^:([\w-]+):\s+(.+?)\s*$`)

	// {name} attribute placeholder references.
	placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\}`)

	// &name; entity references.
	entityRefRe = regexp.MustCompile(`&([\w-]+);`)
)

// EntityContext holds the brand and attribute mappings for a run. Brands and
// attributes are separate namespaces: attribute resolution only reads
// Attributes, brand checks only read Brands. The context is built once per
// run and consumed read-only afterwards.
type EntityContext struct {
	// Brands maps a declared short name to its canonical brand string.
	Brands map[string]string

	// Attributes maps an attribute name to its replacement text.
	Attributes map[string]string
}

// NewEntityContext returns an empty context.
func NewEntityContext() *EntityContext {
	return &EntityContext{
		Brands:     make(map[string]string),
		Attributes: make(map[string]string),
	}
}

// ParseEntities parses entity declarations from src and returns the
// name-to-value mapping. Both declaration styles are recognized:
// DocBook <!ENTITY name "value"> and AsciiDoc :name: value lines.
// Later declarations win on duplicate names.
func ParseEntities(src string) map[string]string {
	entities := make(map[string]string)
	for _, m := range entityDeclRe.FindAllStringSubmatch(src, -1) {
		entities[m[1]] = strings.TrimSpace(m[2])
	}
	for _, m := range adocDeclRe.FindAllStringSubmatch(src, -1) {
		entities[m[1]] = strings.TrimSpace(m[2])
	}
	return entities
}

// ResolveAttributes replaces {name} placeholders in text with their values
// from the attribute mapping. Nested references are resolved in repeated
// passes up to maxResolveDepth. Placeholders that remain unresolved are
// removed so they never leak into excerpts or descriptions.
func (c *EntityContext) ResolveAttributes(text string) string {
	if c != nil && len(c.Attributes) > 0 {
		for range maxResolveDepth {
			if !strings.Contains(text, "{") {
				break
			}
			next := placeholderRe.ReplaceAllStringFunc(text, func(ref string) string {
				name := ref[1 : len(ref)-1]
				if v, ok := c.Attributes[name]; ok {
					return v
				}
				return ref
			})
			if next == text {
				break
			}
			text = next
		}
	}
	return placeholderRe.ReplaceAllString(text, "")
}

// ResolveEntityRefs replaces &name; references with their canonical brand
// strings. Unknown references are left untouched.
func (c *EntityContext) ResolveEntityRefs(text string) string {
	if c == nil || len(c.Brands) == 0 {
		return text
	}
	return entityRefRe.ReplaceAllStringFunc(text, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if v, ok := c.Brands[name]; ok {
			return v
		}
		return ref
	})
}

// CorrectBrands replaces case-insensitive near-misses of known brand strings
// with their canonical form, so "ACME" and "acme" both become "Acme".
// Longer brand strings are matched first so compound names are not broken
// apart by their components.
func (c *EntityContext) CorrectBrands(text string) string {
	if c == nil || len(c.Brands) == 0 {
		return text
	}
	canonical := make([]string, 0, len(c.Brands))
	for _, name := range c.Brands {
		canonical = append(canonical, name)
	}
	sort.Slice(canonical, func(i, j int) bool {
		if len(canonical[i]) != len(canonical[j]) {
			return len(canonical[i]) > len(canonical[j])
		}
		return canonical[i] < canonical[j]
	})
	for _, name := range canonical {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		text = re.ReplaceAllString(text, name)
	}
	return text
}
