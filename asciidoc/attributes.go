package asciidoc

import (
	"regexp"
	"sort"
	"strings"
)

// resolvePasses bounds attribute expansion so circular definitions always
// terminate; leftovers are reported to the caller instead of looping.
const resolvePasses = 10

var (
	attrLineRe    = regexp.MustCompile(`^:([\w-]+):(?:\s+(.*))?$`)
	ifndefRe      = regexp.MustCompile(`^ifndef::([\w-]+)\[\]$`)
	ifevalRe      = regexp.MustCompile(`^ifeval::\["\{([\w-]+)\}" == "([^"]+)"\]$`)
	endifRe       = regexp.MustCompile(`^endif::\[\]$`)
	refInValueRe  = regexp.MustCompile(`\{([\w-]+)\}`)
	commentLineRe = regexp.MustCompile(`^//`)
)

// ParseAttributeFile parses an AsciiDoc attributes file into a
// name-to-value map. Conditional blocks (ifndef::name[], ifeval::["{name}"
// == "value"], endif::[]) are evaluated against the build attributes, which
// also seed the result. Nested {name} references in values are expanded in
// repeated passes; names that still hold unresolved references after the
// final pass are returned so the caller can warn, with the placeholder left
// literal.
func ParseAttributeFile(src string, build map[string]string) (map[string]string, []string) {
	attrs := make(map[string]string, len(build))
	for k, v := range build {
		attrs[k] = v
	}

	active := true
	var stack []bool

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || commentLineRe.MatchString(line) {
			continue
		}

		if endifRe.MatchString(line) {
			if n := len(stack); n > 0 {
				active = stack[n-1]
				stack = stack[:n-1]
			}
			continue
		}
		if m := ifndefRe.FindStringSubmatch(line); m != nil {
			stack = append(stack, active)
			_, defined := attrs[m[1]]
			active = active && !defined
			continue
		}
		if m := ifevalRe.FindStringSubmatch(line); m != nil {
			stack = append(stack, active)
			active = active && attrs[m[1]] == m[2]
			continue
		}
		if !active {
			continue
		}

		if m := attrLineRe.FindStringSubmatch(line); m != nil {
			// Value-less attributes (e.g. :showtitle:) are flags.
			attrs[m[1]] = strings.TrimSpace(m[2])
		}
	}

	expand(attrs)
	return attrs, unresolvedNames(attrs)
}

// expand resolves {name} references inside attribute values.
func expand(attrs map[string]string) {
	for range resolvePasses {
		changed := false
		for key, value := range attrs {
			if !strings.Contains(value, "{") {
				continue
			}
			next := refInValueRe.ReplaceAllStringFunc(value, func(ref string) string {
				name := ref[1 : len(ref)-1]
				if v, ok := attrs[name]; ok && name != key {
					return v
				}
				return ref
			})
			if next != value {
				attrs[key] = next
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// unresolvedNames returns the sorted attribute names whose values still
// contain placeholder references.
func unresolvedNames(attrs map[string]string) []string {
	var names []string
	for key, value := range attrs {
		if refInValueRe.MatchString(value) {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names
}
