// Package gen orchestrates a description generation run: it discovers
// documents under a root directory, drives extraction, synthesis and
// patching for each one, and emits outcome records to the configured
// reporters.
package gen

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"metadesc"
)

// TypeFilter restricts discovery to one markup dialect.
type TypeFilter string

// Supported type filters.
const (
	FilterAll  TypeFilter = "all"
	FilterAdoc TypeFilter = "adoc"
	FilterXML  TypeFilter = "xml"
)

// Directories that hold navigation or reusable fragments rather than
// standalone pages.
var skipDirs = map[string]bool{
	"nav":        true,
	"navigation": true,
	"partials":   true,
}

// nav.adoc and nav-*.adoc are navigation files, not content pages.
var navFileRe = regexp.MustCompile(`(?i)^nav(?:-.+)?\.adoc$`)

// Discover walks root and returns the sorted paths of documents eligible
// for processing. Files and directories whose name starts with an
// underscore are skipped, as are navigation files and fragment
// directories.
func Discover(root string, filter TypeFilter) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || skipDirs[strings.ToLower(name)]) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") || navFileRe.MatchString(name) {
			return nil
		}
		format, ok := metadesc.DetectFormat(path)
		if !ok || !matchesFilter(format, filter) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func matchesFilter(format metadesc.Format, filter TypeFilter) bool {
	switch filter {
	case FilterAdoc:
		return format == metadesc.FormatAsciiDoc
	case FilterXML:
		return format == metadesc.FormatDocBook
	}
	return true
}
