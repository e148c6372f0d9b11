package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// ConfigLoader parses a YAML config file into a kong resolver. Keys match
// flag names; dashes and underscores are interchangeable, so both
// "banned-terms" and "banned_terms" work.
func ConfigLoader(r io.Reader) (kong.Resolver, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	values := map[string]any{}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	normalized := make(map[string]any, len(values))
	for k, v := range values {
		normalized[normalizeKey(k)] = v
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := normalized[normalizeKey(flag.Name)]
		if !ok {
			return nil, nil
		}
		return v, nil
	}
	return f, nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "-")
}
