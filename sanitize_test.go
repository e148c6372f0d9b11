package metadesc_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"metadesc"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	t.Run("strips surrounding quotes and whitespace", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize(`  "Learn how to configure the network adapter and manage persistent storage volumes for clustered container workloads at scale"  `, nil, nil)

		assert.Equal(t, "Learn how to configure the network adapter and manage persistent storage volumes for clustered container workloads at scale", got)
	})

	t.Run("strips code fences", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("```\nConfigure the storage pool and replicate volumes across nodes to keep cluster data available during maintenance windows\n```", nil, nil)

		assert.Equal(t, "Configure the storage pool and replicate volumes across nodes to keep cluster data available during maintenance windows", got)
	})

	t.Run("removes banned terms case-insensitively and collapses spaces", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("Deploy the MegaCorp cluster stack and monitor workloads from a central dashboard built for administrators of large fleets", []string{"megacorp"}, nil)

		assert.Equal(t, "Deploy the cluster stack and monitor workloads from a central dashboard built for administrators of large fleets", got)
		assert.NotContains(t, got, "  ")
	})

	t.Run("corrects brand near-misses", func(t *testing.T) {
		t.Parallel()

		ctx := metadesc.NewEntityContext()
		ctx.Brands["acme"] = "Acme"

		got := metadesc.Sanitize("Deploy ACME tools and monitor workloads from a central dashboard built for administrators of large fleets and clusters", nil, ctx)

		assert.Contains(t, got, "Acme")
		assert.NotContains(t, got, "ACME")
	})

	t.Run("clamps overlong output on a word boundary", func(t *testing.T) {
		t.Parallel()

		long := "Configure " + strings.Repeat("the cluster nodes and storage pools ", 10)

		got := metadesc.Sanitize(long, nil, nil)

		assert.LessOrEqual(t, len(got), metadesc.MaxDescriptionLen)
		assert.False(t, strings.HasSuffix(got, " "))
	})

	t.Run("clamps overlong output by characters, not bytes", func(t *testing.T) {
		t.Parallel()

		long := "Configurez " + strings.Repeat("les nœuds du cluster et les réservoirs de stockage ", 10)

		got := metadesc.Sanitize(long, nil, nil)

		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), metadesc.MaxDescriptionLen)
	})

	t.Run("clamps unbroken multibyte text on a rune boundary", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize(strings.Repeat("é", 200), nil, nil)

		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, metadesc.MaxDescriptionLen, utf8.RuneCountInString(got))
	})

	t.Run("drops trailing stopwords and period", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("Learn how to configure networking components and deploy highly available services across all of the supported platforms and.", nil, nil)

		assert.False(t, strings.HasSuffix(got, "."))
		assert.False(t, strings.HasSuffix(got, "and"))
	})

	t.Run("rewrites apostrophe possessives", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("Manage the tool's settings and tune the scheduler to balance workloads across every node in the production cluster environment", nil, nil)

		assert.NotContains(t, got, "'")
		assert.Contains(t, got, "tools settings")
	})

	t.Run("removes self-referential openings", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("This guide describes how to configure networking components and deploy highly available services across supported platforms", nil, nil)

		assert.True(t, strings.HasPrefix(got, "How to configure"), got)
	})

	t.Run("returns empty when nothing usable remains", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("  MegaCorp  ", []string{"MegaCorp"}, nil)

		assert.Empty(t, got)
	})

	t.Run("capitalizes the first letter", func(t *testing.T) {
		t.Parallel()

		got := metadesc.Sanitize("configure the storage pool and replicate volumes across nodes to keep cluster data available during maintenance windows", nil, nil)

		assert.True(t, strings.HasPrefix(got, "Configure"))
	})
}
