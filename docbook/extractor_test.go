package docbook_test

import (
	"os"
	"path/filepath"
	"testing"

	"metadesc"
	"metadesc/docbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xmlDoc(path, content string) *metadesc.Document {
	return &metadesc.Document{
		Path:    path,
		Format:  metadesc.FormatDocBook,
		Content: content,
	}
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("collects paragraph text in document order", func(t *testing.T) {
		t.Parallel()

		src := `<?xml version="1.0"?>
<chapter xmlns="http://docbook.org/ns/docbook">
  <title>Networking</title>
  <para>Configure the network adapter so the service can reach the
  management endpoint.</para>
  <para>Enable the firewall zone for the cluster interfaces.</para>
</chapter>`
		e := docbook.NewExtractor(nil)

		got, err := e.Extract(xmlDoc("ch1.xml", src))

		require.NoError(t, err)
		assert.Contains(t, got, "Configure the network adapter")
		assert.Contains(t, got, "Enable the firewall zone")
		assert.NotContains(t, got, "<para>")
	})

	t.Run("prefers the info abstract", func(t *testing.T) {
		t.Parallel()

		src := `<chapter>
  <info>
    <title>Storage</title>
    <abstract><para>Manage persistent storage volumes for clustered workloads
    across every node in the fleet.</para></abstract>
  </info>
  <para>Unrelated body text that should not win over the abstract.</para>
</chapter>`
		e := docbook.NewExtractor(nil)

		got, err := e.Extract(xmlDoc("ch2.xml", src))

		require.NoError(t, err)
		assert.Contains(t, got, "Manage persistent storage volumes")
		assert.NotContains(t, got, "Unrelated body text")
	})

	t.Run("skips non-content elements", func(t *testing.T) {
		t.Parallel()

		src := `<chapter>
  <para>Review the upgrade prerequisites before touching the control plane
  nodes of the production environment.</para>
  <indexterm><primary>upgrade</primary></indexterm>
  <programlisting>rm -rf / # never extract this</programlisting>
  <table><title>Matrix</title></table>
  <remark>editorial note</remark>
</chapter>`
		e := docbook.NewExtractor(nil)

		got, err := e.Extract(xmlDoc("ch3.xml", src))

		require.NoError(t, err)
		assert.Contains(t, got, "Review the upgrade prerequisites")
		assert.NotContains(t, got, "rm -rf")
		assert.NotContains(t, got, "Matrix")
		assert.NotContains(t, got, "editorial note")
	})

	t.Run("resolves brand entity references", func(t *testing.T) {
		t.Parallel()

		entities := metadesc.NewEntityContext()
		entities.Brands["prod"] = "Acme Widget"

		src := `<chapter>
  <para>Deploy &prod; on the cluster and register &unknown; each node with
  the management service.</para>
</chapter>`
		e := docbook.NewExtractor(entities)

		got, err := e.Extract(xmlDoc("ch4.xml", src))

		require.NoError(t, err)
		assert.Contains(t, got, "Acme Widget")
		assert.NotContains(t, got, "&unknown;")
	})

	t.Run("set documents yield a table of contents", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ch1 := `<chapter><info><title>Installing the Widget</title></info></chapter>`
		ch2 := `<chapter><info><title>Operating the Widget Fleet</title></info></chapter>`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ch1.xml"), []byte(ch1), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "ch2.xml"), []byte(ch2), 0644))

		src := `<set xmlns:xi="http://www.w3.org/2001/XInclude">
  <xi:include href="ch1.xml"/>
  <xi:include href="ch2.xml"/>
  <xi:include href="missing.xml"/>
</set>`
		e := docbook.NewExtractor(nil)

		got, err := e.Extract(xmlDoc(filepath.Join(dir, "set.xml"), src))

		require.NoError(t, err)
		assert.Contains(t, got, "- Installing the Widget")
		assert.Contains(t, got, "- Operating the Widget Fleet")
	})

	t.Run("code and tables only yields no excerpt", func(t *testing.T) {
		t.Parallel()

		src := `<chapter>
  <programlisting>code only</programlisting>
  <table><title>t</title></table>
</chapter>`
		e := docbook.NewExtractor(nil)

		_, err := e.Extract(xmlDoc("ch5.xml", src))

		assert.Equal(t, metadesc.ENOEXCERPT, metadesc.ErrorCode(err))
	})
}
