// Package metadesc generates meta descriptions for documentation trees.
// It scans AsciiDoc and DocBook files, extracts a bounded prose excerpt
// from each document, asks a locally hosted language model for a short
// descriptive sentence, sanitizes the result, and writes it back into
// the document in a format-appropriate way.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., ollama/, asciidoc/,
// docbook/, sqlite/).
package metadesc
