package metadesc

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies the markup dialect of a document.
type Format string

// Supported markup dialects.
const (
	FormatAsciiDoc Format = "asciidoc"
	FormatDocBook  Format = "docbook"
)

// DetectFormat returns the format for a file path based on its extension.
// The second return value is false when the extension belongs to neither
// supported dialect.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".adoc":
		return FormatAsciiDoc, true
	case ".xml":
		return FormatDocBook, true
	}
	return "", false
}

// Document represents a documentation file being processed. It is read once
// at the start of processing, held in memory, and written back at most once.
type Document struct {
	Path    string
	Format  Format
	Content string
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Path == "" {
		return Errorf(EINVALID, "document path required")
	}
	if d.Format != FormatAsciiDoc && d.Format != FormatDocBook {
		return Errorf(EINVALID, "unsupported document format %q", d.Format)
	}
	return nil
}

// Status classifies the terminal outcome of processing one document.
type Status string

// Status constants for OutcomeRecord.
const (
	StatusWritten          Status = "written"
	StatusSkippedExisting  Status = "skipped-existing"
	StatusSkippedNoExcerpt Status = "skipped-no-excerpt"
	StatusDryRun           Status = "dry-run-preview"
	StatusError            Status = "error"
)

// OutcomeRecord captures the decision made for a single document.
// Records are immutable once created and accumulated into a run-level
// list for reporting.
type OutcomeRecord struct {
	Path        string
	Format      Format
	Status      Status
	Detail      string // new description, skip reason, or error message
	OldValue    string // previous description when one existed
	NewValue    string // description written (or previewed in dry-run mode)
	ErrCode     string // application error code when Status is StatusError
	ContentHash string // hash of the document content after processing
	RecordedAt  time.Time
}

// RunStats aggregates outcome counts for a run.
type RunStats struct {
	Scanned          int
	Written          int
	SkippedExisting  int
	SkippedNoExcerpt int
	Previewed        int
	Errored          int
	Duration         time.Duration
}

// Add updates the counters for a single outcome.
func (s *RunStats) Add(rec *OutcomeRecord) {
	s.Scanned++
	switch rec.Status {
	case StatusWritten:
		s.Written++
	case StatusSkippedExisting:
		s.SkippedExisting++
	case StatusSkippedNoExcerpt:
		s.SkippedNoExcerpt++
	case StatusDryRun:
		s.Previewed++
	case StatusError:
		s.Errored++
	}
}

// Changed returns the number of documents that were (or would be) modified.
func (s *RunStats) Changed() int {
	return s.Written + s.Previewed
}
