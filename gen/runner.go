package gen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"metadesc"
)

// Runner processes every discovered document in sequence. Documents are
// independent: a failure on one is recorded and the run moves on, so a
// single malformed file never aborts a tree-wide pass.
type Runner struct {
	Extractors  map[metadesc.Format]metadesc.Extractor
	Patchers    map[metadesc.Format]metadesc.Patcher
	Synthesizer metadesc.Synthesizer
	Validator   metadesc.Validator
	Reporter    metadesc.Reporter
	Logger      *slog.Logger

	// Force regenerates descriptions for documents that already carry one.
	Force bool

	// DryRun previews every change without writing any file.
	DryRun bool
}

// Run discovers documents under root and processes each one. The returned
// stats cover every discovered document; the error is non-nil only for
// run-level failures such as a missing root directory.
func (r *Runner) Run(ctx context.Context, root string, filter TypeFilter) (*metadesc.RunStats, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, metadesc.Errorf(metadesc.ENOTFOUND, "root directory %s: %v", root, err)
	}
	if !info.IsDir() {
		return nil, metadesc.Errorf(metadesc.EINVALID, "root %s is not a directory", root)
	}

	paths, err := Discover(root, filter)
	if err != nil {
		return nil, metadesc.Errorf(metadesc.EINTERNAL, "discovering documents: %v", err)
	}
	logger.Info("run started", "root", root, "filter", string(filter), "documents", len(paths), "dry_run", r.DryRun)

	start := time.Now()
	stats := &metadesc.RunStats{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec := r.processOne(ctx, path)
		stats.Add(rec)
		if r.Reporter != nil {
			if err := r.Reporter.Record(ctx, rec); err != nil {
				logger.Warn("recording outcome failed", "path", path, "error", err)
			}
		}
	}
	stats.Duration = time.Since(start)

	if r.Reporter != nil {
		if err := r.Reporter.Flush(ctx, stats); err != nil {
			logger.Warn("flushing reporters failed", "error", err)
		}
	}
	logger.Info("run finished",
		"scanned", stats.Scanned,
		"changed", stats.Changed(),
		"errors", stats.Errored,
		"duration", stats.Duration.Round(time.Millisecond).String(),
	)
	return stats, nil
}

// processOne takes a single document through the full pipeline and always
// returns a terminal outcome record.
func (r *Runner) processOne(ctx context.Context, path string) *metadesc.OutcomeRecord {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	format, _ := metadesc.DetectFormat(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return errorRecord(path, format, metadesc.Errorf(metadesc.EINTERNAL, "reading document: %v", err))
	}
	doc := &metadesc.Document{Path: path, Format: format, Content: string(raw)}

	patcher, ok := r.Patchers[format]
	if !ok {
		return errorRecord(path, format, metadesc.Errorf(metadesc.EINTERNAL, "no patcher for format %q", format))
	}

	// Existing descriptions are checked before any model call so repeated
	// runs over an already-annotated tree cost nothing.
	existing, hasDescription := patcher.ExistingDescription(doc)
	if hasDescription && !r.Force {
		logger.Debug("description already present", "path", path)
		return &metadesc.OutcomeRecord{
			Path:        path,
			Format:      format,
			Status:      metadesc.StatusSkippedExisting,
			Detail:      "description already present",
			OldValue:    existing,
			ContentHash: contentHash(doc.Content),
			RecordedAt:  time.Now(),
		}
	}

	extractor, ok := r.Extractors[format]
	if !ok {
		return errorRecord(path, format, metadesc.Errorf(metadesc.EINTERNAL, "no extractor for format %q", format))
	}
	excerpt, err := extractor.Extract(doc)
	if err != nil {
		if metadesc.ErrorCode(err) == metadesc.ENOEXCERPT {
			logger.Debug("no usable prose", "path", path)
			return &metadesc.OutcomeRecord{
				Path:        path,
				Format:      format,
				Status:      metadesc.StatusSkippedNoExcerpt,
				Detail:      metadesc.ErrorMessage(err),
				ContentHash: contentHash(doc.Content),
				RecordedAt:  time.Now(),
			}
		}
		return errorRecord(path, format, err)
	}

	candidate, err := r.Synthesizer.Synthesize(ctx, excerpt)
	if err != nil {
		return errorRecord(path, format, err)
	}
	if r.Validator != nil {
		candidate = r.Validator.Validate(ctx, candidate)
	}

	result, err := patcher.Patch(doc, candidate.Text)
	if err != nil {
		return errorRecord(path, format, err)
	}
	oldValue := existing
	if result.Replaced {
		oldValue = result.OldValue
	}

	if r.DryRun {
		logger.Debug("dry-run preview", "path", path, "description", candidate.Text)
		return &metadesc.OutcomeRecord{
			Path:        path,
			Format:      format,
			Status:      metadesc.StatusDryRun,
			Detail:      candidate.Text,
			OldValue:    oldValue,
			NewValue:    candidate.Text,
			ContentHash: contentHash(result.Content),
			RecordedAt:  time.Now(),
		}
	}

	if err := writeAtomic(path, result.Content); err != nil {
		return errorRecord(path, format, metadesc.Errorf(metadesc.EINTERNAL, "writing document: %v", err))
	}
	logger.Debug("description written", "path", path, "length", candidate.Len(), "retried", candidate.Retried)
	return &metadesc.OutcomeRecord{
		Path:        path,
		Format:      format,
		Status:      metadesc.StatusWritten,
		Detail:      candidate.Text,
		OldValue:    oldValue,
		NewValue:    candidate.Text,
		ContentHash: contentHash(result.Content),
		RecordedAt:  time.Now(),
	}
}

func errorRecord(path string, format metadesc.Format, err error) *metadesc.OutcomeRecord {
	return &metadesc.OutcomeRecord{
		Path:       path,
		Format:     format,
		Status:     metadesc.StatusError,
		Detail:     metadesc.ErrorMessage(err),
		ErrCode:    metadesc.ErrorCode(err),
		RecordedAt: time.Now(),
	}
}

func contentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// writeAtomic replaces the file at path with content via a same-directory
// temp file and rename, preserving the original file mode. A crashed run
// never leaves a half-written document behind.
func writeAtomic(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
