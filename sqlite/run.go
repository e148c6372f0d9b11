package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"metadesc"
)

// Compile-time interface verification.
var _ metadesc.Reporter = (*AuditStore)(nil)

// Run is a persisted generation run with its aggregated counters.
type Run struct {
	ID         string
	Root       string
	Filter     string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      metadesc.RunStats
}

// AuditStore persists per-document outcomes and run-level counters so past
// runs can be inspected after the fact. It implements metadesc.Reporter:
// BeginRun must be called before the run starts, Flush closes it out.
type AuditStore struct {
	db    *DB
	runID string
}

// NewAuditStore creates an AuditStore on top of an open database.
func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

// RunID returns the identifier of the current run. Empty before BeginRun.
func (s *AuditStore) RunID() string {
	return s.runID
}

// BeginRun opens a new run row and makes it the target of subsequent
// Record and Flush calls.
func (s *AuditStore) BeginRun(ctx context.Context, root, filter string, dryRun bool) error {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, filter, dry_run, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, root, filter, boolToInt(dryRun), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	s.runID = id
	return nil
}

// Record persists a single outcome under the current run.
func (s *AuditStore) Record(ctx context.Context, rec *metadesc.OutcomeRecord) error {
	if s.runID == "" {
		return metadesc.Errorf(metadesc.EINVALID, "audit store has no open run")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (id, run_id, path, format, status, detail, old_value, new_value, err_code, content_hash, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), s.runID, rec.Path, string(rec.Format), string(rec.Status),
		rec.Detail, rec.OldValue, rec.NewValue, rec.ErrCode, rec.ContentHash,
		rec.RecordedAt.UTC().Format(time.RFC3339))
	return err
}

// Flush writes the final counters and finish time to the current run.
func (s *AuditStore) Flush(ctx context.Context, stats *metadesc.RunStats) error {
	if s.runID == "" {
		return metadesc.Errorf(metadesc.EINVALID, "audit store has no open run")
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, scanned = ?, written = ?, skipped_existing = ?,
			skipped_no_excerpt = ?, previewed = ?, errored = ?, duration_ms = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), stats.Scanned, stats.Written,
		stats.SkippedExisting, stats.SkippedNoExcerpt, stats.Previewed,
		stats.Errored, stats.Duration.Milliseconds(), s.runID)
	return err
}

// FindRunByID retrieves a run with its counters.
func (s *AuditStore) FindRunByID(ctx context.Context, id string) (*Run, error) {
	var run Run
	var dryRun int
	var startedAt, finishedAt string
	var durationMS int64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, root, filter, dry_run, started_at, finished_at,
			scanned, written, skipped_existing, skipped_no_excerpt, previewed, errored, duration_ms
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Root, &run.Filter, &dryRun, &startedAt, &finishedAt,
		&run.Stats.Scanned, &run.Stats.Written, &run.Stats.SkippedExisting,
		&run.Stats.SkippedNoExcerpt, &run.Stats.Previewed, &run.Stats.Errored, &durationMS)

	if err == sql.ErrNoRows {
		return nil, metadesc.Errorf(metadesc.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.DryRun = dryRun != 0
	run.Stats.Duration = time.Duration(durationMS) * time.Millisecond
	if run.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt != "" {
		if run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
	}
	return &run, nil
}

// FindOutcomes retrieves the outcomes of a run in recording order.
func (s *AuditStore) FindOutcomes(ctx context.Context, runID string) ([]*metadesc.OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, format, status, detail, old_value, new_value, err_code, content_hash, recorded_at
		FROM outcomes
		WHERE run_id = ?
		ORDER BY recorded_at ASC, path ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*metadesc.OutcomeRecord
	for rows.Next() {
		var rec metadesc.OutcomeRecord
		var format, status, recordedAt string

		if err := rows.Scan(&rec.Path, &format, &status, &rec.Detail, &rec.OldValue,
			&rec.NewValue, &rec.ErrCode, &rec.ContentHash, &recordedAt); err != nil {
			return nil, err
		}
		rec.Format = metadesc.Format(format)
		rec.Status = metadesc.Status(status)
		if rec.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
