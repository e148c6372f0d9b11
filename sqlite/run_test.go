package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metadesc"
	"metadesc/sqlite"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAuditStore(t *testing.T) {
	t.Parallel()

	t.Run("records outcomes under a run", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewAuditStore(openDB(t))
		require.NoError(t, store.BeginRun(ctx, "/docs", "all", false))
		require.NotEmpty(t, store.RunID())

		rec := &metadesc.OutcomeRecord{
			Path:        "/docs/index.adoc",
			Format:      metadesc.FormatAsciiDoc,
			Status:      metadesc.StatusWritten,
			Detail:      "Generated description",
			NewValue:    "Generated description",
			ContentHash: "deadbeefdeadbeef",
			RecordedAt:  time.Now(),
		}
		require.NoError(t, store.Record(ctx, rec))

		got, err := store.FindOutcomes(ctx, store.RunID())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, rec.Path, got[0].Path)
		assert.Equal(t, metadesc.FormatAsciiDoc, got[0].Format)
		assert.Equal(t, metadesc.StatusWritten, got[0].Status)
		assert.Equal(t, "Generated description", got[0].NewValue)
		assert.Equal(t, "deadbeefdeadbeef", got[0].ContentHash)
	})

	t.Run("flush persists the run counters", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewAuditStore(openDB(t))
		require.NoError(t, store.BeginRun(ctx, "/docs", "adoc", true))

		stats := &metadesc.RunStats{
			Scanned:          5,
			Written:          2,
			SkippedExisting:  1,
			SkippedNoExcerpt: 1,
			Errored:          1,
			Duration:         3 * time.Second,
		}
		require.NoError(t, store.Flush(ctx, stats))

		run, err := store.FindRunByID(ctx, store.RunID())
		require.NoError(t, err)
		assert.Equal(t, "/docs", run.Root)
		assert.Equal(t, "adoc", run.Filter)
		assert.True(t, run.DryRun)
		assert.Equal(t, 5, run.Stats.Scanned)
		assert.Equal(t, 2, run.Stats.Written)
		assert.Equal(t, 1, run.Stats.Errored)
		assert.Equal(t, 3*time.Second, run.Stats.Duration)
		assert.False(t, run.StartedAt.IsZero())
		assert.False(t, run.FinishedAt.IsZero())
	})

	t.Run("record before begin is an error", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewAuditStore(openDB(t))

		err := store.Record(ctx, &metadesc.OutcomeRecord{Path: "x", RecordedAt: time.Now()})
		require.Error(t, err)
		assert.Equal(t, metadesc.EINVALID, metadesc.ErrorCode(err))
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := sqlite.NewAuditStore(openDB(t))

		_, err := store.FindRunByID(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, metadesc.ENOTFOUND, metadesc.ErrorCode(err))
	})
}
