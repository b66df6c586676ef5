package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/domain"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func entry(channel, vodID string, downloadedAt time.Time) domain.ArchiveEntry {
	return domain.ArchiveEntry{
		ID:           channel + "-" + vodID,
		Channel:      channel,
		VODID:        vodID,
		Title:        "t",
		PublishedAt:  downloadedAt.Add(-time.Hour),
		VideoPath:    "/out/" + vodID + ".mp4",
		DownloadedAt: downloadedAt,
	}
}

func TestHistory_RecordAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db.SQL)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)
	for i, e := range []domain.ArchiveEntry{
		entry("foo", "100", base),
		entry("foo", "101", base.Add(time.Hour)),
		entry("bar", "500", base.Add(2*time.Hour)),
	} {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	got, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Tri décroissant par downloaded_at.
	if got[0].VODID != "500" || got[2].VODID != "100" {
		t.Fatalf("order = %s,%s,%s", got[0].VODID, got[1].VODID, got[2].VODID)
	}
}

func TestHistory_LatestForChannel(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db.SQL)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)
	_ = repo.Record(ctx, entry("foo", "100", base))
	_ = repo.Record(ctx, entry("foo", "101", base.Add(time.Hour)))

	latest, err := repo.LatestForChannel(ctx, "foo")
	if err != nil {
		t.Fatalf("LatestForChannel: %v", err)
	}
	if latest.VODID != "101" {
		t.Fatalf("latest = %q, want 101", latest.VODID)
	}

	_, err = repo.LatestForChannel(ctx, "ghost")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistory_RecordUpsertsSameVOD(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db.SQL)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)
	if err := repo.Record(ctx, entry("foo", "100", base)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	again := entry("foo", "100", base.Add(time.Hour))
	again.VideoPath = "/out/redownloaded.mp4"
	if err := repo.Record(ctx, again); err != nil {
		t.Fatalf("Record again: %v", err)
	}

	got, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (upsert)", len(got))
	}
	if got[0].VideoPath != "/out/redownloaded.mp4" {
		t.Fatalf("path = %q", got[0].VideoPath)
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	_ = db.Close()

	db, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	_ = db.Close()
}
