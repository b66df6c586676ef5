package ports

import (
	"context"

	"github.com/vodkeeper/vodkeeper/internal/domain"
)

// PlatformClient wraps the three read queries the processor needs. All calls
// are synchronous and bounded by the client's own per-call timeout.
type PlatformClient interface {
	// ResolveChannelID maps a login to the platform user id.
	// Returns ErrNotFound when no account matches.
	ResolveChannelID(ctx context.Context, login string) (string, error)

	// IsLive reports whether the platform currently lists an active stream.
	IsLive(ctx context.Context, userID string) (bool, error)

	// LatestArchivedVOD returns the newest archived VOD by publish time, or
	// nil when the channel has no archives.
	LatestArchivedVOD(ctx context.Context, userID string) (*domain.VOD, error)
}

// Downloader invokes the external download tool. A non-zero exit surfaces as
// *DownloadError; no retries, no partial-file cleanup.
type Downloader interface {
	Download(ctx context.Context, url, cookiesPath, destPath string) error
}

type StateStore interface {
	// Load returns the zero state when no file exists at path.
	Load(path string) (domain.ProcessingState, error)
	Save(path string, state domain.ProcessingState) error
}

// ArchiveHistory est l'index local des VODs déjà archivées. Best-effort:
// une erreur d'écriture est loggée, jamais bloquante.
type ArchiveHistory interface {
	Record(ctx context.Context, entry domain.ArchiveEntry) error
	List(ctx context.Context, limit int) ([]domain.ArchiveEntry, error)
	LatestForChannel(ctx context.Context, login string) (domain.ArchiveEntry, error)
}
