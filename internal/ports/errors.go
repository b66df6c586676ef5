package ports

import (
	"errors"
	"fmt"
)

// ErrNotFound: la plateforme ne connaît pas le compte demandé.
var ErrNotFound = errors.New("not found")

// ErrAuth: credentials refusés par la plateforme. Fatal pour tout le run.
var ErrAuth = errors.New("unauthorized")

// TransportError covers network failures, timeouts and unexpected HTTP
// statuses from the platform. Never retried internally; the operator re-runs.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("transport: unexpected status %d", e.Status)
	}
	if e.Err != nil {
		return "transport: " + e.Err.Error()
	}
	return "transport error"
}

func (e *TransportError) Unwrap() error { return e.Err }

// DownloadError carries the external tool's exit code on non-zero exit.
type DownloadError struct {
	ExitCode int
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloader exited with code %d", e.ExitCode)
}

func (e *DownloadError) Unwrap() error { return e.Err }
