package statefile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/domain"
)

// Store persists one JSON ProcessingState record per channel. Single-process
// ownership is assumed: no file locking, pas de writers concurrents.
type Store struct{}

func New() *Store { return &Store{} }

type record struct {
	LastVODID          *string `json:"last_vod_id"`
	LastVODPublishedAt *string `json:"last_vod_published_at"`
}

// Load returns the zero state when no file exists at path: a first run is
// indistinguishable from "never succeeded".
func (s *Store) Load(path string) (domain.ProcessingState, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.ProcessingState{}, nil
	}
	if err != nil {
		return domain.ProcessingState{}, err
	}

	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.ProcessingState{}, err
	}

	st := domain.ProcessingState{}
	if rec.LastVODID != nil {
		st.LastVODID = *rec.LastVODID
	}
	if rec.LastVODPublishedAt != nil && *rec.LastVODPublishedAt != "" {
		t, err := time.Parse(time.RFC3339, *rec.LastVODPublishedAt)
		if err != nil {
			return domain.ProcessingState{}, err
		}
		st.LastVODPublishedAt = t
	}
	return st, nil
}

func (s *Store) Save(path string, state domain.ProcessingState) error {
	rec := record{}
	if state.LastVODID != "" {
		rec.LastVODID = &state.LastVODID
	}
	if !state.LastVODPublishedAt.IsZero() {
		published := state.LastVODPublishedAt.UTC().Format(time.RFC3339)
		rec.LastVODPublishedAt = &published
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// ResolvePath picks the state file for a channel. Without an override the
// file lives under <outputRoot>/state/<channel>.json. In multi-channel mode
// an override is treated as a directory when it is one (or looks like one),
// otherwise the per-channel file lands next to it.
func ResolvePath(override, outputRoot, channel string, multi bool) string {
	if strings.TrimSpace(override) == "" {
		return filepath.Join(outputRoot, "state", channel+".json")
	}
	if !multi {
		return override
	}
	if fi, err := os.Stat(override); err == nil {
		if fi.IsDir() {
			return filepath.Join(override, channel+".json")
		}
		return filepath.Join(filepath.Dir(override), channel+".json")
	}
	if strings.EqualFold(filepath.Ext(override), ".json") {
		return filepath.Join(filepath.Dir(override), channel+".json")
	}
	return filepath.Join(override, channel+".json")
}
