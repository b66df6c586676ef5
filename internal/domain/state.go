package domain

import "time"

// ProcessingState est l'enregistrement durable de progression par chaîne.
// LastVODID n'avance que lorsqu'un téléchargement + sidecar ont entièrement
// réussi; un échec laisse l'état précédent intact.
type ProcessingState struct {
	LastVODID          string
	LastVODPublishedAt time.Time
}

func (s ProcessingState) Empty() bool {
	return s.LastVODID == ""
}

// ArchiveEntry is one row of the local download history index.
type ArchiveEntry struct {
	ID           string
	Channel      string
	VODID        string
	Title        string
	PublishedAt  time.Time
	VideoPath    string
	DownloadedAt time.Time
}
