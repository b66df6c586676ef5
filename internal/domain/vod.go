package domain

import "time"

// VOD is an archived broadcast as reported by the platform. Read-only for us:
// we never create or mutate one, only reference it.
type VOD struct {
	ID          string
	UserID      string
	Title       string
	Description string
	URL         string
	PublishedAt time.Time
}
