package store

import "time"

// Meta describes the mirrored snapshot.
type Meta struct {
	// Token is the remote blob sha the snapshot was taken at.
	Token     string    `json:"token"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Count     int       `json:"count"`
	SizeBytes int64     `json:"size_bytes"`
	SHA256    string    `json:"sha256"`

	LastChecked time.Time `json:"last_checked"`
}
