package domain

import "time"

// Kind distinguishes a single uploaded file from a folder-style batch.
type Kind string

const (
	KindSingle Kind = "single"
	KindBatch  Kind = "batch"
)

// ContentEntry is one physical file inside an artifact. StorageName is the
// generated blob key; the user-supplied name is kept only for presentation.
type ContentEntry struct {
	StorageName string `json:"storageName"`
	DisplayName string `json:"displayName"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType"`
}

// Artifact is one uploaded unit, single file or batch, tracked under one
// access code and one expiration clock.
type Artifact struct {
	ID         string         `json:"id"`
	AccessCode string         `json:"accessCode"`
	Kind       Kind           `json:"kind"`
	Entries    []ContentEntry `json:"entries"`
	TotalSize  int64          `json:"totalSize"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExpiresAt  time.Time      `json:"expiresAt"`
}

// Live reports whether the artifact is still retrievable at the given time.
func (a *Artifact) Live(now time.Time) bool {
	return a.ExpiresAt.After(now)
}

// Entry returns the content entry with the given storage name, or nil.
func (a *Artifact) Entry(storageName string) *ContentEntry {
	for i := range a.Entries {
		if a.Entries[i].StorageName == storageName {
			return &a.Entries[i]
		}
	}
	return nil
}

// DefaultLifetime is used when the client sends an unknown duration token.
const DefaultLifetime = time.Hour

var lifetimes = map[string]time.Duration{
	"2min": 2 * time.Minute,
	"5min": 5 * time.Minute,
	"1hr":  time.Hour,
	"5hr":  5 * time.Hour,
	"1day": 24 * time.Hour,
}

// Lifetime maps a duration token to a concrete lifetime. Unrecognized tokens
// fall back to DefaultLifetime rather than erroring, which existing clients
// rely on.
func Lifetime(token string) time.Duration {
	if d, ok := lifetimes[token]; ok {
		return d
	}
	return DefaultLifetime
}
