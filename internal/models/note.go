// Package models defines the domain types returned by memopad commands.
package models

// NoteMetadata describes a note file. Timestamps are milliseconds since the epoch.
// It is recomputed from the filesystem on every call.
type NoteMetadata struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	ModifiedAt uint64 `json:"modified_at"`
	CreatedAt  uint64 `json:"created_at"`
}

// NoteFile is a note together with its full text.
type NoteFile struct {
	NoteMetadata
	Content string `json:"content"`
}

// InstalledFont describes a font copied into the application's fonts directory.
// Filename is always "<ID>.<Format>".
type InstalledFont struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	InstalledAt uint64 `json:"installed_at"`
}

// FontFile is what can be recovered about an installed font from disk alone.
// Labels are held by the caller.
type FontFile struct {
	ID          string `json:"id"`
	Format      string `json:"format"`
	Filename    string `json:"filename"`
	InstalledAt uint64 `json:"installed_at"`
}
