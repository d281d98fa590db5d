package model

import (
	"time"
)

type MediaFile struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"original_name"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	Size         int64     `db:"size" json:"size"`
	StoragePath  string    `db:"storage_path" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Computed fields (not in database)
	URL string `db:"-" json:"url"`
}
