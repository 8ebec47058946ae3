package model

import (
	"strings"
	"time"
)

// Asset is a user-uploaded resource (image/audio/font/data) referenced by
// generated code. Payload holds the full data URL so generated script
// constants can embed it directly.
type Asset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Asset) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}
