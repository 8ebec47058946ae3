package model

import "time"

// Project is a named, persisted snapshot of a chat session: generated files,
// uploaded assets and the transcript. Projects live inside the history
// document the project store keeps under a single storage key.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created"`
	UpdatedAt   time.Time `json:"updated"`
	Files       FileSet   `json:"files"`
	Assets      []Asset   `json:"assets"`
	ChatHistory []Message `json:"chatHistory"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (p Project) Clone() Project {
	out := p
	out.Files = p.Files.Clone()
	out.Assets = append([]Asset(nil), p.Assets...)
	out.ChatHistory = append([]Message(nil), p.ChatHistory...)
	return out
}
