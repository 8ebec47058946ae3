package model

import "time"

const (
	RoleUser   = "user"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Message is one chat transcript entry. Content is stored as rendered and is
// re-injected verbatim when a project is loaded. The same struct doubles as
// the MySQL archive row written by the async worker.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ProjectID string    `gorm:"size:64;index" json:"project_id,omitempty"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
