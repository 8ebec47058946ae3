package repository

import (
	"fmt"

	"gorm.io/gorm"

	"genweb/internal/model"
)

// MessageRepository reads and writes the durable chat archive in MySQL.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

// ListByProjectID returns archived messages for one project in chat order.
// An empty projectID lists messages archived before any project existed.
func (r *MessageRepository) ListByProjectID(projectID string, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var messages []model.Message
	if err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list archived messages failed: %w", err)
	}
	return messages, nil
}
