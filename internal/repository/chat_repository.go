package repository

import (
	"fmt"

	"gorm.io/gorm"

	"researchhub/internal/model"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(chat *model.Chat) error {
	if err := r.db.Create(chat).Error; err != nil {
		return fmt.Errorf("create chat failed: %w", err)
	}
	return nil
}

func (r *ChatRepository) ListByWorkspaceID(workspaceID uint) ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.Where("workspace_id = ?", workspaceID).Order("id ASC").Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("list chats failed: %w", err)
	}
	return chats, nil
}

// DeleteByWorkspaceID removes every turn for the workspace. Deleting an
// already-empty history is a no-op, not an error.
func (r *ChatRepository) DeleteByWorkspaceID(workspaceID uint) error {
	if err := r.db.Where("workspace_id = ?", workspaceID).Delete(&model.Chat{}).Error; err != nil {
		return fmt.Errorf("delete chats failed: %w", err)
	}
	return nil
}
