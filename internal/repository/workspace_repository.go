package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"researchhub/internal/model"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(workspace *model.Workspace) error {
	if err := r.db.Create(workspace).Error; err != nil {
		return fmt.Errorf("create workspace failed: %w", err)
	}
	return nil
}

func (r *WorkspaceRepository) ListByUserID(userID uint) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&workspaces).Error; err != nil {
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	return workspaces, nil
}

// GetByIDAndUserID is the ownership check used before every workspace-scoped
// operation. A workspace owned by someone else reads as absent.
func (r *WorkspaceRepository) GetByIDAndUserID(workspaceID, userID uint) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := r.db.Where("id = ? AND user_id = ?", workspaceID, userID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace failed: %w", err)
	}
	return &workspace, nil
}
