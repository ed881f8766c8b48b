package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"researchhub/internal/model"
)

type PaperRepository struct {
	db *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{db: db}
}

func (r *PaperRepository) Create(paper *model.Paper) error {
	if err := r.db.Create(paper).Error; err != nil {
		return fmt.Errorf("create paper failed: %w", err)
	}
	return nil
}

// ListByWorkspaceID returns the workspace's papers in insertion order. The
// retrieval fallback depends on this ordering being stable.
func (r *PaperRepository) ListByWorkspaceID(workspaceID uint) ([]model.Paper, error) {
	var papers []model.Paper
	if err := r.db.Where("workspace_id = ?", workspaceID).Order("id ASC").Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("list papers failed: %w", err)
	}
	return papers, nil
}

func (r *PaperRepository) GetByID(id uint) (*model.Paper, error) {
	var paper model.Paper
	if err := r.db.First(&paper, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get paper failed: %w", err)
	}
	return &paper, nil
}

func (r *PaperRepository) DeleteByID(id uint) error {
	if err := r.db.Delete(&model.Paper{}, id).Error; err != nil {
		return fmt.Errorf("delete paper failed: %w", err)
	}
	return nil
}
