package app

import (
	"strings"

	"researchhub/internal/model"
	"researchhub/internal/repository"
)

type WorkspaceService struct {
	workspaceRepo *repository.WorkspaceRepository
}

func NewWorkspaceService(workspaceRepo *repository.WorkspaceRepository) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

type CreateWorkspaceInput struct {
	UserID uint
	Name   string
}

func (s *WorkspaceService) Create(input CreateWorkspaceInput) (*model.Workspace, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	workspace := &model.Workspace{Name: name, UserID: input.UserID}
	if err := s.workspaceRepo.Create(workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

func (s *WorkspaceService) List(userID uint) ([]model.Workspace, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.workspaceRepo.ListByUserID(userID)
}
