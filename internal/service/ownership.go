package service

import (
	"context"

	"cutroom/internal/model"
	"cutroom/internal/repository"
)

func ownedProject(ctx context.Context, repo repository.ProjectRepository, projectID, userID string) (*model.Project, error) {
	project, err := repo.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, ErrForbidden
	}
	return project, nil
}
