package store

import (
	"context"

	"kanban-cli/internal/model"
)

// CardRepository is the backend as the store sees it. *api.Client implements it; tests inject
// in-memory fakes.
type CardRepository interface {
	ListCards(ctx context.Context, projectID model.ProjectID) ([]model.Card, error)
	GetCard(ctx context.Context, projectID model.ProjectID, id int64) (model.Card, error)
	CreateCard(ctx context.Context, projectID model.ProjectID, f model.CardFields) (model.Card, error)
	UpdateCard(ctx context.Context, projectID model.ProjectID, id int64, p model.CardPatch) (model.Card, error)
	ArchiveCard(ctx context.Context, projectID model.ProjectID, id int64) error
	RestoreCard(ctx context.Context, projectID model.ProjectID, id int64) error
	DeleteCard(ctx context.Context, projectID model.ProjectID, id int64) error
}
