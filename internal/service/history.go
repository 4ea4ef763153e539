package service

import (
	"context"

	"inventory-service/internal/history"
	"inventory-service/internal/model"
)

// HistoryLog receives the change records of committed mutations. Append
// must not fail the caller; history.Recorder swallows its own errors.
type HistoryLog interface {
	Append(ctx context.Context, kind model.EntityKind, entityID uint, changes history.Changes)
}

// HistoryReader lists recorded changes
type HistoryReader interface {
	ListForEntity(ctx context.Context, kind model.EntityKind, entityID uint) ([]history.Entry, error)
	ListRecent(ctx context.Context, kind model.EntityKind, limit int) ([]history.Entry, error)
}
