package history

import (
	"context"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder appends entries to the history tables. Appends are best effort:
// a failed write is logged and counted, never returned.
type Recorder struct {
	db  *gorm.DB
	now func() time.Time
}

// RecorderOption configures a Recorder
type RecorderOption func(*Recorder)

// WithClock sets the clock stamping created_at
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder returns a recorder writing to db
func NewRecorder(db *gorm.DB, opts ...RecorderOption) *Recorder {
	r := &Recorder{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Append persists one history entry for the entity. It must be called only
// after the primary mutation committed.
func (r *Recorder) Append(ctx context.Context, kind model.EntityKind, entityID uint, changes Changes) {
	log := logger.FromCtx(ctx).With(
		zap.String("kind", string(kind)),
		zap.Uint("entity_id", entityID),
		zap.String("action", string(changes.Action())),
	)

	err := r.append(ctx, kind, entityID, changes)
	prometheus.RecordHistoryAppend(string(kind), string(changes.Action()), err)
	if err != nil {
		log.Error("Failed to record history entry", zap.Error(err))
		return
	}
	log.Debug("History entry recorded")
}

func (r *Recorder) append(ctx context.Context, kind model.EntityKind, entityID uint, changes Changes) error {
	payload, err := Encode(kind, changes)
	if err != nil {
		return err
	}

	entry := model.HistoryEntry{
		EntityID:   entityID,
		ActionType: changes.Action(),
		Changes:    payload,
		CreatedAt:  r.now().UTC(),
	}
	return r.db.WithContext(ctx).Table(kind.HistoryTable()).Create(&entry).Error
}
