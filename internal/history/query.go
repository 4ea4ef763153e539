package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-service/internal/model"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLimit caps ListRecent when no limit is given
const DefaultLimit = 100

// MaxLimit caps ListRecent whatever limit is asked for
const MaxLimit = 500

// LabelSource resolves display labels for entity ids. Ids without a label
// are left out of the result.
type LabelSource interface {
	Labels(ctx context.Context, ids []uint) (map[uint]string, error)
}

// Entry is a decoded history entry with its display label
type Entry struct {
	ID         uint
	Kind       model.EntityKind
	EntityID   uint
	ActionType model.ActionType
	Changes    Changes
	CreatedAt  time.Time
	Label      string
}

// MarshalJSON renders the entry in the persisted shape plus its label
func (e Entry) MarshalJSON() ([]byte, error) {
	changes, err := Encode(e.Kind, e.Changes)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ID         uint             `json:"id"`
		EntityID   uint             `json:"entity_id"`
		ActionType model.ActionType `json:"action_type"`
		Changes    json.RawMessage  `json:"changes"`
		CreatedAt  time.Time        `json:"created_at"`
		Label      string           `json:"label"`
	}{e.ID, e.EntityID, e.ActionType, changes, e.CreatedAt, e.Label})
}

// FallbackLabel is the label of an entity that no longer resolves
func FallbackLabel(kind model.EntityKind, id uint) string {
	return fmt.Sprintf("%s #%d", kind.Title(), id)
}

// Query reads the history tables, newest entries first
type Query struct {
	db           *gorm.DB
	labels       map[model.EntityKind]LabelSource
	defaultLimit int
}

// NewQuery returns a query service. labels may lack a kind; its entries then
// carry fallback labels.
func NewQuery(db *gorm.DB, labels map[model.EntityKind]LabelSource, defaultLimit int) *Query {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Query{db: db, labels: labels, defaultLimit: defaultLimit}
}

// ListForEntity returns every entry of one entity. On failure it returns an
// empty slice along with the error.
func (q *Query) ListForEntity(ctx context.Context, kind model.EntityKind, entityID uint) ([]Entry, error) {
	defer prometheus.TrackDBOperation(string(kind) + "_history_list")(time.Now())

	var rows []model.HistoryEntry
	err := q.db.WithContext(ctx).
		Table(kind.HistoryTable()).
		Where("entity_id = ?", entityID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		logger.FromCtx(ctx).Error("Failed to load history",
			zap.String("kind", string(kind)),
			zap.Uint("entity_id", entityID),
			zap.Error(err))
		return []Entry{}, err
	}
	return q.decorate(ctx, kind, rows), nil
}

// ListRecent returns the latest entries across all entities of kind, capped
// at limit (the default limit when limit <= 0, MaxLimit at most). On failure
// it returns an empty slice along with the error.
func (q *Query) ListRecent(ctx context.Context, kind model.EntityKind, limit int) ([]Entry, error) {
	defer prometheus.TrackDBOperation(string(kind) + "_history_list")(time.Now())

	if limit <= 0 {
		limit = q.defaultLimit
	}
	limit = min(limit, MaxLimit)

	var rows []model.HistoryEntry
	err := q.db.WithContext(ctx).
		Table(kind.HistoryTable()).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		logger.FromCtx(ctx).Error("Failed to load recent history",
			zap.String("kind", string(kind)),
			zap.Int("limit", limit),
			zap.Error(err))
		return []Entry{}, err
	}
	return q.decorate(ctx, kind, rows), nil
}

// decorate decodes payloads and joins labels. Label lookup is best effort.
func (q *Query) decorate(ctx context.Context, kind model.EntityKind, rows []model.HistoryEntry) []Entry {
	labels := map[uint]string{}
	if source, ok := q.labels[kind]; ok && len(rows) > 0 {
		ids := lo.Map(rows, func(row model.HistoryEntry, _ int) uint { return row.EntityID })
		found, err := source.Labels(ctx, ids)
		if err != nil {
			logger.FromCtx(ctx).Warn("Failed to resolve history labels",
				zap.String("kind", string(kind)),
				zap.Error(err))
		} else {
			labels = found
		}
	}

	return lo.Map(rows, func(row model.HistoryEntry, _ int) Entry {
		label, ok := labels[row.EntityID]
		if !ok || label == "" {
			label = FallbackLabel(kind, row.EntityID)
		}
		return Entry{
			ID:         row.ID,
			Kind:       kind,
			EntityID:   row.EntityID,
			ActionType: row.ActionType,
			Changes:    Decode(kind, row.ActionType, row.Changes),
			CreatedAt:  row.CreatedAt,
			Label:      label,
		}
	})
}
