package repo

import (
	"context"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"gorm.io/gorm"
)

// HistoryRepo reads the audit trail. Entries are written by EditalRepo in
// the same transaction as the mutation they describe, and are never edited
// or removed afterwards.
type HistoryRepo interface {
	ListByEdital(ctx context.Context, editalID uint, limit int) ([]model.EditalHistory, error)
	ListRecent(ctx context.Context, limit int) ([]model.EditalHistory, error)
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepo(db *gorm.DB) HistoryRepo {
	return &historyRepo{db: db}
}

func (r *historyRepo) ListByEdital(ctx context.Context, editalID uint, limit int) ([]model.EditalHistory, error) {
	var items []model.EditalHistory
	err := r.db.WithContext(ctx).
		Where("edital_id = ?", editalID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *historyRepo) ListRecent(ctx context.Context, limit int) ([]model.EditalHistory, error) {
	var items []model.EditalHistory
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
