package repo

import (
	"context"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	ListByEdital(ctx context.Context, editalID uint) ([]model.Project, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *projectRepo) ListByEdital(ctx context.Context, editalID uint) ([]model.Project, error) {
	var items []model.Project
	err := r.db.WithContext(ctx).
		Where("edital_id = ?", editalID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
