package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"gorm.io/gorm"
)

// EditalFilter is the combined predicate for the public listing: free text
// OR'd across title/entity/number, the remaining filters AND'd together.
type EditalFilter struct {
	Query         string
	Status        model.Status
	OpenOnly      bool
	StartFrom     *time.Time
	EndUntil      *time.Time
	IncludeDrafts bool
	Page          int
	PageSize      int
}

// CacheKey renders the filter as a canonical string for cache key
// derivation. Two equal filters always render identically.
func (f EditalFilter) CacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%s|s=%s|o=%t|d=%t", f.Query, f.Status, f.OpenOnly, f.IncludeDrafts)
	if f.StartFrom != nil {
		fmt.Fprintf(&b, "|sf=%s", f.StartFrom.Format("2006-01-02"))
	}
	if f.EndUntil != nil {
		fmt.Fprintf(&b, "|eu=%s", f.EndUntil.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "|p=%d:%d", f.Page, f.PageSize)
	return b.String()
}

// EditalRepo persists editais. Mutations take the audit entry alongside the
// record so both commit in one transaction; a mutation without its history
// entry never becomes visible.
type EditalRepo interface {
	Create(ctx context.Context, e *model.Edital, h *model.EditalHistory) error
	Save(ctx context.Context, e *model.Edital, h *model.EditalHistory) error
	Delete(ctx context.Context, e *model.Edital, h *model.EditalHistory) error
	UpdateStatus(ctx context.Context, id uint, status model.Status, h *model.EditalHistory) error
	GetBySlug(ctx context.Context, slug string) (*model.Edital, error)
	GetByID(ctx context.Context, id uint) (*model.Edital, error)
	List(ctx context.Context, f EditalFilter) ([]model.Edital, int64, error)
	All(ctx context.Context) ([]model.Edital, error)
	SlugTaken(ctx context.Context, candidate string, excludeID uint) (bool, error)
}

type editalRepo struct{ db *gorm.DB }

func NewEditalRepo(db *gorm.DB) EditalRepo {
	return &editalRepo{db: db}
}

func (r *editalRepo) Create(ctx context.Context, e *model.Edital, h *model.EditalHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		h.EditalID = &e.ID
		return tx.Create(h).Error
	})
}

// Save persists the edital and replaces its owned children so removed
// cronogramas and valores do not linger.
func (r *editalRepo) Save(ctx context.Context, e *model.Edital, h *model.EditalHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("edital_id = ?", e.ID).Delete(&model.Cronograma{}).Error; err != nil {
			return fmt.Errorf("replace cronogramas: %w", err)
		}
		if err := tx.Where("edital_id = ?", e.ID).Delete(&model.EditalValor{}).Error; err != nil {
			return fmt.Errorf("replace valores: %w", err)
		}
		if err := tx.Omit("Projects").Save(e).Error; err != nil {
			return err
		}
		return tx.Create(h).Error
	})
}

func (r *editalRepo) Delete(ctx context.Context, e *model.Edital, h *model.EditalHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(e).Error; err != nil {
			return err
		}
		// The entry outlives the edital: the foreign key is nulled by the
		// constraint, the captured title stays.
		h.EditalID = nil
		return tx.Create(h).Error
	})
}

func (r *editalRepo) UpdateStatus(ctx context.Context, id uint, status model.Status, h *model.EditalHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Edital{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Create(h).Error
	})
}

func (r *editalRepo) GetBySlug(ctx context.Context, slug string) (*model.Edital, error) {
	var e model.Edital
	err := r.db.WithContext(ctx).
		Preload("Cronogramas", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date ASC NULLS LAST")
		}).
		Preload("Valores").
		Where("slug = ?", slug).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *editalRepo) GetByID(ctx context.Context, id uint) (*model.Edital, error) {
	var e model.Edital
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *editalRepo) List(ctx context.Context, f EditalFilter) ([]model.Edital, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Edital{})

	if !f.IncludeDrafts {
		q = q.Where("status <> ?", model.StatusDraft)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR entity ILIKE ? OR number ILIKE ?", like, like, like)
	}
	if f.OpenOnly {
		q = q.Where("status = ?", model.StatusOpen)
	} else if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartFrom != nil {
		q = q.Where("start_date >= ?", f.StartFrom)
	}
	if f.EndUntil != nil {
		q = q.Where("end_date <= ?", f.EndUntil)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = 20
	}

	var items []model.Edital
	err := q.Order("updated_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	return items, total, err
}

func (r *editalRepo) All(ctx context.Context) ([]model.Edital, error) {
	var items []model.Edital
	err := r.db.WithContext(ctx).
		Select("id", "slug", "title", "status", "start_date", "end_date").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *editalRepo) SlugTaken(ctx context.Context, candidate string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Edital{}).Where("slug = ?", candidate)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
