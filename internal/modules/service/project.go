package service

import (
	"context"
	"errors"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectInput struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
}

type ReviewInput struct {
	Status model.ReviewStatus `json:"status" binding:"required"`
	Score  *float64           `json:"score"`
}

type ProjectService interface {
	Submit(ctx context.Context, editalSlug string, in ProjectInput, submitter *model.User) (*model.Project, error)
	ListByEdital(ctx context.Context, editalSlug string, viewer *model.User) ([]model.Project, error)
	Review(ctx context.Context, id uint, in ReviewInput) (*model.Project, error)
}

type projectService struct {
	projects repo.ProjectRepo
	editais  repo.EditalRepo
	log      *zap.Logger
}

func NewProjectService(projects repo.ProjectRepo, editais repo.EditalRepo, log *zap.Logger) ProjectService {
	return &projectService{projects: projects, editais: editais, log: log}
}

// Submit files a project against an open edital. Drafts answer as missing,
// everything else that is not open is rejected.
func (s *projectService) Submit(ctx context.Context, editalSlug string, in ProjectInput, submitter *model.User) (*model.Project, error) {
	e, err := s.editais.GetBySlug(ctx, editalSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.Status == model.StatusDraft && model.ViewerClass(submitter) != model.ViewerStaff {
		return nil, ErrNotFound
	}
	if e.Status != model.StatusOpen {
		return nil, ErrEditalNotOpen
	}

	p := &model.Project{
		EditalID: e.ID,
		Title:    in.Title,
		Summary:  in.Summary,
		Status:   model.ReviewPending,
	}
	if submitter != nil {
		id := submitter.ID
		p.UserID = &id
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("project submitted", "edital", e.Slug, "project_id", p.ID)
	return p, nil
}

func (s *projectService) ListByEdital(ctx context.Context, editalSlug string, viewer *model.User) ([]model.Project, error) {
	e, err := s.editais.GetBySlug(ctx, editalSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.Status == model.StatusDraft && model.ViewerClass(viewer) != model.ViewerStaff {
		return nil, ErrNotFound
	}
	return s.projects.ListByEdital(ctx, e.ID)
}

func (s *projectService) Review(ctx context.Context, id uint, in ReviewInput) (*model.Project, error) {
	if !model.ValidReviewStatus(in.Status) {
		return nil, ErrInvalidReview
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.Status = in.Status
	if in.Score != nil {
		p.Score = in.Score
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	s.log.Sugar().Infow("project reviewed", "project_id", p.ID, "status", p.Status)
	return p, nil
}
