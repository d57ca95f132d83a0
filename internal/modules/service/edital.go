package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/agrohub-unirv/edital-hub/internal/config"
	"github.com/agrohub-unirv/edital-hub/internal/modules/lifecycle"
	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/repo"
	"github.com/agrohub-unirv/edital-hub/internal/pkg/gencache"
	"github.com/agrohub-unirv/edital-hub/internal/pkg/slugify"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListingCache is the generation-counter cache the service publishes
// through. Implementations must degrade to misses when the backend is down.
type ListingCache interface {
	Generation(ctx context.Context) int64
	Bump(ctx context.Context)
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, v any, ttl time.Duration)
}

type CronogramaInput struct {
	Name        string     `json:"name" binding:"required"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	PublishDate *time.Time `json:"publish_date"`
}

type ValorInput struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency" binding:"required"`
}

type EditalInput struct {
	Title       string       `json:"title" binding:"required"`
	Number      string       `json:"number"`
	Entity      string       `json:"entity"`
	Objective   string       `json:"objective"`
	Eligibility string       `json:"eligibility"`
	Evaluation  string       `json:"evaluation"`
	Analysis    string       `json:"analysis"`
	Link        string       `json:"link" binding:"omitempty,url"`
	Status      model.Status `json:"status"`
	StartDate   *time.Time   `json:"start_date"`
	EndDate     *time.Time   `json:"end_date"`

	Cronogramas []CronogramaInput `json:"cronogramas"`
	Valores     []ValorInput      `json:"valores"`
}

type ListEditaisInput struct {
	Query     string
	Status    model.Status
	OpenOnly  bool
	StartFrom *time.Time
	EndUntil  *time.Time
	Page      int
}

// EditalSummary is a listing row: the record plus the derived warning flag.
type EditalSummary struct {
	model.Edital
	DeadlineImminent bool `json:"deadline_imminent"`
}

type ListEditaisOutput struct {
	Items    []EditalSummary `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasMore  bool            `json:"has_more"`
}

type EditalDetail struct {
	model.Edital
	DeadlineImminent bool `json:"deadline_imminent"`
}

type EditalService interface {
	Create(ctx context.Context, in EditalInput, actor *model.User) (*model.Edital, error)
	Update(ctx context.Context, slug string, in EditalInput, actor *model.User) (*model.Edital, error)
	Delete(ctx context.Context, slug string, actor *model.User) error
	GetBySlug(ctx context.Context, slug string, viewer *model.User) (*EditalDetail, error)
	SlugByID(ctx context.Context, id uint, viewer *model.User) (string, error)
	List(ctx context.Context, in ListEditaisInput, viewer *model.User) (*ListEditaisOutput, error)
	History(ctx context.Context, slug string, limit int) ([]model.EditalHistory, error)
	ExportCSV(ctx context.Context, in ListEditaisInput, w io.Writer) error
	RefreshStatuses(ctx context.Context, dryRun bool) (*RefreshReport, error)
}

type editalService struct {
	r     repo.EditalRepo
	hist  repo.HistoryRepo
	cache ListingCache
	log   *zap.Logger
	cfg   *config.Config
	now   func() time.Time
}

func NewEditalService(r repo.EditalRepo, hist repo.HistoryRepo, cache ListingCache, log *zap.Logger, cfg *config.Config) EditalService {
	return &editalService{
		r:     r,
		hist:  hist,
		cache: cache,
		log:   log,
		cfg:   cfg,
		now:   time.Now,
	}
}

// slugAttempts bounds the retry loop when a concurrent creation wins the
// race between the uniqueness check and the insert.
const slugAttempts = 3

func (s *editalService) Create(ctx context.Context, in EditalInput, actor *model.User) (*model.Edital, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.StatusOpen
	}
	status = lifecycle.OnSave(status, in.StartDate, s.now())

	e := &model.Edital{
		Title:       strings.TrimSpace(in.Title),
		Number:      in.Number,
		Entity:      in.Entity,
		Objective:   in.Objective,
		Eligibility: in.Eligibility,
		Evaluation:  in.Evaluation,
		Analysis:    in.Analysis,
		Link:        in.Link,
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedBy:   model.DisplayName(actor),
		UpdatedBy:   model.DisplayName(actor),
		Cronogramas: buildCronogramas(in.Cronogramas),
		Valores:     buildValores(in.Valores),
	}

	var lastErr error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		slug, err := slugify.Unique(ctx, e.Title, func(ctx context.Context, c string) (bool, error) {
			return s.r.SlugTaken(ctx, c, 0)
		})
		if err != nil {
			return nil, err
		}
		e.Slug = slug

		h := s.historyEntry(e, actor, model.ActionCreate, nil)
		err = s.r.Create(ctx, e, h)
		if err == nil {
			s.cache.Bump(ctx)
			s.log.Sugar().Infow("edital created", "slug", e.Slug, "status", e.Status, "by", e.CreatedBy)
			return e, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Lost the slug race to a concurrent creation, derive a fresh
		// candidate and try again.
		lastErr = err
		s.log.Sugar().Warnw("slug collision on create, retrying", "slug", slug, "attempt", attempt+1)
	}
	return nil, lastErr
}

func (s *editalService) Update(ctx context.Context, slug string, in EditalInput, actor *model.User) (*model.Edital, error) {
	e, err := s.r.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = e.Status
	}
	status = lifecycle.OnSave(status, in.StartDate, s.now())

	// The slug never follows the title: public URLs stay stable.
	updated := *e
	updated.Title = strings.TrimSpace(in.Title)
	updated.Number = in.Number
	updated.Entity = in.Entity
	updated.Objective = in.Objective
	updated.Eligibility = in.Eligibility
	updated.Evaluation = in.Evaluation
	updated.Analysis = in.Analysis
	updated.Link = in.Link
	updated.Status = status
	updated.StartDate = in.StartDate
	updated.EndDate = in.EndDate
	updated.UpdatedBy = model.DisplayName(actor)
	updated.Cronogramas = buildCronogramas(in.Cronogramas)
	updated.Valores = buildValores(in.Valores)
	for i := range updated.Cronogramas {
		updated.Cronogramas[i].EditalID = e.ID
	}
	for i := range updated.Valores {
		updated.Valores[i].EditalID = e.ID
	}

	h := s.historyEntry(&updated, actor, model.ActionUpdate, diffEditais(e, &updated))
	if err := s.r.Save(ctx, &updated, h); err != nil {
		return nil, err
	}
	s.cache.Bump(ctx)
	s.log.Sugar().Infow("edital updated", "slug", updated.Slug, "by", updated.UpdatedBy)
	return &updated, nil
}

func (s *editalService) Delete(ctx context.Context, slug string, actor *model.User) error {
	e, err := s.r.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	h := s.historyEntry(e, actor, model.ActionDelete, nil)
	if err := s.r.Delete(ctx, e, h); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	s.log.Sugar().Infow("edital deleted", "slug", e.Slug, "title", e.Title, "by", model.DisplayName(actor))
	return nil
}

func (s *editalService) GetBySlug(ctx context.Context, slug string, viewer *model.User) (*EditalDetail, error) {
	class := model.ViewerClass(viewer)
	key := gencache.DetailKey(s.cfg.Listing.KeyPrefix, s.cache.Generation(ctx), class, slug)

	var cached EditalDetail
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	e, err := s.r.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Hidden drafts answer exactly like missing records.
	if e.Status == model.StatusDraft && class != model.ViewerStaff {
		return nil, ErrNotFound
	}

	detail := &EditalDetail{
		Edital:           *e,
		DeadlineImminent: lifecycle.DeadlineImminent(e.EndDate, s.now(), s.warningWindow()),
	}
	s.cache.Set(ctx, key, detail, time.Duration(s.cfg.Listing.DetailTTLSec)*time.Second)
	return detail, nil
}

// SlugByID resolves a legacy numeric identifier so the handler can issue a
// permanent redirect to the slug URL.
func (s *editalService) SlugByID(ctx context.Context, id uint, viewer *model.User) (string, error) {
	e, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if e.Status == model.StatusDraft && model.ViewerClass(viewer) != model.ViewerStaff {
		return "", ErrNotFound
	}
	return e.Slug, nil
}

func (s *editalService) List(ctx context.Context, in ListEditaisInput, viewer *model.User) (*ListEditaisOutput, error) {
	f := repo.EditalFilter{
		Query:         in.Query,
		Status:        in.Status,
		OpenOnly:      in.OpenOnly,
		StartFrom:     in.StartFrom,
		EndUntil:      in.EndUntil,
		IncludeDrafts: model.ViewerClass(viewer) == model.ViewerStaff,
		Page:          in.Page,
		PageSize:      s.cfg.Listing.PageSize,
	}

	key := gencache.ListKey(s.cfg.Listing.KeyPrefix, s.cache.Generation(ctx), f.CacheKey())
	var cached ListEditaisOutput
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	items, total, err := s.r.List(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &ListEditaisOutput{
		Items:    make([]EditalSummary, 0, len(items)),
		Total:    total,
		Page:     max(f.Page, 1),
		PageSize: f.PageSize,
	}
	for _, e := range items {
		out.Items = append(out.Items, EditalSummary{
			Edital:           e,
			DeadlineImminent: lifecycle.DeadlineImminent(e.EndDate, now, s.warningWindow()),
		})
	}
	out.HasMore = int64(out.Page*f.PageSize) < total

	s.cache.Set(ctx, key, out, time.Duration(s.cfg.Listing.CacheTTLSec)*time.Second)
	return out, nil
}

func (s *editalService) History(ctx context.Context, slug string, limit int) ([]model.EditalHistory, error) {
	e, err := s.r.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.hist.ListByEdital(ctx, e.ID, limit)
}

func (s *editalService) warningWindow() time.Duration {
	days := s.cfg.Lifecycle.WarningWindowDays
	if days <= 0 {
		return lifecycle.DefaultWarningWindow
	}
	return time.Duration(days) * 24 * time.Hour
}

func (s *editalService) validate(in EditalInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if in.Status != "" && !model.ValidStatus(in.Status) {
		return ErrInvalidStatus
	}
	if in.StartDate != nil && in.EndDate != nil && !in.EndDate.After(*in.StartDate) {
		return ErrDatesOutOfOrder
	}
	if in.Status == model.StatusScheduled && (in.StartDate == nil || !in.StartDate.After(s.now())) {
		return ErrScheduledInPast
	}
	for _, v := range in.Valores {
		if !model.ValidCurrency(v.Currency) {
			return ErrInvalidCurrency
		}
	}
	return nil
}

func (s *editalService) historyEntry(e *model.Edital, actor *model.User, action model.HistoryAction, changes datatypes.JSONMap) *model.EditalHistory {
	h := &model.EditalHistory{
		EditalTitle: e.Title,
		UserName:    model.DisplayName(actor),
		Action:      action,
		Changes:     changes,
	}
	if e.ID != 0 {
		id := e.ID
		h.EditalID = &id
	}
	if actor != nil {
		id := actor.ID
		h.UserID = &id
	}
	return h
}

func buildCronogramas(in []CronogramaInput) []model.Cronograma {
	out := make([]model.Cronograma, 0, len(in))
	for _, c := range in {
		out = append(out, model.Cronograma{
			Name:        c.Name,
			StartDate:   c.StartDate,
			EndDate:     c.EndDate,
			PublishDate: c.PublishDate,
		})
	}
	return out
}

func buildValores(in []ValorInput) []model.EditalValor {
	out := make([]model.EditalValor, 0, len(in))
	for _, v := range in {
		out = append(out, model.EditalValor{Amount: v.Amount, Currency: v.Currency})
	}
	return out
}

// diffEditais builds the field-level change summary recorded on updates.
func diffEditais(old, updated *model.Edital) datatypes.JSONMap {
	changes := datatypes.JSONMap{}
	cmp := func(field, from, to string) {
		if from != to {
			changes[field] = map[string]any{"from": from, "to": to}
		}
	}
	cmp("title", old.Title, updated.Title)
	cmp("number", old.Number, updated.Number)
	cmp("entity", old.Entity, updated.Entity)
	cmp("objective", old.Objective, updated.Objective)
	cmp("eligibility", old.Eligibility, updated.Eligibility)
	cmp("evaluation", old.Evaluation, updated.Evaluation)
	cmp("analysis", old.Analysis, updated.Analysis)
	cmp("link", old.Link, updated.Link)
	cmp("status", string(old.Status), string(updated.Status))
	cmp("start_date", fmtDate(old.StartDate), fmtDate(updated.StartDate))
	cmp("end_date", fmtDate(old.EndDate), fmtDate(updated.EndDate))
	return changes
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
