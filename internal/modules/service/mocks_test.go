package service

import (
	"context"
	"time"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/repo"
	"github.com/stretchr/testify/mock"
)

// MockEditalRepo is a mock implementation of repo.EditalRepo
type MockEditalRepo struct {
	mock.Mock
}

func (m *MockEditalRepo) Create(ctx context.Context, e *model.Edital, h *model.EditalHistory) error {
	args := m.Called(ctx, e, h)
	return args.Error(0)
}

func (m *MockEditalRepo) Save(ctx context.Context, e *model.Edital, h *model.EditalHistory) error {
	args := m.Called(ctx, e, h)
	return args.Error(0)
}

func (m *MockEditalRepo) Delete(ctx context.Context, e *model.Edital, h *model.EditalHistory) error {
	args := m.Called(ctx, e, h)
	return args.Error(0)
}

func (m *MockEditalRepo) UpdateStatus(ctx context.Context, id uint, status model.Status, h *model.EditalHistory) error {
	args := m.Called(ctx, id, status, h)
	return args.Error(0)
}

func (m *MockEditalRepo) GetBySlug(ctx context.Context, slug string) (*model.Edital, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Edital), args.Error(1)
}

func (m *MockEditalRepo) GetByID(ctx context.Context, id uint) (*model.Edital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Edital), args.Error(1)
}

func (m *MockEditalRepo) List(ctx context.Context, f repo.EditalFilter) ([]model.Edital, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Edital), args.Get(1).(int64), args.Error(2)
}

func (m *MockEditalRepo) All(ctx context.Context) ([]model.Edital, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Edital), args.Error(1)
}

func (m *MockEditalRepo) SlugTaken(ctx context.Context, candidate string, excludeID uint) (bool, error) {
	args := m.Called(ctx, candidate, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockHistoryRepo is a mock implementation of repo.HistoryRepo
type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) ListByEdital(ctx context.Context, editalID uint, limit int) ([]model.EditalHistory, error) {
	args := m.Called(ctx, editalID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EditalHistory), args.Error(1)
}

func (m *MockHistoryRepo) ListRecent(ctx context.Context, limit int) ([]model.EditalHistory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EditalHistory), args.Error(1)
}

// MockListingCache is a mock implementation of ListingCache
type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) Generation(ctx context.Context) int64 {
	args := m.Called(ctx)
	return args.Get(0).(int64)
}

func (m *MockListingCache) Bump(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockListingCache) Get(ctx context.Context, key string, dest any) bool {
	args := m.Called(ctx, key, dest)
	return args.Bool(0)
}

func (m *MockListingCache) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	m.Called(ctx, key, v, ttl)
}

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) ListByEdital(ctx context.Context, editalID uint) ([]model.Project, error) {
	args := m.Called(ctx, editalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}
