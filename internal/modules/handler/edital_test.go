package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/service"
)

// MockEditalService is a mock implementation of service.EditalService
type MockEditalService struct {
	mock.Mock
}

func (m *MockEditalService) Create(ctx context.Context, in service.EditalInput, actor *model.User) (*model.Edital, error) {
	args := m.Called(ctx, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Edital), args.Error(1)
}

func (m *MockEditalService) Update(ctx context.Context, slug string, in service.EditalInput, actor *model.User) (*model.Edital, error) {
	args := m.Called(ctx, slug, in, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Edital), args.Error(1)
}

func (m *MockEditalService) Delete(ctx context.Context, slug string, actor *model.User) error {
	args := m.Called(ctx, slug, actor)
	return args.Error(0)
}

func (m *MockEditalService) GetBySlug(ctx context.Context, slug string, viewer *model.User) (*service.EditalDetail, error) {
	args := m.Called(ctx, slug, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditalDetail), args.Error(1)
}

func (m *MockEditalService) SlugByID(ctx context.Context, id uint, viewer *model.User) (string, error) {
	args := m.Called(ctx, id, viewer)
	return args.String(0), args.Error(1)
}

func (m *MockEditalService) List(ctx context.Context, in service.ListEditaisInput, viewer *model.User) (*service.ListEditaisOutput, error) {
	args := m.Called(ctx, in, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListEditaisOutput), args.Error(1)
}

func (m *MockEditalService) History(ctx context.Context, slug string, limit int) ([]model.EditalHistory, error) {
	args := m.Called(ctx, slug, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EditalHistory), args.Error(1)
}

func (m *MockEditalService) ExportCSV(ctx context.Context, in service.ListEditaisInput, w io.Writer) error {
	args := m.Called(ctx, in, w)
	return args.Error(0)
}

func (m *MockEditalService) RefreshStatuses(ctx context.Context, dryRun bool) (*service.RefreshReport, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RefreshReport), args.Error(1)
}

func newTestRouter(svc service.EditalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEditalHandler(svc)

	r := gin.New()
	g := r.Group("/api/v1/editais")
	g.GET("", h.ListEditais)
	g.GET("/:slug", h.GetEdital)
	g.POST("", h.CreateEdital)
	g.PUT("/:slug", h.UpdateEdital)
	g.DELETE("/:slug", h.DeleteEdital)
	g.GET("/:slug/history", h.GetHistory)
	return r
}

func doRequest(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListEditais(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	out := &service.ListEditaisOutput{
		Items:    []service.EditalSummary{{Edital: model.Edital{ID: 1, Slug: "edital-fapeg", Title: "Edital FAPEG"}}},
		Total:    1,
		Page:     1,
		PageSize: 20,
	}
	svc.On("List", mock.Anything, mock.MatchedBy(func(in service.ListEditaisInput) bool {
		return in.Query == "fapeg" && in.OpenOnly
	}), (*model.User)(nil)).Return(out, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/editais?q=fapeg&open_only=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "edital-fapeg")
}

func TestListEditaisRejectsBadStatus(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/v1/editais?status=banana", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestListEditaisRejectsBadDate(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/v1/editais?start_from=31-08-2026", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEdital(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	detail := &service.EditalDetail{Edital: model.Edital{ID: 1, Slug: "edital-fapeg", Title: "Edital FAPEG"}}
	svc.On("GetBySlug", mock.Anything, "edital-fapeg", (*model.User)(nil)).Return(detail, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/editais/edital-fapeg", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Edital FAPEG")
}

func TestGetEditalHiddenAnswersNotFound(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	svc.On("GetBySlug", mock.Anything, "rascunho-secreto", (*model.User)(nil)).Return(nil, service.ErrNotFound)

	w := doRequest(router, http.MethodGet, "/api/v1/editais/rascunho-secreto", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	// The body must not hint at whether the record exists.
	assert.NotContains(t, w.Body.String(), "draft")
	assert.NotContains(t, w.Body.String(), "rascunho")
}

func TestGetEditalLegacyIDRedirects(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	svc.On("SlugByID", mock.Anything, uint(42), (*model.User)(nil)).Return("edital-fapeg", nil)

	w := doRequest(router, http.MethodGet, "/api/v1/editais/42", "")

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/api/v1/editais/edital-fapeg", w.Header().Get("Location"))
	svc.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetEditalLegacyIDUnknown(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	svc.On("SlugByID", mock.Anything, uint(999), (*model.User)(nil)).Return("", service.ErrNotFound)

	w := doRequest(router, http.MethodGet, "/api/v1/editais/999", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEdital(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	created := &model.Edital{ID: 1, Slug: "edital-de-inovacao", Title: "Edital de Inovação", Status: model.StatusOpen}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.EditalInput) bool {
		return in.Title == "Edital de Inovação"
	}), (*model.User)(nil)).Return(created, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/editais", `{"title":"Edital de Inovação"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "edital-de-inovacao")
}

func TestCreateEditalValidationError(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	svc.On("Create", mock.Anything, mock.Anything, (*model.User)(nil)).Return(nil, service.ErrDatesOutOfOrder)

	w := doRequest(router, http.MethodPost, "/api/v1/editais",
		`{"title":"Datas trocadas","start_date":"2026-12-31T00:00:00Z","end_date":"2026-01-01T00:00:00Z"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEditalMissingTitle(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/v1/editais", `{"entity":"FAPEG"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateEditalNotFound(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	svc.On("Update", mock.Anything, "sumiu", mock.Anything, (*model.User)(nil)).Return(nil, service.ErrNotFound)

	w := doRequest(router, http.MethodPut, "/api/v1/editais/sumiu", `{"title":"Qualquer"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEdital(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	svc.On("Delete", mock.Anything, "edital-fapeg", (*model.User)(nil)).Return(nil)

	w := doRequest(router, http.MethodDelete, "/api/v1/editais/edital-fapeg", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetHistory(t *testing.T) {
	svc := &MockEditalService{}
	router := newTestRouter(svc)

	entries := []model.EditalHistory{
		{EditalTitle: "Edital FAPEG", UserName: "Ana", Action: model.ActionUpdate},
	}
	svc.On("History", mock.Anything, "edital-fapeg", 50).Return(entries, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/editais/edital-fapeg/history", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana")
}
