package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRefreshStatuses_ClosesExpiredOpenEditais(t *testing.T) {
	ctx := context.Background()
	r := &MockEditalRepo{}
	cache := &MockListingCache{}
	svc := newTestService(r, &MockHistoryRepo{}, cache)

	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)
	r.On("All", ctx).Return([]model.Edital{
		{ID: 1, Slug: "vencido", Title: "Vencido", Status: model.StatusOpen, EndDate: &yesterday},
		{ID: 2, Slug: "vigente", Title: "Vigente", Status: model.StatusOpen, EndDate: &tomorrow},
	}, nil)

	var hist *model.EditalHistory
	r.On("UpdateStatus", ctx, uint(1), model.StatusClosed, mock.AnythingOfType("*model.EditalHistory")).
		Run(func(args mock.Arguments) { hist = args.Get(3).(*model.EditalHistory) }).
		Return(nil)
	cache.On("Bump", ctx).Return()

	report, err := svc.RefreshStatuses(ctx, false)

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Examined)
	assert.Len(t, report.Changes, 1)
	assert.Equal(t, model.StatusClosed, report.Changes[0].To)
	assert.Equal(t, "Vencido", hist.EditalTitle)
	assert.Contains(t, hist.Changes, "status")
	r.AssertNotCalled(t, "UpdateStatus", ctx, uint(2), mock.Anything, mock.Anything)
	cache.AssertCalled(t, "Bump", ctx)
}

func TestRefreshStatuses_DryRunCommitsNothing(t *testing.T) {
	ctx := context.Background()
	r := &MockEditalRepo{}
	cache := &MockListingCache{}
	svc := newTestService(r, &MockHistoryRepo{}, cache)

	yesterday := testNow.AddDate(0, 0, -1)
	r.On("All", ctx).Return([]model.Edital{
		{ID: 1, Slug: "vencido", Status: model.StatusOpen, EndDate: &yesterday},
	}, nil)

	report, err := svc.RefreshStatuses(ctx, true)

	assert.NoError(t, err)
	assert.Len(t, report.Changes, 1)
	assert.True(t, report.DryRun)
	r.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Bump", mock.Anything)
}

func TestRefreshStatuses_NoChangesSecondRun(t *testing.T) {
	ctx := context.Background()
	r := &MockEditalRepo{}
	cache := &MockListingCache{}
	svc := newTestService(r, &MockHistoryRepo{}, cache)

	// State after a successful pass: nothing left to move.
	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)
	r.On("All", ctx).Return([]model.Edital{
		{ID: 1, Slug: "fechado", Status: model.StatusClosed, EndDate: &yesterday},
		{ID: 2, Slug: "agendado", Status: model.StatusScheduled, StartDate: &tomorrow},
		{ID: 3, Slug: "rascunho", Status: model.StatusDraft, StartDate: &tomorrow},
	}, nil)

	report, err := svc.RefreshStatuses(ctx, false)

	assert.NoError(t, err)
	assert.Empty(t, report.Changes)
	assert.Empty(t, report.Failures)
	r.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Bump", mock.Anything)
}

func TestRefreshStatuses_FailureDoesNotAbortTheRest(t *testing.T) {
	ctx := context.Background()
	r := &MockEditalRepo{}
	cache := &MockListingCache{}
	svc := newTestService(r, &MockHistoryRepo{}, cache)

	yesterday := testNow.AddDate(0, 0, -1)
	r.On("All", ctx).Return([]model.Edital{
		{ID: 1, Slug: "quebrado", Title: "Quebrado", Status: model.StatusOpen, EndDate: &yesterday},
		{ID: 2, Slug: "saudavel", Title: "Saudável", Status: model.StatusOpen, EndDate: &yesterday},
	}, nil)

	r.On("UpdateStatus", ctx, uint(1), model.StatusClosed, mock.Anything).Return(errors.New("deadlock detected"))
	r.On("UpdateStatus", ctx, uint(2), model.StatusClosed, mock.Anything).Return(nil)
	cache.On("Bump", ctx).Return()

	report, err := svc.RefreshStatuses(ctx, false)

	assert.NoError(t, err)
	assert.Len(t, report.Failures, 1)
	assert.Equal(t, uint(1), report.Failures[0].ID)
	assert.Len(t, report.Changes, 1)
	assert.Equal(t, uint(2), report.Changes[0].ID)
}

func TestRefreshStatuses_PromotesScheduledInsideWindow(t *testing.T) {
	ctx := context.Background()
	r := &MockEditalRepo{}
	cache := &MockListingCache{}
	svc := newTestService(r, &MockHistoryRepo{}, cache)

	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)
	r.On("All", ctx).Return([]model.Edital{
		{ID: 1, Slug: "chegou-a-hora", Status: model.StatusScheduled, StartDate: &yesterday, EndDate: &tomorrow},
	}, nil)
	r.On("UpdateStatus", ctx, uint(1), model.StatusOpen, mock.Anything).Return(nil)
	cache.On("Bump", ctx).Return()

	report, err := svc.RefreshStatuses(ctx, false)

	assert.NoError(t, err)
	assert.Len(t, report.Changes, 1)
	assert.Equal(t, model.StatusOpen, report.Changes[0].To)
}
