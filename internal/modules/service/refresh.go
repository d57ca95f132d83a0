package service

import (
	"context"

	"github.com/agrohub-unirv/edital-hub/internal/modules/lifecycle"
	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"gorm.io/datatypes"
)

type StatusChange struct {
	ID   uint         `json:"id"`
	Slug string       `json:"slug"`
	From model.Status `json:"from"`
	To   model.Status `json:"to"`
}

type RefreshFailure struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Err  string `json:"error"`
}

type RefreshReport struct {
	Examined int              `json:"examined"`
	Changes  []StatusChange   `json:"changes"`
	Failures []RefreshFailure `json:"failures"`
	DryRun   bool             `json:"dry_run"`
}

// RefreshStatuses is the daily reconciliation pass: it recomputes every
// edital's status from its dates and persists the ones that moved. A
// failing record is reported and skipped, never aborts the rest. Running
// it twice in a row changes nothing the second time.
func (s *editalService) RefreshStatuses(ctx context.Context, dryRun bool) (*RefreshReport, error) {
	items, err := s.r.All(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &RefreshReport{Examined: len(items), DryRun: dryRun}

	for _, e := range items {
		next := lifecycle.Reconcile(e.Status, e.StartDate, e.EndDate, now)
		if next == e.Status {
			continue
		}

		change := StatusChange{ID: e.ID, Slug: e.Slug, From: e.Status, To: next}
		if !dryRun {
			h := &model.EditalHistory{
				EditalID:    &e.ID,
				EditalTitle: e.Title,
				UserName:    "unknown",
				Action:      model.ActionUpdate,
				Changes: datatypes.JSONMap{
					"status": map[string]any{"from": string(e.Status), "to": string(next)},
				},
			}
			if err := s.r.UpdateStatus(ctx, e.ID, next, h); err != nil {
				report.Failures = append(report.Failures, RefreshFailure{ID: e.ID, Slug: e.Slug, Err: err.Error()})
				s.log.Sugar().Errorw("status refresh failed for edital", "id", e.ID, "slug", e.Slug, "err", err)
				continue
			}
		}
		report.Changes = append(report.Changes, change)
		s.log.Sugar().Infow("status transition", "slug", e.Slug, "from", e.Status, "to", next, "dry_run", dryRun)
	}

	if len(report.Changes) > 0 && !dryRun {
		s.cache.Bump(ctx)
	}

	s.log.Sugar().Infow("status refresh finished",
		"examined", report.Examined,
		"changed", len(report.Changes),
		"failed", len(report.Failures),
		"dry_run", dryRun,
	)
	return report, nil
}
