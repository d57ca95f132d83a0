package service

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/agrohub-unirv/edital-hub/internal/modules/repo"
)

// exportPageSize is the scan batch for the CSV dump; export ignores the
// listing pagination and walks the whole filtered set.
const exportPageSize = 500

var exportHeader = []string{
	"number", "title", "entity", "status", "link",
	"start_date", "end_date", "created_by", "updated_by", "created_at", "updated_at",
}

// ExportCSV streams the currently filtered edital set as CSV with a fixed
// column set. Drafts are included; the handler gates this behind staff.
func (s *editalService) ExportCSV(ctx context.Context, in ListEditaisInput, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	f := repo.EditalFilter{
		Query:         in.Query,
		Status:        in.Status,
		OpenOnly:      in.OpenOnly,
		StartFrom:     in.StartFrom,
		EndUntil:      in.EndUntil,
		IncludeDrafts: true,
		PageSize:      exportPageSize,
	}

	for page := 1; ; page++ {
		f.Page = page
		items, _, err := s.r.List(ctx, f)
		if err != nil {
			return err
		}
		for _, e := range items {
			row := []string{
				e.Number, e.Title, e.Entity, string(e.Status), e.Link,
				fmtDate(e.StartDate), fmtDate(e.EndDate),
				e.CreatedBy, e.UpdatedBy,
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.UpdatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		if len(items) < exportPageSize {
			break
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	s.log.Sugar().Debugw("export finished", "filter", f.CacheKey())
	return nil
}
