package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agrohub-unirv/edital-hub/internal/middleware"
	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/serializer"
	"github.com/agrohub-unirv/edital-hub/internal/modules/service"
)

type EditalHandler struct {
	svc service.EditalService
}

func NewEditalHandler(s service.EditalService) *EditalHandler {
	return &EditalHandler{svc: s}
}

type ListEditaisReq struct {
	Query     string `form:"q" json:"q" example:"inovacao"`
	Status    string `form:"status" json:"status" example:"open" enums:"draft,scheduled,open,in_progress,closed"`
	OpenOnly  bool   `form:"open_only,default=false" json:"open_only" example:"false"`
	StartFrom string `form:"start_from" json:"start_from" example:"2026-01-01"`
	EndUntil  string `form:"end_until" json:"end_until" example:"2026-12-31"`
	Page      int    `form:"page,default=1" json:"page" binding:"omitempty,min=1" example:"1"`
}

func (r ListEditaisReq) toInput() (service.ListEditaisInput, error) {
	in := service.ListEditaisInput{
		Query:    r.Query,
		Status:   model.Status(r.Status),
		OpenOnly: r.OpenOnly,
		Page:     r.Page,
	}
	if r.Status != "" && !model.ValidStatus(in.Status) {
		return in, fmt.Errorf("unknown status %q", r.Status)
	}
	if r.StartFrom != "" {
		t, err := time.Parse("2006-01-02", r.StartFrom)
		if err != nil {
			return in, fmt.Errorf("invalid start_from: %w", err)
		}
		in.StartFrom = &t
	}
	if r.EndUntil != "" {
		t, err := time.Parse("2006-01-02", r.EndUntil)
		if err != nil {
			return in, fmt.Errorf("invalid end_until: %w", err)
		}
		in.EndUntil = &t
	}
	return in, nil
}

// ListEditais godoc
//
//	@Summary		List editais
//	@Description	List announcements with free-text search and filters. Drafts only appear for staff callers.
//	@Tags			edital
//	@Accept			json
//	@Produce		json
//	@Param			q			query	string	false	"Free text matched against title, entity and number"
//	@Param			status		query	string	false	"Status filter"	Enums(draft,scheduled,open,in_progress,closed)
//	@Param			open_only	query	bool	false	"Shortcut for status=open"
//	@Param			start_from	query	string	false	"Start date lower bound (YYYY-MM-DD)"
//	@Param			end_until	query	string	false	"End date upper bound (YYYY-MM-DD)"
//	@Param			page		query	int		false	"Page number"
//	@Success		200	{object}	serializer.Response{data=service.ListEditaisOutput}
//	@Router			/editais [get]
func (h *EditalHandler) ListEditais(c *gin.Context) {
	req := ListEditaisReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
		return
	}

	out, err := h.svc.List(c.Request.Context(), in, middleware.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetEdital godoc
//
//	@Summary		Get edital
//	@Description	Get one announcement by slug. A legacy numeric id is answered with a permanent redirect to the slug URL.
//	@Tags			edital
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string	true	"Edital slug or legacy numeric id"
//	@Success		200	{object}	serializer.Response{data=service.EditalDetail}
//	@Router			/editais/{slug} [get]
func (h *EditalHandler) GetEdital(c *gin.Context) {
	param := c.Param("slug")
	viewer := middleware.CurrentUser(c)

	// Legacy numeric identifiers moved permanently to slug URLs.
	if id, err := strconv.ParseUint(param, 10, 64); err == nil {
		slug, err := h.svc.SlugByID(c.Request.Context(), uint(id), viewer)
		if err != nil {
			h.writeErr(c, err)
			return
		}
		c.Redirect(http.StatusMovedPermanently, "/api/v1/editais/"+slug)
		return
	}

	detail, err := h.svc.GetBySlug(c.Request.Context(), param, viewer)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: detail})
}

// CreateEdital godoc
//
//	@Summary		Create edital
//	@Description	Create a new announcement. The slug is derived from the title and assigned once.
//	@Tags			edital
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	service.EditalInput	true	"CreateEdital payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Edital}
//	@Router			/editais [post]
func (h *EditalHandler) CreateEdital(c *gin.Context) {
	in := service.EditalInput{}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	e, err := h.svc.Create(c.Request.Context(), in, middleware.CurrentUser(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: e})
}

// UpdateEdital godoc
//
//	@Summary		Update edital
//	@Description	Update an announcement by slug. The slug itself never changes, even when the title does.
//	@Tags			edital
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string				true	"Edital slug"
//	@Param			payload	body	service.EditalInput	true	"UpdateEdital payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Edital}
//	@Router			/editais/{slug} [put]
func (h *EditalHandler) UpdateEdital(c *gin.Context) {
	in := service.EditalInput{}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	e, err := h.svc.Update(c.Request.Context(), c.Param("slug"), in, middleware.CurrentUser(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: e})
}

// DeleteEdital godoc
//
//	@Summary		Delete edital
//	@Description	Delete an announcement by slug. An audit entry capturing the title outlives the record.
//	@Tags			edital
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string	true	"Edital slug"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/editais/{slug} [delete]
func (h *EditalHandler) DeleteEdital(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c)); err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// GetHistory godoc
//
//	@Summary		Get edital history
//	@Description	List the audit trail of an announcement, newest first.
//	@Tags			edital
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string	true	"Edital slug"
//	@Param			limit	query	int		false	"Maximum entries"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.EditalHistory}
//	@Router			/editais/{slug}/history [get]
func (h *EditalHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.svc.History(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: items})
}

// ExportEditais godoc
//
//	@Summary		Export editais as CSV
//	@Description	Dump the currently filtered announcement set, drafts included, as CSV.
//	@Tags			edital
//	@Produce		text/csv
//	@Param			q			query	string	false	"Free text matched against title, entity and number"
//	@Param			status		query	string	false	"Status filter"	Enums(draft,scheduled,open,in_progress,closed)
//	@Param			open_only	query	bool	false	"Shortcut for status=open"
//	@Param			start_from	query	string	false	"Start date lower bound (YYYY-MM-DD)"
//	@Param			end_until	query	string	false	"End date upper bound (YYYY-MM-DD)"
//	@Security		BearerAuth
//	@Success		200	{string}	string	"CSV payload"
//	@Router			/editais/export [get]
func (h *EditalHandler) ExportEditais(c *gin.Context) {
	req := ListEditaisReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="editais.csv"`)
	if err := h.svc.ExportCSV(c.Request.Context(), in, c.Writer); err != nil {
		// Headers may already be out; log-and-abort is the best we can do.
		_ = c.AbortWithError(http.StatusInternalServerError, err)
	}
}

func (h *EditalHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr())
	case isValidationErr(err):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

func isValidationErr(err error) bool {
	for _, v := range []error{
		service.ErrTitleRequired,
		service.ErrDatesOutOfOrder,
		service.ErrInvalidStatus,
		service.ErrScheduledInPast,
		service.ErrInvalidCurrency,
		service.ErrInvalidReview,
		service.ErrEditalNotOpen,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
