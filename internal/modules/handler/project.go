package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrohub-unirv/edital-hub/internal/middleware"
	"github.com/agrohub-unirv/edital-hub/internal/modules/serializer"
	"github.com/agrohub-unirv/edital-hub/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

// SubmitProject godoc
//
//	@Summary		Submit project
//	@Description	Submit a proposal against an open edital.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string					true	"Edital slug"
//	@Param			payload	body	service.ProjectInput	true	"SubmitProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/editais/{slug}/projects [post]
func (h *ProjectHandler) SubmitProject(c *gin.Context) {
	in := service.ProjectInput{}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Submit(c.Request.Context(), c.Param("slug"), in, middleware.CurrentUser(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: p})
}

// ListProjects godoc
//
//	@Summary		List projects of an edital
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			slug	path	string	true	"Edital slug"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/editais/{slug}/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	items, err := h.svc.ListByEdital(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: items})
}

// ReviewProject godoc
//
//	@Summary		Review project
//	@Description	Set the review status and optional score of a submitted project.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	int						true	"Project ID"
//	@Param			payload		body	service.ReviewInput		true	"ReviewProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id}/review [put]
func (h *ProjectHandler) ReviewProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.ReviewInput{}
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Review(c.Request.Context(), uint(id), in)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

func (h *ProjectHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr())
	case isValidationErr(err):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), err))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
