package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

type TemplateHandler struct {
	svc service.TemplateService
}

func NewTemplateHandler(s service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: s}
}

type SaveTemplateReq struct {
	Name        string `json:"name" binding:"max=200" example:"Todo starter"`
	Description string `json:"description" binding:"max=2000"`
	IsPublic    bool   `json:"is_public"`
}

// SaveTemplate godoc
//
//	@Summary		Save as template
//	@Description	Save a generated project as a reusable template. Owner only.
//	@Tags			template
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.SaveTemplateReq	false	"SaveTemplate payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Template}
//	@Router			/projects/{project_id}/template [post]
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	req := SaveTemplateReq{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	t, err := h.svc.SaveFromProject(c.Request.Context(), service.SaveTemplateInput{
		UserID:      user.UserID,
		ProjectID:   id,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(t))
}

type UseTemplateReq struct {
	Title string `json:"title" binding:"max=200" example:"My Todo App"`
}

// UseTemplate godoc
//
//	@Summary		Use template
//	@Description	Create a project from a public template or one of the caller's own
//	@Tags			template
//	@Accept			json
//	@Produce		json
//	@Param			template_id	path	string					true	"Template ID"	Format(uuid)
//	@Param			payload		body	handler.UseTemplateReq	false	"UseTemplate payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/templates/{template_id}/use [post]
func (h *TemplateHandler) UseTemplate(c *gin.Context) {
	id, ok := pathID(c, "template_id")
	if !ok {
		return
	}
	req := UseTemplateReq{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	p, err := h.svc.Use(c.Request.Context(), service.UseTemplateInput{UserID: user.UserID, TemplateID: id, Title: req.Title})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(p))
}
