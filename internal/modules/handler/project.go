package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/saas-factory/api/internal/pkg/paging"
)

type ProjectHandler struct {
	svc      service.ProjectService
	activity service.ActivityService
}

func NewProjectHandler(s service.ProjectService, activity service.ActivityService) *ProjectHandler {
	return &ProjectHandler{svc: s, activity: activity}
}

type ListProjectsReq struct {
	paging.Page
	Status   string `form:"status" json:"status" binding:"omitempty,oneof=draft generating completed deployed error" example:"completed"`
	Category string `form:"category" json:"category" example:"todo"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List the caller's projects, newest first
//	@Tags			project
//	@Produce		json
//	@Param			page		query	integer	false	"Page, default 1"
//	@Param			per_page	query	integer	false	"Page size, default 20, max 100"
//	@Param			status		query	string	false	"Filter by status"
//	@Param			category	query	string	false	"Filter by category slug"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListProjectsOutput}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListProjectsInput{
		UserID:   user.UserID,
		Page:     req.Page,
		Status:   req.Status,
		Category: req.Category,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

type CreateProjectReq struct {
	Title             string `json:"title" binding:"required,max=200" example:"Todo App"`
	Description       string `json:"description" binding:"max=10000" example:"A simple todo list with due dates"`
	Category          string `json:"category" binding:"omitempty,slug" example:"todo"`
	Features          string `json:"features" example:"auth, reminders"`
	DesignPreferences string `json:"design_preferences" example:"minimal, dark mode"`
	TechRequirements  string `json:"tech_requirements" example:"Next.js, PostgreSQL"`
	IsPublic          bool   `json:"is_public"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a draft project
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.CreateProjectInput{
		UserID:            user.UserID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Features:          req.Features,
		DesignPreferences: req.DesignPreferences,
		TechRequirements:  req.TechRequirements,
		IsPublic:          req.IsPublic,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(p))
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Get a project with its generation logs
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectDetail}
//	@Router			/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), user.UserID, id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

type UpdateProjectReq struct {
	Title             *string `json:"title" binding:"omitempty,max=200"`
	Description       *string `json:"description" binding:"omitempty,max=10000"`
	Category          *string `json:"category" binding:"omitempty,slug"`
	Features          *string `json:"features"`
	DesignPreferences *string `json:"design_preferences"`
	TechRequirements  *string `json:"tech_requirements"`
	IsPublic          *bool   `json:"is_public"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Partially update a project. Omitted fields are kept.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), service.UpdateProjectInput{
		UserID:            user.UserID,
		ProjectID:         id,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Features:          req.Features,
		DesignPreferences: req.DesignPreferences,
		TechRequirements:  req.TechRequirements,
		IsPublic:          req.IsPublic,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(p))
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project with its logs, activity, shares and favorites. Owner only.
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.UserID, id); err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(nil))
}

// CloneProject godoc
//
//	@Summary		Clone project
//	@Description	Copy an owned or public project into a new project owned by the caller
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id}/clone [post]
func (h *ProjectHandler) CloneProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	p, err := h.svc.Clone(c.Request.Context(), user.UserID, id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(p))
}

// GetActivity godoc
//
//	@Summary		Project activity
//	@Description	List the activity history of a project, newest first
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Param			page		query	integer	false	"Page, default 1"
//	@Param			per_page	query	integer	false	"Page size, default 20, max 100"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListActivityOutput}
//	@Router			/projects/{project_id}/activity [get]
func (h *ProjectHandler) GetActivity(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	page := paging.Page{}
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.activity.List(c.Request.Context(), service.ListActivityInput{UserID: user.UserID, ProjectID: id, Page: page})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}
