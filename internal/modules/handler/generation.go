package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/saas-factory/api/internal/pkg/progress"
)

type GenerationHandler struct {
	svc service.LifecycleService
}

func NewGenerationHandler(s service.LifecycleService) *GenerationHandler {
	return &GenerationHandler{svc: s}
}

type GenerateReq struct {
	ProjectID         string  `json:"project_id" binding:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Title             *string `json:"title" binding:"omitempty,max=200"`
	Description       *string `json:"description" binding:"omitempty,max=10000"`
	Category          *string `json:"category" binding:"omitempty,slug"`
	Features          *string `json:"features"`
	DesignPreferences *string `json:"design_preferences"`
	TechRequirements  *string `json:"tech_requirements"`
	// Async returns as soon as the project is generating. Progress is then polled or streamed.
	Async bool `json:"async" example:"false"`
}

// Generate godoc
//
//	@Summary		Generate code
//	@Description	Run the generation pipeline for a project. Optional fields override the stored project before the run.
//	@Tags			generation
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.GenerateReq	true	"Generate payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.GenerateOutput}
//	@Success		202	{object}	serializer.Response{data=model.Project}
//	@Failure		409	{object}	serializer.Response
//	@Failure		429	{object}	serializer.Response
//	@Failure		504	{object}	serializer.Response
//	@Router			/projects/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	req := GenerateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}

	in := service.GenerateInput{
		UserID:            user.UserID,
		ProjectID:         uuid.MustParse(req.ProjectID),
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Features:          req.Features,
		DesignPreferences: req.DesignPreferences,
		TechRequirements:  req.TechRequirements,
	}
	if req.Async {
		p, err := h.svc.Start(c.Request.Context(), in)
		if err != nil {
			renderErr(c, err)
			return
		}
		c.JSON(http.StatusAccepted, serializer.Response{Success: true, Code: http.StatusAccepted, Data: p})
		return
	}

	out, err := h.svc.Generate(c.Request.Context(), in)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

type GenerationQuery struct {
	ProjectID string `form:"project_id" binding:"required,uuid"`
}

// GetStatus godoc
//
//	@Summary		Generation status
//	@Description	Poll the status, step logs and overall percentage of the latest generation run
//	@Tags			generation
//	@Produce		json
//	@Param			project_id	query	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.GenerationStatus}
//	@Router			/projects/generate [get]
func (h *GenerationHandler) GetStatus(c *gin.Context) {
	q := GenerationQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.svc.Status(c.Request.Context(), user.UserID, uuid.MustParse(q.ProjectID))
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

// Stream godoc
//
//	@Summary		Stream generation progress
//	@Description	Server-sent events: start, step_progress, step_complete and a final complete, each framed as `data: <json>`
//	@Tags			generation
//	@Produce		text/event-stream
//	@Param			project_id	query	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	progress.Event
//	@Router			/projects/generate/stream [get]
func (h *GenerationHandler) Stream(c *gin.Context) {
	q := GenerationQuery{}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}

	// headers go out with the first event so early failures can still answer with JSON
	started := false
	emit := func(ev progress.Event) error {
		if !started {
			started = true
			hdr := c.Writer.Header()
			hdr.Set("Content-Type", "text/event-stream")
			hdr.Set("Cache-Control", "no-cache")
			hdr.Set("Connection", "keep-alive")
			hdr.Set("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
		}
		return progress.WriteSSE(c.Writer, ev)
	}

	err := h.svc.Stream(c.Request.Context(), user.UserID, uuid.MustParse(q.ProjectID), emit)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case !started:
		renderErr(c, err)
	default:
		_ = c.Error(err)
	}
}
