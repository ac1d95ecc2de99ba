package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

type DeployHandler struct {
	svc service.DeployService
}

func NewDeployHandler(s service.DeployService) *DeployHandler {
	return &DeployHandler{svc: s}
}

type OneClickDeployReq struct {
	Provider    string `json:"provider" binding:"required,oneof=vercel s3" example:"vercel"`
	ProjectName string `json:"project_name" binding:"max=100" example:"todo-app"`
}

// OneClickDeploy godoc
//
//	@Summary		Deploy project
//	@Description	Deploy the generated code of a completed or deployed project
//	@Tags			deploy
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.OneClickDeployReq	true	"Deploy payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.DeployOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		502	{object}	serializer.Response
//	@Router			/projects/{project_id}/deploy/one-click [post]
func (h *DeployHandler) OneClickDeploy(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	req := OneClickDeployReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.svc.Deploy(c.Request.Context(), service.DeployInput{
		UserID:      user.UserID,
		ProjectID:   id,
		Provider:    req.Provider,
		ProjectName: req.ProjectName,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(out))
}

// ListDeployments godoc
//
//	@Summary		List deployments
//	@Tags			deploy
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Deployment}
//	@Router			/projects/{project_id}/deployments [get]
func (h *DeployHandler) ListDeployments(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.svc.List(c.Request.Context(), user.UserID, id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}
