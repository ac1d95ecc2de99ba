package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/middleware"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

type ShareHandler struct {
	svc service.ShareService
}

func NewShareHandler(s service.ShareService) *ShareHandler {
	return &ShareHandler{svc: s}
}

type CreateShareReq struct {
	IsPublic      bool     `json:"is_public" example:"false"`
	AllowedEmails []string `json:"allowed_emails" binding:"max=100,dive,max=320" example:"alice@example.com"`
}

type UpdateShareReq struct {
	IsPublic      *bool     `json:"is_public"`
	AllowedEmails *[]string `json:"allowed_emails" binding:"omitempty,max=100"`
}

// GetShare godoc
//
//	@Summary		Get share settings
//	@Description	The raw token is only returned when it is issued; this returns its hint
//	@Tags			share
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ShareSetting}
//	@Router			/projects/{project_id}/share [get]
func (h *ShareHandler) GetShare(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	sh, err := h.svc.Get(c.Request.Context(), user.UserID, id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(sh))
}

// CreateShare godoc
//
//	@Summary		Create share link
//	@Description	Issue a new share token. Any previous link for the project stops working.
//	@Tags			share
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.CreateShareReq	true	"CreateShare payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.ShareOutput}
//	@Router			/projects/{project_id}/share [post]
func (h *ShareHandler) CreateShare(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	req := CreateShareReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	out, err := h.svc.Create(c.Request.Context(), service.ShareInput{
		UserID:        user.UserID,
		ProjectID:     id,
		IsPublic:      req.IsPublic,
		AllowedEmails: req.AllowedEmails,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(out))
}

// UpdateShare godoc
//
//	@Summary		Update share settings
//	@Description	Change visibility or the allow list without rotating the token
//	@Tags			share
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string					true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateShareReq	true	"UpdateShare payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.ShareSetting}
//	@Router			/projects/{project_id}/share [put]
func (h *ShareHandler) UpdateShare(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	req := UpdateShareReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	sh, err := h.svc.Update(c.Request.Context(), service.UpdateShareInput{
		UserID:        user.UserID,
		ProjectID:     id,
		IsPublic:      req.IsPublic,
		AllowedEmails: req.AllowedEmails,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(sh))
}

// DeleteShare godoc
//
//	@Summary		Revoke share link
//	@Tags			share
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Router			/projects/{project_id}/share [delete]
func (h *ShareHandler) DeleteShare(c *gin.Context) {
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

type ResolveShareReq struct {
	Email string `form:"email" json:"email" binding:"omitempty,email" example:"alice@example.com"`
}

// ResolveShare godoc
//
//	@Summary		Open shared project
//	@Description	No authentication required. Private shares need an allowed email, taken from the signed-in user or the request.
//	@Tags			share
//	@Accept			json
//	@Produce		json
//	@Param			token	path	string	true	"Share token"
//	@Param			email	query	string	false	"Caller email for private shares"
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/shared/{token} [get]
//	@Router			/shared/{token} [post]
func (h *ShareHandler) ResolveShare(c *gin.Context) {
	req := ResolveShareReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	email := req.Email
	if id := middleware.IdentityFrom(c); id != nil && !id.Demo && id.Email != "" {
		email = id.Email
	}
	p, err := h.svc.Resolve(c.Request.Context(), c.Param("token"), email)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(p))
}
