package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

type FavoriteHandler struct {
	svc service.FavoriteService
}

func NewFavoriteHandler(s service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: s}
}

type FavoriteStatus struct {
	IsFavorite bool `json:"is_favorite"`
}

// AddFavorite godoc
//
//	@Summary		Favorite project
//	@Tags			favorite
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=handler.FavoriteStatus}
//	@Failure		409	{object}	serializer.Response
//	@Router			/projects/{project_id}/favorite [post]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	if err := h.svc.Favorite(c.Request.Context(), user.UserID, id); err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(FavoriteStatus{IsFavorite: true}))
}

// RemoveFavorite godoc
//
//	@Summary		Unfavorite project
//	@Description	Succeeds whether or not the project was a favorite
//	@Tags			favorite
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.FavoriteStatus}
//	@Router			/projects/{project_id}/favorite [delete]
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	if err := h.svc.Unfavorite(c.Request.Context(), user.UserID, id); err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(FavoriteStatus{IsFavorite: false}))
}

// GetFavorite godoc
//
//	@Summary		Favorite status
//	@Tags			favorite
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.FavoriteStatus}
//	@Router			/projects/{project_id}/favorite [get]
func (h *FavoriteHandler) GetFavorite(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	fav, err := h.svc.IsFavorite(c.Request.Context(), user.UserID, id)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(FavoriteStatus{IsFavorite: fav}))
}

// ListFavorites godoc
//
//	@Summary		List favorites
//	@Tags			favorite
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.svc.List(c.Request.Context(), user.UserID)
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(items))
}
