package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saas-factory/api/internal/modules/serializer"
	"github.com/saas-factory/api/internal/modules/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: s}
}

type CreateCategoryReq struct {
	Name        string `json:"name" binding:"required,max=100" example:"Internal Tools"`
	Slug        string `json:"slug" binding:"omitempty,slug,max=100" example:"internal-tools"`
	Description string `json:"description" binding:"max=500"`
	Icon        string `json:"icon" binding:"max=50" example:"wrench"`
	Color       string `json:"color" binding:"omitempty,hexcolor" example:"#0ea5e9"`
}

type UpdateCategoryReq struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
}

// ListCategories godoc
//
//	@Summary		List categories
//	@Description	System categories plus the caller's own
//	@Tags			category
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Category}
//	@Router			/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
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

// CreateCategory godoc
//
//	@Summary		Create category
//	@Tags			category
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateCategoryReq	true	"CreateCategory payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Category}
//	@Failure		409	{object}	serializer.Response
//	@Router			/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	req := CreateCategoryReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), service.CategoryInput{
		UserID:      user.UserID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Created(cat))
}

// UpdateCategory godoc
//
//	@Summary		Update category
//	@Description	Owner only. System categories cannot be modified.
//	@Tags			category
//	@Accept			json
//	@Produce		json
//	@Param			category_id	path	string						true	"Category ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateCategoryReq	true	"UpdateCategory payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Category}
//	@Router			/categories/{category_id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	req := UpdateCategoryReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	user, ok := caller(c)
	if !ok {
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), service.UpdateCategoryInput{
		UserID:      user.UserID,
		CategoryID:  id,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		renderErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.OK(cat))
}

// DeleteCategory godoc
//
//	@Summary		Delete category
//	@Description	Refused while any of the caller's projects still use the category
//	@Tags			category
//	@Produce		json
//	@Param			category_id	path	string	true	"Category ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/categories/{category_id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category_id")
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
