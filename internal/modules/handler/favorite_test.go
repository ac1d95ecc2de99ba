package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) Favorite(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.Called(ctx, userID, projectID).Error(0)
}

func (m *MockFavoriteService) Unfavorite(ctx context.Context, userID, projectID uuid.UUID) error {
	return m.Called(ctx, userID, projectID).Error(0)
}

func (m *MockFavoriteService) IsFavorite(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteService) List(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func TestFavoriteHandler(t *testing.T) {
	id := uuid.New()
	svc := &MockFavoriteService{}
	svc.On("Favorite", mock.Anything, testUser.UserID, id).Return(svcErr(service.ErrConflict, "project is already a favorite")).Once()
	svc.On("Unfavorite", mock.Anything, testUser.UserID, id).Return(nil)
	svc.On("IsFavorite", mock.Anything, testUser.UserID, id).Return(false, nil)
	svc.On("List", mock.Anything, testUser.UserID).Return([]model.Project{}, nil)
	h := NewFavoriteHandler(svc)

	r := setupRouter(testUser)
	r.POST("/projects/:project_id/favorite", h.AddFavorite)
	r.DELETE("/projects/:project_id/favorite", h.RemoveFavorite)
	r.GET("/projects/:project_id/favorite", h.GetFavorite)
	r.GET("/favorites", h.ListFavorites)
	path := "/projects/" + id.String() + "/favorite"

	w := doJSON(r, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w).Data.(map[string]any)["is_favorite"])

	w = doJSON(r, http.MethodGet, "/favorites", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.AssertExpectations(t)
}
