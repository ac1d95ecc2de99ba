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

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) SaveFromProject(ctx context.Context, in service.SaveTemplateInput) (*model.Template, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockTemplateService) Use(ctx context.Context, in service.UseTemplateInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func TestTemplateHandler(t *testing.T) {
	projectID, templateID := uuid.New(), uuid.New()
	svc := &MockTemplateService{}
	svc.On("SaveFromProject", mock.Anything, service.SaveTemplateInput{
		UserID:    testUser.UserID,
		ProjectID: projectID,
		Name:      "Starter",
		IsPublic:  true,
	}).Return(&model.Template{ID: templateID, Name: "Starter"}, nil)
	svc.On("SaveFromProject", mock.Anything, service.SaveTemplateInput{UserID: testUser.UserID, ProjectID: templateID}).
		Return(nil, svcErr(service.ErrNotFound, "project not found"))
	svc.On("Use", mock.Anything, service.UseTemplateInput{UserID: testUser.UserID, TemplateID: templateID}).
		Return(&model.Project{ID: uuid.New(), Title: "Starter"}, nil)
	h := NewTemplateHandler(svc)

	r := setupRouter(testUser)
	r.POST("/projects/:project_id/template", h.SaveTemplate)
	r.POST("/templates/:template_id/use", h.UseTemplate)

	w := doJSON(r, http.MethodPost, "/projects/"+projectID.String()+"/template", map[string]any{"name": "Starter", "is_public": true})
	assert.Equal(t, http.StatusCreated, w.Code)

	// an empty body keeps the defaults
	w = doJSON(r, http.MethodPost, "/projects/"+templateID.String()+"/template", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/templates/"+templateID.String()+"/use", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.AssertExpectations(t)
}
