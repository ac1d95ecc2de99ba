package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/saas-factory/api/internal/pkg/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context, in service.ListProjectsInput) (*service.ListProjectsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListProjectsOutput), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*service.ProjectDetail, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectDetail), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockProjectService) Clone(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) List(ctx context.Context, in service.ListActivityInput) (*service.ListActivityOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListActivityOutput), args.Error(1)
}

func TestProjectHandler_ListProjects(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name:  "defaults",
			query: "",
			setup: func(m *MockProjectService) {
				m.On("List", mock.Anything, service.ListProjectsInput{
					UserID: testUser.UserID,
					Page:   paging.Page{Page: 1, PerPage: 20},
				}).Return(&service.ListProjectsOutput{Items: []model.Project{}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "filters",
			query: "?page=2&per_page=5&status=completed&category=todo",
			setup: func(m *MockProjectService) {
				m.On("List", mock.Anything, service.ListProjectsInput{
					UserID:   testUser.UserID,
					Page:     paging.Page{Page: 2, PerPage: 5},
					Status:   "completed",
					Category: "todo",
				}).Return(&service.ListProjectsOutput{Items: []model.Project{}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			query:          "?status=archived",
			setup:          func(m *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "page too large",
			query:          "?per_page=500",
			setup:          func(m *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProjectService{}
			tt.setup(svc)
			h := NewProjectHandler(svc, &MockActivityService{})

			r := setupRouter(testUser)
			r.GET("/projects", h.ListProjects)
			w := doJSON(r, http.MethodGet, "/projects"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_CreateProject(t *testing.T) {
	created := &model.Project{ID: uuid.New(), UserID: testUser.UserID, Title: "Todo App", Status: model.ProjectStatusDraft}

	tests := []struct {
		name           string
		body           map[string]any
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "created",
			body: map[string]any{"title": "Todo App", "category": "todo", "is_public": true},
			setup: func(m *MockProjectService) {
				m.On("Create", mock.Anything, service.CreateProjectInput{
					UserID:   testUser.UserID,
					Title:    "Todo App",
					Category: "todo",
					IsPublic: true,
				}).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           map[string]any{"description": "no title"},
			setup:          func(m *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad category slug",
			body:           map[string]any{"title": "x", "category": "Not A Slug"},
			setup:          func(m *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown category",
			body: map[string]any{"title": "x", "category": "nope"},
			setup: func(m *MockProjectService) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, svcErr(service.ErrValidation, `unknown category "nope"`))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProjectService{}
			tt.setup(svc)
			h := NewProjectHandler(svc, &MockActivityService{})

			r := setupRouter(testUser)
			r.POST("/projects", h.CreateProject)
			w := doJSON(r, http.MethodPost, "/projects", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_GetUpdateDelete(t *testing.T) {
	id := uuid.New()
	p := &model.Project{ID: id, UserID: testUser.UserID, Title: "Todo App"}

	svc := &MockProjectService{}
	svc.On("Get", mock.Anything, testUser.UserID, id).Return(&service.ProjectDetail{Project: p, IsOwner: true}, nil)
	title := "Renamed"
	svc.On("Update", mock.Anything, service.UpdateProjectInput{UserID: testUser.UserID, ProjectID: id, Title: &title}).
		Return(&model.Project{ID: id, Title: title}, nil)
	svc.On("Delete", mock.Anything, testUser.UserID, id).Return(svcErr(service.ErrPermissionDenied, "only the owner can modify this project"))
	svc.On("Clone", mock.Anything, testUser.UserID, id).Return(&model.Project{ID: uuid.New(), ClonedFrom: &id}, nil)
	h := NewProjectHandler(svc, &MockActivityService{})

	r := setupRouter(testUser)
	r.GET("/projects/:project_id", h.GetProject)
	r.PUT("/projects/:project_id", h.UpdateProject)
	r.DELETE("/projects/:project_id", h.DeleteProject)
	r.POST("/projects/:project_id/clone", h.CloneProject)

	w := doJSON(r, http.MethodGet, "/projects/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["is_owner"])

	w = doJSON(r, http.MethodPut, "/projects/"+id.String(), map[string]any{"title": title})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/projects/"+id.String(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "only the owner can modify this project", decode(t, w).Error)

	w = doJSON(r, http.MethodPost, "/projects/"+id.String()+"/clone", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	svc.AssertExpectations(t)
}

func TestProjectHandler_GetActivity(t *testing.T) {
	id := uuid.New()
	act := &MockActivityService{}
	act.On("List", mock.Anything, service.ListActivityInput{
		UserID:    testUser.UserID,
		ProjectID: id,
		Page:      paging.Page{Page: 1, PerPage: 10},
	}).Return(&service.ListActivityOutput{Items: []model.Activity{}, Meta: paging.Meta{Page: 1, PerPage: 10}}, nil)
	h := NewProjectHandler(&MockProjectService{}, act)

	r := setupRouter(testUser)
	r.GET("/projects/:project_id/activity", h.GetActivity)
	w := doJSON(r, http.MethodGet, "/projects/"+id.String()+"/activity?per_page=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	act.AssertExpectations(t)
}
