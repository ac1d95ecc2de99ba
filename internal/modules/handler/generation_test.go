package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/service"
	"github.com/saas-factory/api/internal/pkg/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) Generate(ctx context.Context, in service.GenerateInput) (*service.GenerateOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateOutput), args.Error(1)
}

func (m *MockLifecycleService) Start(ctx context.Context, in service.GenerateInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockLifecycleService) Status(ctx context.Context, userID, projectID uuid.UUID) (*service.GenerationStatus, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationStatus), args.Error(1)
}

func (m *MockLifecycleService) Stream(ctx context.Context, userID, projectID uuid.UUID, emit progress.Emitter) error {
	args := m.Called(ctx, userID, projectID, emit)
	return args.Error(0)
}

func (m *MockLifecycleService) Wait() {}

func TestGenerationHandler_Generate(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		body           map[string]any
		setup          func(*MockLifecycleService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "sync",
			body: map[string]any{"project_id": id.String()},
			setup: func(m *MockLifecycleService) {
				m.On("Generate", mock.Anything, service.GenerateInput{UserID: testUser.UserID, ProjectID: id}).
					Return(&service.GenerateOutput{Project: &model.Project{ID: id, Status: model.ProjectStatusCompleted}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "async with override",
			body: map[string]any{"project_id": id.String(), "async": true, "title": "New Title"},
			setup: func(m *MockLifecycleService) {
				m.On("Start", mock.Anything, mock.MatchedBy(func(in service.GenerateInput) bool {
					return in.ProjectID == id && in.Title != nil && *in.Title == "New Title"
				})).Return(&model.Project{ID: id, Status: model.ProjectStatusGenerating}, nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "invalid project id",
			body:           map[string]any{"project_id": "123"},
			setup:          func(m *MockLifecycleService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "in progress",
			body: map[string]any{"project_id": id.String()},
			setup: func(m *MockLifecycleService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(nil, svcErr(service.ErrConflict, "generation already in progress"))
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "generation already in progress",
		},
		{
			name: "rate limited",
			body: map[string]any{"project_id": id.String()},
			setup: func(m *MockLifecycleService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(nil, svcErr(service.ErrRateLimited, "too many generation requests"))
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name: "timeout",
			body: map[string]any{"project_id": id.String()},
			setup: func(m *MockLifecycleService) {
				m.On("Generate", mock.Anything, mock.Anything).Return(nil, svcErr(service.ErrTimeout, "code generation timed out"))
			},
			expectedStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockLifecycleService{}
			tt.setup(svc)
			h := NewGenerationHandler(svc)

			r := setupRouter(testUser)
			r.POST("/projects/generate", h.Generate)
			w := doJSON(r, http.MethodPost, "/projects/generate", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decode(t, w).Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestGenerationHandler_GetStatus(t *testing.T) {
	id := uuid.New()
	svc := &MockLifecycleService{}
	svc.On("Status", mock.Anything, testUser.UserID, id).
		Return(&service.GenerationStatus{ProjectID: id, Status: model.ProjectStatusGenerating, Progress: 40}, nil)
	h := NewGenerationHandler(svc)

	r := setupRouter(testUser)
	r.GET("/projects/generate", h.GetStatus)

	w := doJSON(r, http.MethodGet, "/projects/generate?project_id="+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.EqualValues(t, 40, data["progress"])

	w = doJSON(r, http.MethodGet, "/projects/generate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestGenerationHandler_Stream(t *testing.T) {
	id := uuid.New()

	t.Run("events", func(t *testing.T) {
		svc := &MockLifecycleService{}
		svc.On("Stream", mock.Anything, testUser.UserID, id, mock.Anything).
			Run(func(args mock.Arguments) {
				emit := args.Get(3).(progress.Emitter)
				_ = emit(progress.Event{Type: progress.EventStart, ProjectID: id.String()})
				_ = emit(progress.Event{Type: progress.EventComplete, ProjectID: id.String(), Progress: 100, Status: "completed"})
			}).Return(nil)
		h := NewGenerationHandler(svc)

		r := setupRouter(testUser)
		r.GET("/projects/generate/stream", h.Stream)
		w := doJSON(r, http.MethodGet, "/projects/generate/stream?project_id="+id.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
		frames := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
		assert.Len(t, frames, 2)
		assert.True(t, strings.HasPrefix(frames[0], "data: "))
		assert.Contains(t, frames[0], `"type":"start"`)
		assert.Contains(t, frames[1], `"type":"complete"`)
	})

	t.Run("error before first event", func(t *testing.T) {
		svc := &MockLifecycleService{}
		svc.On("Stream", mock.Anything, testUser.UserID, id, mock.Anything).
			Return(svcErr(service.ErrNotFound, "project not found"))
		h := NewGenerationHandler(svc)

		r := setupRouter(testUser)
		r.GET("/projects/generate/stream", h.Stream)
		w := doJSON(r, http.MethodGet, "/projects/generate/stream?project_id="+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	})

	t.Run("client gone", func(t *testing.T) {
		svc := &MockLifecycleService{}
		svc.On("Stream", mock.Anything, testUser.UserID, id, mock.Anything).
			Run(func(args mock.Arguments) {
				_ = args.Get(3).(progress.Emitter)(progress.Event{Type: progress.EventStart})
			}).Return(context.Canceled)
		h := NewGenerationHandler(svc)

		r := setupRouter(testUser)
		r.GET("/projects/generate/stream", h.Stream)
		w := doJSON(r, http.MethodGet, "/projects/generate/stream?project_id="+id.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"type":"start"`)
	})
}
