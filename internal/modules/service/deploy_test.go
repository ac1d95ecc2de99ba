package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/infra/httpclient"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockDeployer struct {
	mock.Mock
}

func (m *MockDeployer) Provider() string { return "vercel" }

func (m *MockDeployer) Deploy(ctx context.Context, req deployer.Request) (*deployer.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deployer.Result), args.Error(1)
}

func TestDeployService_Deploy(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*MockDeployer)
		provider   string
		wantErr    error
		wantStatus model.ProjectStatus
		wantDep    model.DeploymentStatus
	}{
		{
			name: "success",
			setup: func(m *MockDeployer) {
				m.On("Deploy", mock.Anything, mock.MatchedBy(func(r deployer.Request) bool {
					return r.Name == "Todo App" && len(r.Code.Files) > 0
				})).Return(&deployer.Result{
					URL:           "https://todo-app.vercel.app",
					RepositoryURL: "https://github.com/acme/todo-app",
					ExternalID:    "dpl_1",
				}, nil)
			},
			provider:   "vercel",
			wantStatus: model.ProjectStatusDeployed,
			wantDep:    model.DeploymentStatusReady,
		},
		{
			name: "upstream error",
			setup: func(m *MockDeployer) {
				m.On("Deploy", mock.Anything, mock.Anything).Return(nil,
					&httpclient.APIError{Service: "vercel", StatusCode: 403, Body: `{"error":"bad token sekret"}`})
			},
			provider:   "vercel",
			wantErr:    ErrUpstream,
			wantStatus: model.ProjectStatusCompleted,
			wantDep:    model.DeploymentStatusFailed,
		},
		{
			name: "not configured",
			setup: func(m *MockDeployer) {
				m.On("Deploy", mock.Anything, mock.Anything).Return(nil, deployer.ErrNotConfigured)
			},
			provider:   "vercel",
			wantErr:    ErrValidation,
			wantStatus: model.ProjectStatusCompleted,
			wantDep:    model.DeploymentStatusFailed,
		},
		{
			name:       "unknown provider",
			setup:      func(*MockDeployer) {},
			provider:   "heroku",
			wantErr:    ErrValidation,
			wantStatus: model.ProjectStatusCompleted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &MockDeployer{}
			tt.setup(d)
			env := newTestEnv(t, nil, d)
			pub := &recordingPublisher{}
			svc := NewDeployService(env.resolver, pub, []string{"sekret"}, zap.NewNop())
			owner := uuid.New()
			p := env.project(t, owner, withCode)

			out, err := svc.Deploy(context.Background(), DeployInput{UserID: owner, ProjectID: p.ID, Provider: tt.provider})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.NotContains(t, err.Error(), "sekret")
				assert.Empty(t, pub.keys())
			} else {
				require.NoError(t, err)
				assert.Equal(t, "https://todo-app.vercel.app", out.Project.DeploymentURL)
				assert.Equal(t, "https://github.com/acme/todo-app", out.Project.RepositoryURL)
				assert.NotNil(t, out.Project.DeployedAt)
				assert.Equal(t, []string{EventProjectDeployed}, pub.keys())
				assert.Equal(t, []string{model.ActionProjectDeployed}, env.actions(t, p.ID))
			}

			stored, err := env.live.Projects().Get(context.Background(), p.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)

			deps, err := svc.List(context.Background(), owner, p.ID)
			require.NoError(t, err)
			if tt.wantDep == "" {
				assert.Empty(t, deps)
			} else {
				require.Len(t, deps, 1)
				assert.Equal(t, tt.wantDep, deps[0].Status)
			}
			d.AssertExpectations(t)
		})
	}
}

func TestDeployService_Preconditions(t *testing.T) {
	d := &MockDeployer{}
	env := newTestEnv(t, nil, d)
	svc := NewDeployService(env.resolver, nil, nil, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()

	draft := env.project(t, owner)
	_, err := svc.Deploy(ctx, DeployInput{UserID: owner, ProjectID: draft.ID, Provider: "vercel"})
	assert.ErrorIs(t, err, ErrValidation)

	done := env.project(t, owner, withCode)
	_, err = svc.Deploy(ctx, DeployInput{UserID: uuid.New(), ProjectID: done.ID, Provider: "vercel"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.List(ctx, uuid.New(), done.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	d.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything)
}

func TestDeployService_Demo(t *testing.T) {
	env := newTestEnv(t, nil)
	pub := &recordingPublisher{}
	svc := NewDeployService(env.resolver, pub, nil, zap.NewNop())
	ctx := backend.WithDemo(context.Background(), "203.0.113.7")

	demo := env.resolver.For(ctx)
	projects, _, err := demo.Projects().List(ctx, repoFilter(backend.DemoUserID))
	require.NoError(t, err)
	var target *model.Project
	for i := range projects {
		if projects[i].Status == model.ProjectStatusCompleted {
			target = &projects[i]
		}
	}
	require.NotNil(t, target)

	// demo sessions act on behalf of any user id
	out, err := svc.Deploy(ctx, DeployInput{UserID: uuid.New(), ProjectID: target.ID, Provider: "vercel"})
	require.NoError(t, err)
	assert.Contains(t, out.Project.DeploymentURL, ".demo.saas-factory.app")
	assert.Equal(t, model.ProjectStatusDeployed, out.Project.Status)
	// demo never reaches the broker
	assert.Empty(t, pub.keys())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
