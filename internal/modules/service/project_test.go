package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/pkg/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProjectService_CreateAndList(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewProjectService(env.resolver, zap.NewNop())
	ctx := context.Background()
	user := uuid.New()

	tests := []struct {
		name    string
		in      CreateProjectInput
		wantErr error
		check   func(*testing.T, *model.Project)
	}{
		{
			name: "with category",
			in:   CreateProjectInput{UserID: user, Title: "Todo App", Category: "todo"},
			check: func(t *testing.T, p *model.Project) {
				assert.Equal(t, model.ProjectStatusDraft, p.Status)
				assert.Equal(t, "todo", p.Category)
			},
		},
		{
			name: "default category",
			in:   CreateProjectInput{UserID: user, Title: "  Blog  "},
			check: func(t *testing.T, p *model.Project) {
				assert.Equal(t, "other", p.Category)
				assert.Equal(t, "Blog", p.Title)
			},
		},
		{name: "missing title", in: CreateProjectInput{UserID: user, Title: " "}, wantErr: ErrValidation},
		{name: "unknown category", in: CreateProjectInput{UserID: user, Title: "X", Category: "nope"}, wantErr: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(ctx, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
			assert.Equal(t, []string{model.ActionProjectCreated}, env.actions(t, p.ID))
		})
	}

	out, err := svc.List(ctx, ListProjectsInput{UserID: user, Page: paging.Page{Page: 1, PerPage: 1}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.EqualValues(t, 2, out.Meta.Total)
	assert.Equal(t, 2, out.Meta.TotalPages)

	out, err = svc.List(ctx, ListProjectsInput{UserID: user, Category: "todo"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)

	_, err = svc.List(ctx, ListProjectsInput{UserID: user, Status: "weird"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectService_GetUpdateDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewProjectService(env.resolver, zap.NewNop())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	p := env.project(t, owner)

	detail, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsOwner)
	assert.Empty(t, detail.Logs)

	_, err = svc.Get(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Get(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	title := "Todo Pro"
	public := true
	updated, err := svc.Update(ctx, UpdateProjectInput{UserID: owner, ProjectID: p.ID, Title: &title, IsPublic: &public})
	require.NoError(t, err)
	assert.Equal(t, "Todo Pro", updated.Title)

	// public projects are readable by anyone
	detail, err = svc.Get(ctx, other, p.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsOwner)

	_, err = svc.Update(ctx, UpdateProjectInput{UserID: other, ProjectID: p.ID, Title: &title})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	empty := ""
	_, err = svc.Update(ctx, UpdateProjectInput{UserID: owner, ProjectID: p.ID, Title: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, svc.Delete(ctx, other, p.ID), ErrPermissionDenied)
	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner, p.ID), ErrNotFound)
}

func TestProjectService_UpdateWhileGenerating(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewProjectService(env.resolver, zap.NewNop())
	owner := uuid.New()
	p := env.project(t, owner, func(p *model.Project) { p.Status = model.ProjectStatusGenerating })

	desc := "new"
	_, err := svc.Update(context.Background(), UpdateProjectInput{UserID: owner, ProjectID: p.ID, Description: &desc})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProjectService_Clone(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewProjectService(env.resolver, zap.NewNop())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	src := env.project(t, owner, withCode)
	clone, err := svc.Clone(ctx, owner, src.ID)
	require.NoError(t, err)
	assert.Equal(t, "Todo App (Copy)", clone.Title)
	assert.Equal(t, model.ProjectStatusCompleted, clone.Status)
	assert.NotNil(t, clone.CompletedAt)
	assert.JSONEq(t, string(src.GeneratedCode), string(clone.GeneratedCode))
	require.NotNil(t, clone.ClonedFrom)
	assert.Equal(t, src.ID, *clone.ClonedFrom)
	assert.Equal(t, []string{model.ActionProjectCloned}, env.actions(t, clone.ID))

	draft := env.project(t, owner)
	clone, err = svc.Clone(ctx, owner, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusDraft, clone.Status)
	assert.Nil(t, clone.CompletedAt)

	_, err = svc.Clone(ctx, other, draft.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	public := env.project(t, owner, func(p *model.Project) { p.IsPublic = true })
	clone, err = svc.Clone(ctx, other, public.ID)
	require.NoError(t, err)
	assert.Equal(t, other, clone.UserID)
}
