package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTemplateService(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewTemplateService(env.resolver, zap.NewNop())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	draft := env.project(t, owner)
	_, err := svc.SaveFromProject(ctx, SaveTemplateInput{UserID: owner, ProjectID: draft.ID})
	assert.ErrorIs(t, err, ErrValidation)

	src := env.project(t, owner, withCode)
	_, err = svc.SaveFromProject(ctx, SaveTemplateInput{UserID: other, ProjectID: src.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	private, err := svc.SaveFromProject(ctx, SaveTemplateInput{UserID: owner, ProjectID: src.ID})
	require.NoError(t, err)
	assert.Equal(t, src.Title, private.Name)
	require.NotNil(t, private.SourceProjectID)
	assert.Equal(t, src.ID, *private.SourceProjectID)

	_, err = svc.Use(ctx, UseTemplateInput{UserID: other, TemplateID: private.ID})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	public, err := svc.SaveFromProject(ctx, SaveTemplateInput{UserID: owner, ProjectID: src.ID, Name: "Starter", IsPublic: true})
	require.NoError(t, err)

	p, err := svc.Use(ctx, UseTemplateInput{UserID: other, TemplateID: public.ID, Title: "My Todo"})
	require.NoError(t, err)
	assert.Equal(t, other, p.UserID)
	assert.Equal(t, "My Todo", p.Title)
	assert.Equal(t, model.ProjectStatusCompleted, p.Status)
	assert.True(t, p.HasCode())

	stored, err := env.live.Templates().Get(ctx, public.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.UsageCount)

	_, err = svc.Use(ctx, UseTemplateInput{UserID: other, TemplateID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{model.ActionTemplateUsed}, env.actions(t, p.ID))
	assert.Equal(t, []string{model.ActionTemplateCreated, model.ActionTemplateCreated}, env.actions(t, src.ID))
}
