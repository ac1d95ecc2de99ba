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

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		name, slug, want string
	}{
		{"Internal Tools", "", "internal-tools"},
		{"  CRM & Sales!! ", "", "crm-sales"},
		{"Anything", "custom", "custom"},
		{"!!!", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorySlug(tt.name, tt.slug), tt.name)
	}
}

func TestCategoryService(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewCategoryService(env.resolver, zap.NewNop())
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	all, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, len(model.SystemCategories))

	c, err := svc.Create(ctx, CategoryInput{UserID: owner, Name: "Internal Tools", Color: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, "internal-tools", c.Slug)
	assert.False(t, c.IsSystem)

	_, err = svc.Create(ctx, CategoryInput{UserID: owner, Name: "Internal Tools"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Create(ctx, CategoryInput{UserID: owner, Name: " "})
	assert.ErrorIs(t, err, ErrValidation)

	// other users do not see private categories
	theirs, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, theirs, len(model.SystemCategories))

	name := "Ops Tools"
	updated, err := svc.Update(ctx, UpdateCategoryInput{UserID: owner, CategoryID: c.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ops Tools", updated.Name)

	_, err = svc.Update(ctx, UpdateCategoryInput{UserID: other, CategoryID: c.ID, Name: &name})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	var system model.Category
	for _, cat := range all {
		if cat.IsSystem {
			system = cat
			break
		}
	}
	err = svc.Delete(ctx, owner, system.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.EqualError(t, err, "system categories cannot be modified")

	env.project(t, owner, func(p *model.Project) { p.Category = c.Slug })
	err = svc.Delete(ctx, owner, c.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, `category "Ops Tools" is used by 1 project`)

	err = svc.Delete(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_DeleteUnused(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := NewCategoryService(env.resolver, zap.NewNop())
	ctx := context.Background()
	owner := uuid.New()

	c, err := svc.Create(ctx, CategoryInput{UserID: owner, Name: "Games"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, c.ID))

	all, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, len(model.SystemCategories))
}
