package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testShareService(env *testEnv, argon bool) ShareService {
	return NewShareService(env.resolver, config.ShareCfg{
		TokenPrefix:              "shr_",
		SecretPepper:             "test-pepper",
		EnableArgon2Verification: argon,
	}, zap.NewNop())
}

func TestShareService_PublicShare(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := testShareService(env, true)
	ctx := context.Background()
	owner := uuid.New()
	p := env.project(t, owner, withCode)

	out, err := svc.Create(ctx, ShareInput{UserID: owner, ProjectID: p.ID, IsPublic: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Token, "shr_"))
	assert.Equal(t, "/shared/"+out.Token, out.Path)
	assert.NotContains(t, out.Share.TokenHMAC, out.Token)

	// anyone holding the token can read the project, no email needed
	got, err := svc.Resolve(ctx, out.Token, "")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Resolve(ctx, "shr_notarealtoken", "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Resolve(ctx, "garbage", "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Contains(t, env.actions(t, p.ID), model.ActionProjectShared)
}

func TestShareService_PrivateShare(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := testShareService(env, false)
	ctx := context.Background()
	owner := uuid.New()
	p := env.project(t, owner)

	out, err := svc.Create(ctx, ShareInput{
		UserID:        owner,
		ProjectID:     p.ID,
		AllowedEmails: []string{" Alice@Example.com ", "alice@example.com", "bob@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, out.Share.AllowedEmails.Data())

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{name: "allowed, case-insensitive", email: "ALICE@example.com"},
		{name: "no email", email: "", wantErr: ErrValidation},
		{name: "not allowed", email: "eve@example.com", wantErr: ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Resolve(ctx, out.Token, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p.ID, got.ID)
		})
	}

	_, err = svc.Create(ctx, ShareInput{UserID: owner, ProjectID: p.ID, AllowedEmails: []string{"not-an-email"}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShareService_UpdateRotateDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := testShareService(env, false)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	p := env.project(t, owner)

	_, err := svc.Get(ctx, owner, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, ShareInput{UserID: other, ProjectID: p.ID, IsPublic: true})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	first, err := svc.Create(ctx, ShareInput{UserID: owner, ProjectID: p.ID})
	require.NoError(t, err)

	public := true
	sh, err := svc.Update(ctx, UpdateShareInput{UserID: owner, ProjectID: p.ID, IsPublic: &public})
	require.NoError(t, err)
	assert.True(t, sh.IsPublic)

	// update keeps the token
	_, err = svc.Resolve(ctx, first.Token, "")
	require.NoError(t, err)

	// a new share revokes the previous link
	second, err := svc.Create(ctx, ShareInput{UserID: owner, ProjectID: p.ID, IsPublic: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
	_, err = svc.Resolve(ctx, first.Token, "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	_, err = svc.Resolve(ctx, second.Token, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_ResolveAcrossBackends(t *testing.T) {
	env := newTestEnv(t, nil)
	svc := testShareService(env, false)
	demoCtx := backend.WithDemo(context.Background(), "203.0.113.7")

	demo := env.resolver.For(demoCtx)
	projects, _, err := demo.Projects().List(demoCtx, repoFilter(backend.DemoUserID))
	require.NoError(t, err)
	require.NotEmpty(t, projects)

	out, err := svc.Create(demoCtx, ShareInput{UserID: backend.DemoUserID, ProjectID: projects[0].ID, IsPublic: true})
	require.NoError(t, err)

	// anonymous callers are not tied to a backend
	got, err := svc.Resolve(context.Background(), out.Token, "")
	require.NoError(t, err)
	assert.Equal(t, projects[0].ID, got.ID)
}
