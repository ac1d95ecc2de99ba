// Package backend selects where a request's data lives. Authenticated requests go to the
// PostgreSQL-backed live backend; anonymous demo requests go to an in-memory one.
package backend

import (
	"context"
	"errors"

	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
)

var ErrUnknownProvider = errors.New("unknown deployment provider")

// DataBackend is every capability a service needs for one request.
type DataBackend interface {
	Projects() repo.ProjectRepo
	Logs() repo.GenerationLogRepo
	Activity() repo.ActivityRepo
	Shares() repo.ShareRepo
	Favorites() repo.FavoriteRepo
	Categories() repo.CategoryRepo
	Templates() repo.TemplateRepo
	Deployments() repo.DeploymentRepo
	Metrics() repo.MetricRepo

	Generator() generator.Generator
	Deployer(provider string) (deployer.Deployer, error)
	// Demo reports whether ownership checks are relaxed and nothing leaves the process.
	Demo() bool
}

// Repos bundles the repositories shared by both backends.
type Repos struct {
	ProjectRepo    repo.ProjectRepo
	LogRepo        repo.GenerationLogRepo
	ActivityRepo   repo.ActivityRepo
	ShareRepo      repo.ShareRepo
	FavoriteRepo   repo.FavoriteRepo
	CategoryRepo   repo.CategoryRepo
	TemplateRepo   repo.TemplateRepo
	DeploymentRepo repo.DeploymentRepo
	MetricRepo     repo.MetricRepo
}

func (r Repos) Projects() repo.ProjectRepo       { return r.ProjectRepo }
func (r Repos) Logs() repo.GenerationLogRepo     { return r.LogRepo }
func (r Repos) Activity() repo.ActivityRepo      { return r.ActivityRepo }
func (r Repos) Shares() repo.ShareRepo           { return r.ShareRepo }
func (r Repos) Favorites() repo.FavoriteRepo     { return r.FavoriteRepo }
func (r Repos) Categories() repo.CategoryRepo    { return r.CategoryRepo }
func (r Repos) Templates() repo.TemplateRepo     { return r.TemplateRepo }
func (r Repos) Deployments() repo.DeploymentRepo { return r.DeploymentRepo }
func (r Repos) Metrics() repo.MetricRepo         { return r.MetricRepo }

type demoKey struct{}

// WithDemo marks ctx as belonging to an anonymous demo session. client identifies the
// caller (its IP) for per-client limits, since every demo session shares DemoUserID.
func WithDemo(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, demoKey{}, client)
}

func IsDemo(ctx context.Context) bool {
	_, ok := ctx.Value(demoKey{}).(string)
	return ok
}

// DemoClient returns the client passed to WithDemo, or "" outside demo sessions.
func DemoClient(ctx context.Context) string {
	v, _ := ctx.Value(demoKey{}).(string)
	return v
}

// Resolver picks the backend for a request. It is decided once, from the context.
type Resolver struct {
	live DataBackend
	demo DataBackend
}

// NewResolver accepts a nil live backend, in which case every request is served by demo.
func NewResolver(live, demo DataBackend) *Resolver {
	return &Resolver{live: live, demo: demo}
}

func (r *Resolver) For(ctx context.Context) DataBackend {
	if IsDemo(ctx) || r.live == nil {
		return r.demo
	}
	return r.live
}

func (r *Resolver) LiveEnabled() bool { return r.live != nil }

// All lists the configured backends, live first. Public share links are resolved across
// all of them because the token does not say where it was issued.
func (r *Resolver) All() []DataBackend {
	if r.live == nil {
		return []DataBackend{r.demo}
	}
	return []DataBackend{r.live, r.demo}
}
