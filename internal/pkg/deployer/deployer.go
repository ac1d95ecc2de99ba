// Package deployer publishes a generated artifact to a hosting provider.
package deployer

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
)

var (
	ErrNotConfigured = errors.New("deployment provider is not configured")
	ErrNoFiles       = errors.New("generated code has no files to deploy")
)

type Request struct {
	ProjectID uuid.UUID
	// Name is the provider-side project name; it is slugified before use.
	Name string
	Code *model.GeneratedCode
}

type Result struct {
	URL           string
	RepositoryURL string
	ExternalID    string
}

type Deployer interface {
	Provider() string
	Deploy(ctx context.Context, req Request) (*Result, error)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a project title into a provider-safe name. Falls back to the project id.
func Slug(name string, id uuid.UUID) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > 52 {
		s = strings.TrimRight(s[:52], "-")
	}
	if s == "" {
		return "project-" + id.String()[:8]
	}
	return s
}

// Unconfigured fails every deploy with ErrNotConfigured.
type Unconfigured struct{ Name string }

func (u Unconfigured) Provider() string { return u.Name }
func (u Unconfigured) Deploy(context.Context, Request) (*Result, error) {
	return nil, ErrNotConfigured
}
