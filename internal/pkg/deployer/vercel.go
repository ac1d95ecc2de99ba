package deployer

import (
	"context"
	"fmt"

	"github.com/saas-factory/api/internal/infra/httpclient"
	"github.com/saas-factory/api/internal/modules/model"
	"go.uber.org/zap"
)

type VercelAPI interface {
	CreateDeployment(ctx context.Context, req httpclient.VercelDeploymentRequest) (*httpclient.VercelDeployment, error)
}

type GithubAPI interface {
	CreateRepo(ctx context.Context, name, description string, private bool) (*httpclient.GithubRepo, error)
	PutFile(ctx context.Context, fullName, path, content, message string) error
}

// Vercel pushes the files to a new GitHub repository when a GitHub client is set, then
// creates a Vercel deployment from the same files uploaded inline.
type Vercel struct {
	api    VercelAPI
	github GithubAPI
	log    *zap.Logger
}

// NewVercel accepts a nil github client; the repository step is then skipped.
func NewVercel(api VercelAPI, github GithubAPI, log *zap.Logger) *Vercel {
	return &Vercel{api: api, github: github, log: log}
}

func (v *Vercel) Provider() string { return model.DeployProviderVercel }

func (v *Vercel) Deploy(ctx context.Context, req Request) (*Result, error) {
	if req.Code == nil || len(req.Code.Files) == 0 {
		return nil, ErrNoFiles
	}
	name := Slug(req.Name, req.ProjectID)
	res := &Result{}

	if v.github != nil {
		repo, err := v.github.CreateRepo(ctx, name, req.Code.Summary, true)
		if err != nil {
			return nil, fmt.Errorf("create repository: %w", err)
		}
		for _, f := range req.Code.Files {
			if err := v.github.PutFile(ctx, repo.FullName, f.Path, f.Content, "Add "+f.Path); err != nil {
				return nil, fmt.Errorf("push %s: %w", f.Path, err)
			}
		}
		res.RepositoryURL = repo.HTMLURL
		v.log.Info("repository created", zap.String("repo", repo.FullName), zap.Int("files", len(req.Code.Files)))
	}

	files := make([]httpclient.VercelFile, 0, len(req.Code.Files))
	for _, f := range req.Code.Files {
		files = append(files, httpclient.VercelFile{File: f.Path, Data: f.Content, Encoding: "utf-8"})
	}
	dreq := httpclient.VercelDeploymentRequest{Name: name, Files: files, Target: "production"}
	if fw := vercelFramework(req.Code.Framework); fw != "" {
		dreq.ProjectSettings = &httpclient.VercelProjectSettings{Framework: &fw}
	}

	d, err := v.api.CreateDeployment(ctx, dreq)
	if err != nil {
		return nil, fmt.Errorf("create deployment: %w", err)
	}
	res.URL = d.URL
	res.ExternalID = d.ID
	return res, nil
}

func vercelFramework(fw string) string {
	switch fw {
	case "nextjs", "next", "Next.js":
		return "nextjs"
	case "vite", "react":
		return "vite"
	case "sveltekit":
		return "sveltekit"
	case "nuxt", "nuxtjs":
		return "nuxtjs"
	}
	return ""
}
