package backend

import (
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
	"gorm.io/gorm"
)

type LiveBackend struct {
	Repos
	gen       generator.Generator
	deployers map[string]deployer.Deployer
}

// NewLiveBackend wires the gorm repositories.
func NewLiveBackend(db *gorm.DB, gen generator.Generator, deployers ...deployer.Deployer) *LiveBackend {
	return NewLiveBackendWithRepos(Repos{
		ProjectRepo:    repo.NewProjectRepo(db),
		LogRepo:        repo.NewGenerationLogRepo(db),
		ActivityRepo:   repo.NewActivityRepo(db),
		ShareRepo:      repo.NewShareRepo(db),
		FavoriteRepo:   repo.NewFavoriteRepo(db),
		CategoryRepo:   repo.NewCategoryRepo(db),
		TemplateRepo:   repo.NewTemplateRepo(db),
		DeploymentRepo: repo.NewDeploymentRepo(db),
		MetricRepo:     repo.NewMetricRepo(db),
	}, gen, deployers...)
}

func NewLiveBackendWithRepos(r Repos, gen generator.Generator, deployers ...deployer.Deployer) *LiveBackend {
	m := make(map[string]deployer.Deployer, len(deployers))
	for _, d := range deployers {
		m[d.Provider()] = d
	}
	return &LiveBackend{Repos: r, gen: gen, deployers: m}
}

func (b *LiveBackend) Generator() generator.Generator { return b.gen }

func (b *LiveBackend) Deployer(provider string) (deployer.Deployer, error) {
	d, ok := b.deployers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return d, nil
}

func (b *LiveBackend) Demo() bool { return false }
