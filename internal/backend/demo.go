package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo/memrepo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
)

// DemoUserID owns every project of the demo backend.
var DemoUserID = uuid.MustParse("00000000-0000-4000-8000-00000000d3e0")

const DemoUserEmail = "demo@saas-factory.app"

// DemoLimits bounds the shared demo store. Anonymous visitors all write as DemoUserID,
// so without a cap the process would grow with every request.
var DemoLimits = memrepo.Limits{
	Projects:       200,
	Templates:      100,
	Categories:     50,
	RowsPerProject: 200,
}

type DemoBackend struct {
	Repos
	gen generator.Generator
}

// NewDemoBackend builds an in-memory backend seeded with system categories and a few
// sample projects for DemoUserID.
func NewDemoBackend(ctx context.Context, genDelay time.Duration) (*DemoBackend, error) {
	store := memrepo.NewBoundedStore(DemoLimits)
	b := &DemoBackend{
		Repos: Repos{
			ProjectRepo:    memrepo.NewProjectRepo(store),
			LogRepo:        memrepo.NewGenerationLogRepo(store),
			ActivityRepo:   memrepo.NewActivityRepo(store),
			ShareRepo:      memrepo.NewShareRepo(store),
			FavoriteRepo:   memrepo.NewFavoriteRepo(store),
			CategoryRepo:   memrepo.NewCategoryRepo(store),
			TemplateRepo:   memrepo.NewTemplateRepo(store),
			DeploymentRepo: memrepo.NewDeploymentRepo(store),
			MetricRepo:     NewSyntheticMetricRepo(memrepo.NewMetricRepo(store)),
		},
		gen: generator.NewDemo(genDelay),
	}
	if err := b.seed(ctx); err != nil {
		return nil, fmt.Errorf("seed demo backend: %w", err)
	}
	return b, nil
}

func (b *DemoBackend) Generator() generator.Generator { return b.gen }

// Deployer ignores the provider: every demo deploy returns a synthetic URL.
func (b *DemoBackend) Deployer(string) (deployer.Deployer, error) { return deployer.Demo{}, nil }

func (b *DemoBackend) Demo() bool { return true }

type sample struct {
	title, description, category, features string
	status                                 model.ProjectStatus
}

var samples = []sample{
	{
		title:       "Todo App",
		description: "A collaborative todo list with due dates and labels",
		category:    "todo",
		features:    "Task lists\nDue dates\nLabels",
		status:      model.ProjectStatusCompleted,
	},
	{
		title:       "Analytics Dashboard",
		description: "Internal dashboard showing signups and revenue",
		category:    "dashboard",
		features:    "Charts\nCSV export",
		status:      model.ProjectStatusDeployed,
	},
	{
		title:       "Coffee Shop Store",
		description: "Online store for a local coffee roaster",
		category:    "ecommerce",
		features:    "Product catalog\nCart\nCheckout",
		status:      model.ProjectStatusDraft,
	},
}

func (b *DemoBackend) seed(ctx context.Context) error {
	if err := b.CategoryRepo.EnsureSystem(ctx, model.SystemCategories); err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, s := range samples {
		created := now.Add(-time.Duration(len(samples)-i) * 24 * time.Hour)
		p := &model.Project{
			UserID:      DemoUserID,
			Title:       s.title,
			Description: s.description,
			Category:    s.category,
			Features:    s.features,
			Status:      s.status,
			CreatedAt:   created,
		}
		if s.status != model.ProjectStatusDraft {
			code, err := model.EncodeGeneratedCode(generator.DemoArtifact(generator.Request{
				Title:       s.title,
				Description: s.description,
				Category:    s.category,
				Features:    s.features,
			}))
			if err != nil {
				return err
			}
			p.GeneratedCode = code
			completed := created.Add(2 * time.Minute)
			p.CompletedAt = &completed
		}
		if s.status == model.ProjectStatusDeployed {
			deployed := created.Add(time.Hour)
			p.DeployedAt = &deployed
			p.DeploymentURL = "https://" + deployer.Slug(s.title, uuid.Nil) + ".demo.saas-factory.app"
		}
		if err := b.ProjectRepo.Create(ctx, p); err != nil {
			return err
		}
		if err := b.ActivityRepo.Create(ctx, &model.Activity{
			ProjectID:   p.ID,
			UserID:      DemoUserID,
			Action:      model.ActionProjectCreated,
			Description: fmt.Sprintf("Created project %q", p.Title),
			CreatedAt:   created,
		}); err != nil {
			return err
		}
	}
	return nil
}
