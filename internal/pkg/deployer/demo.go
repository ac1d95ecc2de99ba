package deployer

import (
	"context"

	"github.com/saas-factory/api/internal/modules/model"
)

// Demo returns a synthetic URL without contacting any provider.
type Demo struct{}

func (Demo) Provider() string { return model.DeployProviderDemo }

func (Demo) Deploy(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slug := Slug(req.Name, req.ProjectID)
	return &Result{
		URL:        "https://" + slug + ".demo.saas-factory.app",
		ExternalID: "demo_" + req.ProjectID.String()[:8],
	}, nil
}
