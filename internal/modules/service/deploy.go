package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saas-factory/api/internal/backend"
	"github.com/saas-factory/api/internal/infra/httpclient"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/modules/repo"
	"github.com/saas-factory/api/internal/pkg/deployer"
	"github.com/saas-factory/api/internal/pkg/generator"
	"github.com/saas-factory/api/internal/telemetry"
	"go.uber.org/zap"
)

type DeployService interface {
	Deploy(ctx context.Context, in DeployInput) (*DeployOutput, error)
	List(ctx context.Context, userID, projectID uuid.UUID) ([]model.Deployment, error)
}

type deployService struct {
	resolver *backend.Resolver
	rec      recorder
	events   eventSink
	// secrets are masked out of upstream error messages
	secrets []string
	log     *zap.Logger
}

func NewDeployService(resolver *backend.Resolver, publisher EventPublisher, secrets []string, log *zap.Logger) DeployService {
	return &deployService{
		resolver: resolver,
		rec:      recorder{log: log},
		events:   eventSink{pub: publisher, log: log},
		secrets:  secrets,
		log:      log,
	}
}

type DeployInput struct {
	UserID      uuid.UUID
	ProjectID   uuid.UUID
	Provider    string
	ProjectName string
}

type DeployOutput struct {
	Project    *model.Project    `json:"project"`
	Deployment *model.Deployment `json:"deployment"`
}

func (s *deployService) Deploy(ctx context.Context, in DeployInput) (*DeployOutput, error) {
	b := s.resolver.For(ctx)
	p, err := loadOwned(ctx, b, in.ProjectID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !p.Status.Deployable() {
		return nil, newError(ErrValidation, "project must be generated before it can be deployed (status %s)", p.Status)
	}
	code, err := model.DecodeGeneratedCode(p.GeneratedCode)
	if err != nil {
		return nil, wrapError(ErrValidation, err, "project has no deployable code")
	}

	d, err := b.Deployer(in.Provider)
	if err != nil {
		if errors.Is(err, backend.ErrUnknownProvider) {
			return nil, newError(ErrValidation, "unsupported deployment provider %q", in.Provider)
		}
		return nil, err
	}

	name := in.ProjectName
	if name == "" {
		name = p.Title
	}
	dep := &model.Deployment{
		ProjectID: p.ID,
		UserID:    in.UserID,
		Provider:  d.Provider(),
		Status:    model.DeploymentStatusPending,
	}
	if err := b.Deployments().Create(ctx, dep); err != nil {
		return nil, fmt.Errorf("create deployment: %w", err)
	}

	res, err := d.Deploy(ctx, deployer.Request{ProjectID: p.ID, Name: name, Code: code})
	if err != nil {
		svcErr := s.classify(in.Provider, err)
		dep.Status = model.DeploymentStatusFailed
		dep.ErrorMessage = svcErr.Error()
		if uerr := b.Deployments().Update(context.WithoutCancel(ctx), dep); uerr != nil {
			s.log.Warn("update deployment failed", zap.String("deployment_id", dep.ID.String()), zap.Error(uerr))
		}
		if !errors.Is(err, deployer.ErrNotConfigured) {
			s.rec.record(ctx, b, p.ID, in.UserID, model.ActionDeploymentFailed, "Deployment failed", map[string]any{
				"provider": dep.Provider,
				"error":    dep.ErrorMessage,
			})
		}
		telemetry.RecordDeployment(ctx, dep.Provider, false)
		return nil, svcErr
	}

	dep.Status = model.DeploymentStatusReady
	dep.URL = res.URL
	dep.RepositoryURL = res.RepositoryURL
	dep.ExternalID = res.ExternalID
	if err := b.Deployments().Update(ctx, dep); err != nil {
		s.log.Warn("update deployment failed", zap.String("deployment_id", dep.ID.String()), zap.Error(err))
	}

	now := time.Now().UTC()
	st := model.ProjectStatusDeployed
	upd := repo.ProjectUpdate{Status: &st, DeploymentURL: &res.URL, DeployedAt: &now}
	if res.RepositoryURL != "" {
		upd.RepositoryURL = &res.RepositoryURL
	}
	if p.CompletedAt == nil {
		upd.CompletedAt = &now
	}
	ok, err := b.Projects().TransitionStatus(ctx, p.ID, []model.ProjectStatus{model.ProjectStatusCompleted, model.ProjectStatusDeployed}, upd)
	if err != nil {
		return nil, fmt.Errorf("mark project deployed: %w", err)
	}
	if !ok {
		return nil, newError(ErrConflict, "project changed while it was being deployed")
	}
	upd.Apply(p)

	s.rec.record(ctx, b, p.ID, in.UserID, model.ActionProjectDeployed, "Deployed to "+dep.Provider, map[string]any{
		"provider":       dep.Provider,
		"url":            res.URL,
		"repository_url": res.RepositoryURL,
	})
	s.events.publish(ctx, b, LifecycleEvent{
		Event:         EventProjectDeployed,
		ProjectID:     p.ID.String(),
		UserID:        in.UserID.String(),
		Status:        string(p.Status),
		Provider:      dep.Provider,
		DeploymentURL: res.URL,
	})
	telemetry.RecordDeployment(ctx, dep.Provider, true)
	return &DeployOutput{Project: p, Deployment: dep}, nil
}

func (s *deployService) classify(provider string, err error) error {
	var apiErr *httpclient.APIError
	switch {
	case errors.Is(err, deployer.ErrNotConfigured):
		return wrapError(ErrValidation, err, "%s deployment is not configured", provider)
	case errors.Is(err, deployer.ErrNoFiles):
		return wrapError(ErrValidation, err, "project has no files to deploy")
	case errors.Is(err, context.DeadlineExceeded):
		return wrapError(ErrTimeout, err, "%s deployment timed out", provider)
	case errors.As(err, &apiErr):
		return wrapError(ErrUpstream, err, "%s deployment failed with status %d: %s", provider,
			apiErr.StatusCode, truncate(generator.Mask(apiErr.Body, s.secrets...), 200))
	}
	return wrapError(ErrUpstream, err, "%s deployment failed: %s", provider, generator.Mask(err.Error(), s.secrets...))
}

func (s *deployService) List(ctx context.Context, userID, projectID uuid.UUID) ([]model.Deployment, error) {
	b := s.resolver.For(ctx)
	if _, err := loadOwned(ctx, b, projectID, userID); err != nil {
		return nil, err
	}
	items, err := b.Deployments().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Deployment{}
	}
	return items, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
