package service

import (
	"context"
	"time"

	"github.com/saas-factory/api/internal/backend"
	"go.uber.org/zap"
)

// Routing keys of lifecycle events.
const (
	EventProjectGenerated        = "project.generated"
	EventProjectGenerationFailed = "project.generation_failed"
	EventProjectDeployed         = "project.deployed"
)

// EventPublisher is satisfied by the RabbitMQ publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

type LifecycleEvent struct {
	Event         string    `json:"event"`
	ProjectID     string    `json:"project_id"`
	UserID        string    `json:"user_id"`
	Status        string    `json:"status"`
	Provider      string    `json:"provider,omitempty"`
	Message       string    `json:"message,omitempty"`
	DeploymentURL string    `json:"deployment_url,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type eventSink struct {
	pub EventPublisher
	log *zap.Logger
}

// publish is best effort. Demo traffic never reaches the broker.
func (e eventSink) publish(ctx context.Context, b backend.DataBackend, ev LifecycleEvent) {
	if e.pub == nil || b.Demo() {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := e.pub.PublishJSON(context.WithoutCancel(ctx), ev.Event, ev); err != nil {
		e.log.Warn("publish lifecycle event failed",
			zap.String("event", ev.Event),
			zap.String("project_id", ev.ProjectID),
			zap.Error(err))
	}
}
