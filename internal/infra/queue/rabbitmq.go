package mq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saas-factory/api/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DialFunc opens a broker connection; the publisher calls it again after a drop.
type DialFunc func() (*amqp.Connection, error)

// NewDialFunc honours rabbitmq.enableTLS and amqps:// URLs.
func NewDialFunc(cfg *config.Config) DialFunc {
	return func() (*amqp.Connection, error) {
		url := cfg.RabbitMQ.URL
		if cfg.RabbitMQ.EnableTLS || strings.HasPrefix(url, "amqps://") {
			if strings.HasPrefix(url, "amqp://") {
				url = strings.Replace(url, "amqp://", "amqps://", 1)
			}
			return amqp.DialTLS(url, &tls.Config{MinVersion: tls.VersionTLS12})
		}
		return amqp.Dial(url)
	}
}

// tableCarrier adapts amqp.Table to TextMapCarrier for trace propagation.
type tableCarrier struct {
	table amqp.Table
}

func (c tableCarrier) Get(key string) string {
	if val, ok := c.table[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
		return fmt.Sprintf("%v", val)
	}
	return ""
}

func (c tableCarrier) Set(key, value string) {
	c.table[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c.table))
	for k := range c.table {
		keys = append(keys, k)
	}
	return keys
}

// Publisher sends lifecycle events to a durable topic exchange.
type Publisher struct {
	mu       sync.Mutex
	dial     DialFunc
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	log      *zap.Logger
	cfg      *config.Config
}

func NewPublisher(dial DialFunc, log *zap.Logger, cfg *config.Config) (*Publisher, error) {
	p := &Publisher{dial: dial, exchange: cfg.RabbitMQ.ExchangeName, log: log, cfg: cfg}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := p.dial()
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// PublishJSON publishes body under routingKey, redialling once if the channel dropped.
func (p *Publisher) PublishJSON(ctx context.Context, routingKey string, body any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	tracer := otel.Tracer(p.cfg.App.Name)
	ctx, span := tracer.Start(ctx, "rabbitmq.publish",
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.exchange),
			attribute.String("messaging.destination_kind", "exchange"),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		))
	defer span.End()

	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier{table: headers})

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
		Headers:      headers,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		p.log.Warn("rabbitmq channel closed, reconnecting")
		if err := p.connect(); err != nil {
			span.RecordError(err)
			return err
		}
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("messaging.message.body.size", len(b)))
	return nil
}
