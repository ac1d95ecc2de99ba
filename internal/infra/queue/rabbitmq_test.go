package mq

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saas-factory/api/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTableCarrier(t *testing.T) {
	c := tableCarrier{table: amqp.Table{"n": 3}}
	c.Set("traceparent", "00-abc-def-01")

	assert.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	assert.Equal(t, "3", c.Get("n"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"traceparent", "n"}, c.Keys())
}

func TestNewPublisher_DialError(t *testing.T) {
	cfg := &config.Config{RabbitMQ: config.RabbitMQCfg{ExchangeName: "x"}}
	dial := func() (*amqp.Connection, error) { return nil, errors.New("refused") }

	_, err := NewPublisher(dial, zap.NewNop(), cfg)
	assert.ErrorContains(t, err, "refused")
}
