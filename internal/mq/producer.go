package mq

import (
	"context"
	"fmt"

	"linkrelay/internal/config"
	"linkrelay/internal/model"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/rs/zerolog/log"
)

// sender is the part of rocketmq.Producer the click producer uses
type sender interface {
	SendSync(ctx context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error)
	Shutdown() error
}

// Producer publishes click events to RocketMQ
type Producer struct {
	client sender
	topic  string
}

// NewProducer creates a new RocketMQ producer
func NewProducer(cfg *config.RocketMQConfig) (*Producer, error) {
	p, err := rocketmq.NewProducer(
		producer.WithNameServer([]string{cfg.NameServer}),
		producer.WithRetry(3),
		producer.WithGroupName(cfg.Group+"_producer"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create RocketMQ producer: %w", err)
	}

	if err := p.Start(); err != nil {
		return nil, fmt.Errorf("failed to start RocketMQ producer: %w", err)
	}

	log.Info().Str("topic", cfg.Topic).Msg("RocketMQ producer started")

	return &Producer{
		client: p,
		topic:  cfg.Topic,
	}, nil
}

// SendClickEvent sends a click event message to RocketMQ
func (p *Producer) SendClickEvent(ctx context.Context, msg *model.ClickEventMessage) error {
	if p == nil {
		return nil // Producer disabled
	}

	bytes, err := encodeClickEvent(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	m := primitive.NewMessage(p.topic, bytes)
	m.WithTag(ClickEventTag)
	m.WithKeys([]string{msg.EventID})

	result, err := p.client.SendSync(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	log.Debug().
		Str("msg_id", result.MsgID).
		Int64("link_id", msg.LinkID).
		Msg("Click event sent to RocketMQ")

	return nil
}

// Write publishes the event; it lets the producer act as a recorder sink
func (p *Producer) Write(ctx context.Context, event *model.ClickEvent) error {
	return p.SendClickEvent(ctx, event.Message())
}

// Close closes the producer
func (p *Producer) Close() error {
	if p != nil && p.client != nil {
		return p.client.Shutdown()
	}
	return nil
}
