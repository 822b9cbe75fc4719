package mq

import (
	"context"
	"errors"
	"fmt"

	"linkrelay/internal/config"
	"linkrelay/internal/model"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/rs/zerolog/log"
)

// ClickEventHandler is the handler for click event messages
type ClickEventHandler func(ctx context.Context, event *model.ClickEvent) error

// Consumer handles message consumption from RocketMQ
type Consumer struct {
	client  rocketmq.PushConsumer
	topic   string
	group   string
	handler ClickEventHandler
	started bool
}

// NewConsumer creates a new RocketMQ consumer
func NewConsumer(cfg *config.RocketMQConfig, handler ClickEventHandler) (*Consumer, error) {
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer([]string{cfg.NameServer}),
		consumer.WithConsumerModel(consumer.Clustering),
		consumer.WithGroupName(cfg.Group),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create RocketMQ consumer: %w", err)
	}

	return &Consumer{
		client:  c,
		topic:   cfg.Topic,
		group:   cfg.Group,
		handler: handler,
	}, nil
}

// Subscribe subscribes to the topic and starts consuming messages
func (c *Consumer) Subscribe() error {
	if c.started {
		return nil
	}

	selector := consumer.MessageSelector{Type: consumer.TAG, Expression: ClickEventTag}
	if err := c.client.Subscribe(c.topic, selector, c.consume); err != nil {
		return fmt.Errorf("failed to subscribe to topic: %w", err)
	}

	if err := c.client.Start(); err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	c.started = true
	log.Info().Str("topic", c.topic).Str("group", c.group).Msg("RocketMQ consumer started")

	return nil
}

// consume processes one delivered batch. Undecodable messages are skipped;
// a handler failure asks the broker to redeliver the batch, which is safe
// because the store ignores event ids it has already seen.
func (c *Consumer) consume(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		event, err := decodeClickEvent(msg.Body)
		if err != nil {
			log.Error().Err(err).Str("msg_id", msg.MsgId).Msg("Skipping undecodable message")
			continue
		}

		log.Debug().
			Str("msg_id", msg.MsgId).
			Int64("link_id", event.LinkID).
			Msg("Processing click event")

		if c.handler == nil {
			continue
		}
		if err := c.handler(ctx, event); err != nil {
			if errors.Is(err, ErrInvalidMessage) {
				log.Warn().Err(err).Str("msg_id", msg.MsgId).Msg("Dropping rejected click event")
				continue
			}
			log.Error().Err(err).Str("msg_id", msg.MsgId).Msg("Handler failed")
			return consumer.ConsumeRetryLater, err
		}
	}
	return consumer.ConsumeSuccess, nil
}

// Close closes the consumer
func (c *Consumer) Close() error {
	if c != nil && c.client != nil {
		return c.client.Shutdown()
	}
	return nil
}
