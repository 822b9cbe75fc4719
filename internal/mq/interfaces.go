package mq

import (
	"context"

	"linkrelay/internal/model"
)

// ProducerInterface defines the interface for click event publication
type ProducerInterface interface {
	SendClickEvent(ctx context.Context, msg *model.ClickEventMessage) error
	Write(ctx context.Context, event *model.ClickEvent) error
	Close() error
}

// ConsumerInterface defines the interface for message consumption
type ConsumerInterface interface {
	Subscribe() error
	Close() error
}

var (
	_ ProducerInterface = (*Producer)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
