package recorder

import (
	"context"

	"linkrelay/internal/model"
)

// Sink persists or forwards one click event
type Sink interface {
	Write(ctx context.Context, event *model.ClickEvent) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, event *model.ClickEvent) error

// Write calls f(ctx, event)
func (f SinkFunc) Write(ctx context.Context, event *model.ClickEvent) error {
	return f(ctx, event)
}

// ClickStore is the part of the link repository the store sink needs
type ClickStore interface {
	RecordClick(ctx context.Context, event *model.ClickEvent) error
}

// StoreSink writes click events straight to the link store
type StoreSink struct {
	store ClickStore
}

// NewStoreSink creates a sink backed by the link repository
func NewStoreSink(store ClickStore) *StoreSink {
	return &StoreSink{store: store}
}

// Write inserts the event and increments the link counter
func (s *StoreSink) Write(ctx context.Context, event *model.ClickEvent) error {
	return s.store.RecordClick(ctx, event)
}
