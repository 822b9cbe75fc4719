package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkrelay/internal/model"
)

type fakeSender struct {
	sent     []*primitive.Message
	err      error
	shutdown bool
}

func (f *fakeSender) SendSync(ctx context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msgs...)
	return &primitive.SendResult{Status: primitive.SendOK, MsgID: "msg-1"}, nil
}

func (f *fakeSender) Shutdown() error {
	f.shutdown = true
	return nil
}

func testEvent() *model.ClickEvent {
	return &model.ClickEvent{
		EventID:     "3b241101-e2bb-4255-8caf-4136c566a962",
		LinkID:      12,
		ClickedAt:   time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		DeviceType:  model.DeviceMobile,
		Referrer:    "https://example.com",
		CountryCode: "BR",
		VisitorHash: "a1b2c3d4e5f60718",
	}
}

func TestProducer_SendClickEvent_NilProducer(t *testing.T) {
	t.Run("nil producer returns nil", func(t *testing.T) {
		var p *Producer
		err := p.SendClickEvent(context.Background(), testEvent().Message())
		assert.NoError(t, err)
	})
}

func TestProducer_SendClickEvent(t *testing.T) {
	t.Run("publishes tagged message keyed by event id", func(t *testing.T) {
		fake := &fakeSender{}
		p := &Producer{client: fake, topic: "click_event"}

		require.NoError(t, p.SendClickEvent(context.Background(), testEvent().Message()))

		require.Len(t, fake.sent, 1)
		m := fake.sent[0]
		assert.Equal(t, "click_event", m.Topic)
		assert.Equal(t, ClickEventTag, m.GetTags())
		assert.Equal(t, "3b241101-e2bb-4255-8caf-4136c566a962", m.GetKeys())

		var body model.ClickEventMessage
		require.NoError(t, json.Unmarshal(m.Body, &body))
		assert.Equal(t, int64(12), body.LinkID)
		assert.Equal(t, "mobile", body.DeviceType)
		assert.Equal(t, "BR", body.CountryCode)
	})

	t.Run("send failure is returned", func(t *testing.T) {
		p := &Producer{client: &fakeSender{err: assert.AnError}, topic: "click_event"}

		err := p.SendClickEvent(context.Background(), testEvent().Message())
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("message without event id is rejected", func(t *testing.T) {
		fake := &fakeSender{}
		p := &Producer{client: fake, topic: "click_event"}

		msg := testEvent().Message()
		msg.EventID = ""
		assert.ErrorIs(t, p.SendClickEvent(context.Background(), msg), ErrInvalidMessage)
		assert.Empty(t, fake.sent)
	})
}

func TestProducer_Write(t *testing.T) {
	fake := &fakeSender{}
	p := &Producer{client: fake, topic: "click_event"}

	require.NoError(t, p.Write(context.Background(), testEvent()))
	assert.Len(t, fake.sent, 1)
}

func TestProducer_Close(t *testing.T) {
	t.Run("nil producer close returns nil", func(t *testing.T) {
		var p *Producer
		err := p.Close()
		assert.NoError(t, err)
	})

	t.Run("close shuts the client down", func(t *testing.T) {
		fake := &fakeSender{}
		p := &Producer{client: fake}
		assert.NoError(t, p.Close())
		assert.True(t, fake.shutdown)
	})
}
