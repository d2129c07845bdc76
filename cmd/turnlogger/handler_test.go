package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/events"
	"peleman-chatbot/internal/eventbus"
	"peleman-chatbot/models"
)

type fakeRepo struct {
	logs []models.ChatTurnLog
	err  error
}

func (f *fakeRepo) Insert(_ context.Context, log models.ChatTurnLog) error {
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, log)
	return nil
}

func TestTurnLoggerStoresCompletedTurns(t *testing.T) {
	bus := eventbus.NewMemoryEventBus()
	topic := eventbus.NewTopic("test.chat.events")
	repo := &fakeRepo{}
	h := &turnLogHandler{repo: repo}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		eventbus.SubscribeJSON(ctx, bus, "g", topic, string(events.ChatTurnCompleted), h.Handle)
	}()
	require.Eventually(t, func() bool { return bus.HandlerCount(topic.Base()) == 1 }, time.Second, time.Millisecond)

	pub := events.NewPublisher(bus, topic)
	require.NoError(t, pub.Navigated(ctx, events.ChatNavigatedEvent{SessionID: "sid"}))
	require.NoError(t, pub.TurnCompleted(ctx, events.ChatTurnCompletedEvent{
		SessionID:   "sid",
		MessageID:   "m1",
		ReplyText:   "hi",
		CategoryIDs: []string{"c1"},
		Error:       "boom",
	}))

	cancel()
	<-done

	require.Len(t, repo.logs, 1)
	got := repo.logs[0]
	assert.Equal(t, "sid", got.SessionID)
	assert.Equal(t, []string{"c1"}, got.CategoryIDs)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "boom", *got.ErrorMessage)
	assert.NotEmpty(t, got.EventID)
}

func TestTurnLoggerFailureGoesToDLQ(t *testing.T) {
	bus := eventbus.NewMemoryEventBus()
	topic := eventbus.NewTopic("test.chat.events")
	h := &turnLogHandler{repo: &fakeRepo{err: errors.New("mongo down")}}
	bus.On(topic, func(ctx context.Context, evt eventbus.Event) error {
		payload, err := eventbus.DecodeJSON[events.ChatTurnCompletedEvent](evt)
		if err != nil {
			return err
		}
		return h.Handle(ctx, payload, evt)
	})

	require.NoError(t, events.NewPublisher(bus, topic).TurnCompleted(context.Background(), events.ChatTurnCompletedEvent{SessionID: "sid"}))
	assert.Len(t, bus.Published(topic.DLQ()), 1)
}
