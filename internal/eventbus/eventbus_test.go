package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicNames(t *testing.T) {
	topic := NewTopic("peleman-chatbot.chat.events")

	assert.Equal(t, "peleman-chatbot.chat.events.dlq", topic.DLQ())
	retries := topic.RetryTopics()
	require.Len(t, retries, len(RetryDelays))
	assert.Equal(t, "peleman-chatbot.chat.events.retry.1", retries[0])

	for i, name := range retries {
		delay, ok := ParseRetryDelayFromTopicName(name)
		require.True(t, ok, name)
		assert.Equal(t, RetryDelays[i], delay)
	}

	_, err := topic.RetryTopic(len(RetryDelays) + 1)
	assert.ErrorIs(t, err, ErrMaxRetryExceeded)
}

func TestParseRetryDelayRejectsUnknownNames(t *testing.T) {
	for _, name := range []string{"base", "base.retry.", "base.retry.0", "base.retry.10s", "base.retry.99"} {
		_, ok := ParseRetryDelayFromTopicName(name)
		assert.False(t, ok, name)
	}
}

func TestNextRoute(t *testing.T) {
	topic := NewTopic("chat")
	failure := errors.New("mongo down")

	target, evt := NextRoute(topic, Event{ID: "e1", MaxRetry: 2}, failure)
	assert.Equal(t, "chat.retry.1", target)
	assert.Equal(t, 1, evt.Retry)
	assert.Equal(t, "mongo down", evt.LastError)

	target, evt = NextRoute(topic, evt, failure)
	assert.Equal(t, "chat.retry.2", target)

	target, evt = NextRoute(topic, evt, failure)
	assert.Equal(t, "chat.dlq", target)
	assert.Equal(t, 2, evt.Retry)
}

func TestReinjectWait(t *testing.T) {
	now := time.Now()
	assert.Zero(t, ReinjectWait(now.Add(-time.Minute), 10*time.Second, now))
	assert.Equal(t, 500*time.Millisecond, ReinjectWait(now, 10*time.Second, now))
	assert.Equal(t, 50*time.Millisecond, ReinjectWait(now, 10*time.Millisecond, now))
	assert.Equal(t, 200*time.Millisecond, ReinjectWait(now, 200*time.Millisecond, now))
}

func TestTopicSpecs(t *testing.T) {
	specs := TopicSpecs(NewTopic("chat"), 3)
	require.Len(t, specs, 2+len(RetryDelays))
	assert.Equal(t, "chat", specs[0].Topic)
	assert.Equal(t, 3, specs[0].NumPartitions)
	assert.Equal(t, "chat.dlq", specs[1].Topic)
	assert.Equal(t, 1, specs[1].NumPartitions)
}

type turnPayload struct {
	SessionID string `json:"session_id"`
}

func TestSubscribeJSONFiltersByType(t *testing.T) {
	bus := NewMemoryEventBus()
	topic := NewTopic("chat")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan turnPayload, 2)
	subscribed := make(chan struct{})
	go func() {
		close(subscribed)
		_ = SubscribeJSON(ctx, bus, "group", topic, "chat.turn_completed", func(ctx context.Context, p turnPayload, meta Event) error {
			received <- p
			return nil
		})
	}()
	<-subscribed
	require.Eventually(t, func() bool {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		return len(bus.handlers["chat"]) == 1
	}, time.Second, 5*time.Millisecond)

	other, err := NewJSONEvent("chat.other", "s1", turnPayload{SessionID: "ignored"}, 0)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, topic.Base(), other))

	evt, err := NewJSONEvent("chat.turn_completed", "s1", turnPayload{SessionID: "s1"}, 0)
	require.NoError(t, err)
	assert.Equal(t, len(RetryDelays), evt.MaxRetry)
	assert.NotEmpty(t, evt.ID)
	require.NoError(t, bus.Publish(ctx, topic.Base(), evt))

	got := <-received
	assert.Equal(t, "s1", got.SessionID)
	assert.Len(t, received, 0)
}

func TestMemoryBusRecordsFailuresInDLQ(t *testing.T) {
	bus := NewMemoryEventBus()
	topic := NewTopic("chat")
	bus.On(topic, func(ctx context.Context, evt Event) error {
		return errors.New("boom")
	})

	evt, err := NewJSONEvent("chat.turn_completed", "", map[string]string{"a": "b"}, 1)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), topic.Base(), evt))

	dlq := bus.Published(topic.DLQ())
	require.Len(t, dlq, 1)
	assert.Equal(t, "boom", dlq[0].LastError)
}

func TestDecodeMessageFillsTypeAndKeyFromEnvelope(t *testing.T) {
	topic := "peleman-chatbot.chat.events"
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Key:            []byte("sid-1"),
		Value:          []byte(`{"id":"evt-1","payload":{"ok":true}}`),
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte("chat.turn_completed")}},
	}

	evt, err := decodeMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", evt.ID)
	assert.Equal(t, "chat.turn_completed", evt.Type)
	assert.Equal(t, "sid-1", evt.Key)

	msg.Value = []byte(`{"id":"evt-2","type":"chat.navigated","key":"sid-2"}`)
	evt, err = decodeMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "chat.navigated", evt.Type)
	assert.Equal(t, "sid-2", evt.Key)

	msg.Value = []byte("not json")
	_, err = decodeMessage(msg)
	assert.Error(t, err)
}

func TestEncodeMessageKeysBySession(t *testing.T) {
	cases := []struct {
		name    string
		event   Event
		wantKey string
	}{
		{"session key", Event{ID: "evt-1", Type: "chat.turn_completed", Key: "sid-1"}, "sid-1"},
		{"falls back to id", Event{ID: "evt-2", Type: "chat.navigated"}, "evt-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := encodeMessage("peleman-chatbot.chat.events", tc.event)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKey, string(msg.Key))
			assert.Equal(t, "peleman-chatbot.chat.events", *msg.TopicPartition.Topic)
			require.Len(t, msg.Headers, 1)
			assert.Equal(t, tc.event.Type, string(msg.Headers[0].Value))

			back, err := decodeMessage(msg)
			require.NoError(t, err)
			assert.Equal(t, tc.event.ID, back.ID)
			assert.Equal(t, tc.event.Type, back.Type)
		})
	}
}

func TestSleepContextStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.False(t, sleepContext(ctx, time.Minute))
	assert.Less(t, time.Since(start), time.Second)

	assert.True(t, sleepContext(context.Background(), time.Millisecond))
}
