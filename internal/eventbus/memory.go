package eventbus

import (
	"context"
	"sync"
)

// MemoryEventBus 는 프로세스 안에서 이벤트를 바로 전달한다. Kafka 없이 실행하거나 테스트할 때 쓴다.
// 재시도 토픽은 건너뛰고 handler 가 실패하면 DLQ 목록에 쌓는다.
type MemoryEventBus struct {
	mu        sync.Mutex
	handlers  map[string][]EventHandler
	published map[string][]Event
}

func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		handlers:  make(map[string][]EventHandler),
		published: make(map[string][]Event),
	}
}

func (m *MemoryEventBus) Publish(ctx context.Context, topic string, event Event) error {
	m.mu.Lock()
	m.published[topic] = append(m.published[topic], event)
	handlers := append([]EventHandler(nil), m.handlers[topic]...)
	m.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			_, failed := NextRoute(NewTopic(topic), event, err)
			m.mu.Lock()
			m.published[topic+".dlq"] = append(m.published[topic+".dlq"], failed)
			m.mu.Unlock()
		}
	}
	return nil
}

// On 은 handler 를 바로 등록한다.
func (m *MemoryEventBus) On(topic Topic, handler EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic.Base()] = append(m.handlers[topic.Base()], handler)
}

// Subscribe 는 handler 를 등록하고 ctx 가 끝날 때까지 기다린다.
func (m *MemoryEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	m.On(topic, handler)
	<-ctx.Done()
	return ctx.Err()
}

func (m *MemoryEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *MemoryEventBus) Close() {}

// HandlerCount 는 topic 에 등록된 handler 수다.
func (m *MemoryEventBus) HandlerCount(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers[topic])
}

// Published 는 topic 에 발행된 이벤트 복사본이다.
func (m *MemoryEventBus) Published(topic string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.published[topic]...)
}
