package events

import (
	"context"

	"peleman-chatbot/internal/eventbus"
	"peleman-chatbot/internal/logger"
)

// Publisher 는 대화 이벤트를 eventbus 로 발행한다. 발행 실패는 로그만 남기고 호출자에게 돌려주기만 한다.
type Publisher struct {
	bus   eventbus.EventBus
	topic eventbus.Topic
}

func NewPublisher(bus eventbus.EventBus, topic eventbus.Topic) *Publisher {
	return &Publisher{bus: bus, topic: topic}
}

func (p *Publisher) publish(ctx context.Context, eventType EventType, key string, payload any) error {
	evt, err := eventbus.NewJSONEvent(string(eventType), key, payload, 0)
	if err != nil {
		return err
	}
	if err := p.bus.Publish(ctx, p.topic.Base(), evt); err != nil {
		logger.WarnWithFields("이벤트 발행 실패", logger.Fields{"type": string(eventType), "event_id": evt.ID, "error": err.Error()})
		return err
	}
	return nil
}

func (p *Publisher) TurnCompleted(ctx context.Context, e ChatTurnCompletedEvent) error {
	return p.publish(ctx, ChatTurnCompleted, e.SessionID, e)
}

func (p *Publisher) Navigated(ctx context.Context, e ChatNavigatedEvent) error {
	return p.publish(ctx, ChatNavigated, e.SessionID, e)
}

func (p *Publisher) SessionCleared(ctx context.Context, e ChatSessionClearedEvent) error {
	return p.publish(ctx, ChatSessionCleared, e.SessionID, e)
}

// Noop 은 이벤트 발행이 꺼져 있을 때 쓰는 Observer 다.
type Noop struct{}

func (Noop) TurnCompleted(context.Context, ChatTurnCompletedEvent) error   { return nil }
func (Noop) Navigated(context.Context, ChatNavigatedEvent) error           { return nil }
func (Noop) SessionCleared(context.Context, ChatSessionClearedEvent) error { return nil }
