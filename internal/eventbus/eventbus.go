// Package eventbus 는 대화 턴 이벤트를 Kafka 로 주고받는다.
// 처리에 실패한 이벤트는 지연 재시도 토픽을 거쳐 다시 기본 토픽으로 돌아오고, 재시도를 다 쓰면 DLQ 로 간다.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RetryDelays 는 재시도 횟수(1부터)별 지연 시간이다.
var RetryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// Topic 은 기본 토픽 이름에서 재시도 토픽과 DLQ 토픽 이름을 만든다.
// 재시도 토픽 이름은 "<base>.retry.<n>" 이다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

func (t Topic) RetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i := range RetryDelays {
		topics[i] = fmt.Sprintf("%s.retry.%d", t.base, i+1)
	}
	return topics
}

// RetryTopic 은 retryCount 번째 재시도 토픽 이름을 반환한다. 범위를 벗어나면 ErrMaxRetryExceeded 다.
func (t Topic) RetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return fmt.Sprintf("%s.retry.%d", t.base, retryCount), nil
}

// Event 는 Kafka 메시지 페이로드다.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"key,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
	Retry      int             `json:"retry"`
	MaxRetry   int             `json:"max_retry"`
	LastError  string          `json:"last_error,omitempty"`
}

type EventHandler func(ctx context.Context, event Event) error

type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe 는 기본 토픽을 구독해 handler 를 실행한다. ctx 가 끝날 때까지 반환하지 않는다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector 는 재시도 토픽의 이벤트를 지연 시간이 지난 뒤 기본 토픽으로 돌려보낸다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

var ErrMaxRetryExceeded = errors.New("eventbus: max retry exceeded")

// NextRoute 는 handler 가 실패한 이벤트를 보낼 토픽과 갱신된 이벤트를 반환한다.
// 재시도 여유가 있으면 다음 재시도 토픽, 없으면 DLQ 다.
func NextRoute(topic Topic, evt Event, handlerErr error) (string, Event) {
	evt.LastError = handlerErr.Error()
	maxRetry := evt.MaxRetry
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	next := evt.Retry + 1
	if next > maxRetry {
		return topic.DLQ(), evt
	}
	name, err := topic.RetryTopic(next)
	if err != nil {
		return topic.DLQ(), evt
	}
	evt.Retry = next
	return name, evt
}
