package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"peleman-chatbot/internal/logger"
)

// KafkaConfig 는 Producer/Consumer 공통 설정이다. 0 값 항목은 라이브러리 기본값을 쓴다.
type KafkaConfig struct {
	Brokers           string
	ClientID          string
	MessageMaxBytes   int
	MaxPollIntervalMs int
}

// KafkaConfigFromEnv 는 KAFKA_MESSAGE_MAX_BYTES, KAFKA_MAX_POLL_INTERVAL_MS 를 읽어 설정을 보완한다.
func KafkaConfigFromEnv(brokers, clientID string) KafkaConfig {
	return KafkaConfig{
		Brokers:           brokers,
		ClientID:          clientID,
		MessageMaxBytes:   positiveIntFromEnv("KAFKA_MESSAGE_MAX_BYTES"),
		MaxPollIntervalMs: positiveIntFromEnv("KAFKA_MAX_POLL_INTERVAL_MS"),
	}
}

type KafkaEventBus struct {
	producer *kafka.Producer
	cfg      KafkaConfig
}

func NewKafkaEventBus(cfg KafkaConfig) (*KafkaEventBus, error) {
	if strings.TrimSpace(cfg.Brokers) == "" {
		return nil, errors.New("kafka brokers 가 설정되지 않았습니다")
	}
	producerCfg := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"acks":              "all",
		"retries":           5,
	}
	if cfg.ClientID != "" {
		(*producerCfg)["client.id"] = cfg.ClientID
	}
	if cfg.MessageMaxBytes > 0 {
		(*producerCfg)["message.max.bytes"] = cfg.MessageMaxBytes
	}

	p, err := kafka.NewProducer(producerCfg)
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	go logDeliveryReports(p)

	return &KafkaEventBus{producer: p, cfg: cfg}, nil
}

// Close 는 남은 채팅 이벤트를 최대 5초 동안 내보낸 뒤 Producer 를 닫는다.
func (k *KafkaEventBus) Close() {
	if k.producer == nil {
		return
	}
	if remaining := k.producer.Flush(5000); remaining > 0 {
		logger.WarnWithFields("kafka Producer 종료 시 미전송 이벤트", logger.Fields{"remaining": remaining})
	}
	k.producer.Close()
	logger.InfoWithFields("kafka Producer 종료", logger.Fields{"client_id": k.cfg.ClientID})
}

// logDeliveryReports 는 Produce 에 전달 채널을 주지 않은 메시지의 실패와 클라이언트 오류를 남긴다.
func logDeliveryReports(p *kafka.Producer) {
	for e := range p.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logger.ErrorWithFields("채팅 이벤트 전달 실패", messageFields(ev, ev.TopicPartition.Error))
			}
		case kafka.Error:
			logger.ErrorWithFields("kafka 클라이언트 오류", logger.Fields{"code": ev.Code().String(), "error": ev.Error()})
		}
	}
}

// Publish 는 이벤트를 topic 에 쓰고 전달 보고서를 기다린다. 파티션 키는 Event.Key, 없으면 Event.ID 다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	msg, err := encodeMessage(topic, event)
	if err != nil {
		return err
	}

	delivered := make(chan kafka.Event, 1)
	if err := k.producer.Produce(msg, delivered); err != nil {
		return fmt.Errorf("%s 이벤트 발행 실패 (session=%s): %w", event.Type, msg.Key, err)
	}

	select {
	case ev := <-delivered:
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("%s 이벤트 전달 실패 (session=%s): %w", event.Type, m.Key, m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// encodeMessage 는 이벤트를 JSON 으로 감싸고 세션 ID 를 파티션 키로 쓴다. 키가 없으면 이벤트 ID 를 쓴다.
func encodeMessage(topic string, event Event) (*kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%s 이벤트 직렬화 실패: %w", event.Type, err)
	}
	key := event.Key
	if key == "" {
		key = event.ID
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(key),
		Headers:        []kafka.Header{{Key: "event_type", Value: []byte(event.Type)}},
	}, nil
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	consumerCfg := &kafka.ConfigMap{
		"bootstrap.servers":             k.cfg.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	}
	if k.cfg.ClientID != "" {
		(*consumerCfg)["client.id"] = k.cfg.ClientID
	}
	if k.cfg.MaxPollIntervalMs > 0 {
		(*consumerCfg)["max.poll.interval.ms"] = k.cfg.MaxPollIntervalMs
	}
	return kafka.NewConsumer(consumerCfg)
}

// Subscribe 는 기본 토픽의 채팅 이벤트를 읽어 handler 를 실행한다.
// handler 가 실패하면 NextRoute 가 정한 재시도 토픽이나 DLQ 에 발행한 뒤에만 오프셋을 커밋한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka Consumer 생성 실패: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %s: %w", topic.Base(), err)
	}
	logger.InfoWithFields("채팅 이벤트 컨슈머 시작", logger.Fields{"group_id": groupID, "topic": topic.Base()})

	return pollMessages(ctx, c, groupID, func(msg *kafka.Message) {
		evt, err := decodeMessage(msg)
		if err != nil {
			logger.ErrorWithFields("이벤트 페이로드 오류, 건너뛰고 커밋", messageFields(msg, err))
			commit(c, msg)
			return
		}

		fields := eventFields(evt, topic.Base())
		logger.DebugWithFields("채팅 이벤트 처리 시작", fields)

		if herr := handler(ctx, evt); herr != nil {
			target, next := NextRoute(topic, evt, herr)
			fields["route"] = target
			fields["error"] = herr.Error()
			if target == topic.DLQ() {
				logger.ErrorWithFields("재시도 한도 초과, DLQ 로 전송", fields)
			} else {
				logger.WarnWithFields("이벤트 처리 실패, 재시도 예약", fields)
			}
			if err := k.Publish(ctx, target, next); err != nil {
				fields["publish_error"] = err.Error()
				logger.ErrorWithFields("재시도 발행 실패, 오프셋 커밋 안함", fields)
				return
			}
		}
		commit(c, msg)
	})
}

// StartRetryReinjector 는 재시도 토픽을 읽어 지연 시간이 지난 이벤트를 기본 토픽으로 다시 발행한다.
// 아직 준비되지 않은 메시지는 짧게 기다렸다가 같은 오프셋으로 되돌아가 다시 확인한다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("kafka 재시도 재주입기 생성 실패: %w", err)
	}
	defer c.Close()

	retryTopics := topic.RetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("재시도 토픽 구독 실패 %v: %w", retryTopics, err)
	}
	logger.InfoWithFields("재시도 재주입 컨슈머 시작", logger.Fields{"group_id": groupID, "topics": strings.Join(retryTopics, ",")})

	return pollMessages(ctx, c, groupID, func(msg *kafka.Message) {
		topicName := *msg.TopicPartition.Topic
		delay, ok := ParseRetryDelayFromTopicName(topicName)
		if !ok {
			logger.ErrorWithFields("재시도 토픽 이름 파싱 실패, 건너뛰고 커밋", messageFields(msg, nil))
			commit(c, msg)
			return
		}

		if wait := ReinjectWait(msg.Timestamp, delay, time.Now()); wait > 0 {
			if !sleepContext(ctx, wait) {
				return
			}
			if err := c.Seek(msg.TopicPartition, 1000); err != nil {
				logger.ErrorWithFields("재시도 메시지 seek 실패", messageFields(msg, err))
			}
			return
		}

		evt, err := decodeMessage(msg)
		if err != nil {
			logger.ErrorWithFields("재시도 이벤트 페이로드 오류, 건너뛰고 커밋", messageFields(msg, err))
			commit(c, msg)
			return
		}

		fields := eventFields(evt, topicName)
		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			fields["error"] = err.Error()
			logger.ErrorWithFields("이벤트 재주입 실패, 오프셋 커밋 안함", fields)
			return
		}
		logger.InfoWithFields("이벤트 재주입", fields)
		commit(c, msg)
	})
}

// pollMessages 는 ctx 가 끝날 때까지 메시지를 하나씩 handle 에 넘긴다. 치명적 컨슈머 오류만 반환한다.
func pollMessages(ctx context.Context, c *kafka.Consumer, name string, handle func(*kafka.Message)) error {
	for {
		if err := ctx.Err(); err != nil {
			logger.InfoWithFields("kafka 컨슈머 종료", logger.Fields{"group_id": name})
			return err
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) {
				if kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kerr.IsFatal() {
					return fmt.Errorf("%s 컨슈머 치명적 오류: %w", name, err)
				}
			}
			logger.WarnWithFields("kafka ReadMessage 오류", logger.Fields{"group_id": name, "error": err.Error()})
			sleepContext(ctx, 500*time.Millisecond)
			continue
		}
		handle(msg)
	}
}

// decodeMessage 는 메시지 값을 Event 로 읽는다. 예전 발행자가 Type 이나 Key 를 비워 보냈으면
// event_type 헤더와 메시지 키로 채운다.
func decodeMessage(msg *kafka.Message) (Event, error) {
	var evt Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return Event{}, err
	}
	if evt.Type == "" {
		for _, h := range msg.Headers {
			if h.Key == "event_type" {
				evt.Type = string(h.Value)
			}
		}
	}
	if evt.Key == "" && len(msg.Key) > 0 {
		evt.Key = string(msg.Key)
	}
	return evt, nil
}

// eventFields 의 session_id 는 파티션 키다. 채팅 이벤트는 세션 ID 로 발행된다.
func eventFields(evt Event, topic string) logger.Fields {
	return logger.Fields{
		"topic":      topic,
		"event_id":   evt.ID,
		"event_type": evt.Type,
		"session_id": evt.Key,
		"retry":      evt.Retry,
		"max_retry":  evt.MaxRetry,
	}
}

func messageFields(msg *kafka.Message, err error) logger.Fields {
	fields := logger.Fields{"partition": msg.TopicPartition.Partition, "offset": msg.TopicPartition.Offset.String()}
	if msg.TopicPartition.Topic != nil {
		fields["topic"] = *msg.TopicPartition.Topic
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}

func commit(c *kafka.Consumer, msg *kafka.Message) {
	if _, err := c.CommitMessage(msg); err != nil {
		logger.ErrorWithFields("오프셋 커밋 실패", messageFields(msg, err))
	}
}

// sleepContext 는 d 만큼 기다린다. ctx 가 먼저 끝나면 false 를 반환한다.
func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// ReinjectWait 는 재시도 메시지를 다시 확인하기 전까지 잠들 시간이다. 0 이면 바로 재주입한다.
// 한 번에 최대 500ms 만 잠들어 컨슈머가 오래 멈추지 않게 한다.
func ReinjectWait(producedAt time.Time, delay time.Duration, now time.Time) time.Duration {
	remaining := producedAt.Add(delay).Sub(now)
	switch {
	case remaining <= 0:
		return 0
	case remaining > 500*time.Millisecond:
		return 500 * time.Millisecond
	case remaining < 50*time.Millisecond:
		return 50 * time.Millisecond
	default:
		return remaining
	}
}

func positiveIntFromEnv(key string) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Log.Warnf("%s 환경변수 파싱 실패: %v. 기본값 사용.", key, err)
		return 0
	}
	if v <= 0 {
		logger.Log.Warnf("%s 환경변수 값이 0 이하입니다. 기본값 사용.", key)
		return 0
	}
	return v
}
