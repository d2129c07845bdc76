package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"peleman-chatbot/config"
	"peleman-chatbot/internal/eventbus"
	"peleman-chatbot/internal/logger"
)

// 재시도 토픽(<topic>.retry.<n>)에 쌓인 대화 이벤트를 지연 시간이 지나면 기본 토픽으로 되돌린다.
func main() {
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	brokers := cfg.Secrets.KafkaBrokers
	if brokers == "" {
		logger.Log.Error("KAFKA_BOOTSTRAP_SERVERS environment variable is required")
		os.Exit(1)
	}
	topic := eventbus.NewTopic(cfg.Events.Topic)
	if err := eventbus.EnsureTopics(ctx, brokers, topic, cfg.Events.Partitions); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics for %s: %v", topic.Base(), err)
	}

	bus, err := eventbus.NewKafkaEventBus(eventbus.KafkaConfigFromEnv(brokers, "peleman-chatbot-retryworker"))
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	groupID := cfg.Events.GroupID + ".retry"
	logger.InfoWithFields("starting retry worker", logger.Fields{"topic": topic.Base(), "group_id": groupID})

	if err := bus.StartRetryReinjector(ctx, groupID, topic); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Errorf("eventbus retry reinjector error for %s: %v", topic.Base(), err)
	}
	logger.Log.Info("retry worker stopped")
}
