package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"peleman-chatbot/config"
	"peleman-chatbot/db"
	"peleman-chatbot/events"
	"peleman-chatbot/internal/eventbus"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/repositories"
)

func main() {
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	brokers := cfg.Secrets.KafkaBrokers
	if brokers == "" {
		logger.Log.Error("KAFKA_BOOTSTRAP_SERVERS environment variable is required")
		os.Exit(1)
	}
	topic := eventbus.NewTopic(cfg.Events.Topic)
	if err := eventbus.EnsureTopics(ctx, brokers, topic, cfg.Events.Partitions); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
	}

	bus, err := eventbus.NewKafkaEventBus(eventbus.KafkaConfigFromEnv(brokers, "peleman-chatbot-turnlogger"))
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	h := &turnLogHandler{repo: repositories.NewChatTurnLogRepository(db.Database())}
	logger.InfoWithFields("starting turn logger", logger.Fields{"topic": topic.Base(), "group_id": cfg.Events.GroupID})

	err = eventbus.SubscribeJSON(ctx, bus, cfg.Events.GroupID, topic, string(events.ChatTurnCompleted), h.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Errorf("eventbus subscribe error: %v", err)
	}
	logger.Log.Info("turn logger stopped")
}
