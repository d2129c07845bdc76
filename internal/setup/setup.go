// Package setup 은 설정값으로 세션 저장소, 카탈로그 로더, 이벤트 발행기를 만든다.
package setup

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"peleman-chatbot/catalog"
	"peleman-chatbot/config"
	"peleman-chatbot/conversation"
	"peleman-chatbot/db"
	"peleman-chatbot/events"
	"peleman-chatbot/internal/eventbus"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/session"
)

// SessionStore 는 session.driver 에 맞는 백엔드로 Store 를 연다.
func SessionStore(ctx context.Context, cfg config.AppConfig) (*session.Store, error) {
	var opts []session.BackendOption
	switch session.Driver(cfg.Session.Driver) {
	case session.DriverRedis:
		addr := cfg.Secrets.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Secrets.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		opts = append(opts, session.WithRedisClient(client))
	case session.DriverMongo:
		if err := db.Init(ctx); err != nil {
			return nil, fmt.Errorf("mongo init: %w", err)
		}
		opts = append(opts, session.WithMongoCollection(db.Database().Collection(session.CollectionName)))
	}

	backend, err := session.NewBackend(session.Driver(cfg.Session.Driver), opts...)
	if err != nil {
		return nil, err
	}
	logger.InfoWithFields("session store ready", logger.Fields{"driver": cfg.Session.Driver, "ttl": cfg.Session.TTL.String()})
	return session.NewStore(backend, session.WithTTL(cfg.Session.TTL), session.WithKeyPrefix(cfg.Session.KeyPrefix)), nil
}

// CatalogLoader 는 호스트 카탈로그 fetcher 와 대체 카탈로그로 Loader 를 만든다.
func CatalogLoader(cfg config.AppConfig, fetcher catalog.Fetcher) (*catalog.Loader, error) {
	fallback, err := catalog.LoadFallback(cfg.Catalog.FallbackFile)
	if err != nil {
		return nil, err
	}
	return catalog.NewLoader(fetcher, fallback, catalog.LoaderOptions{
		HostMode:     cfg.Host.Enabled,
		FetchTimeout: cfg.Catalog.FetchTimeout,
		RetryAfter:   cfg.Catalog.RetryAfter,
	}), nil
}

// Observer 는 이벤트가 켜져 있으면 Kafka 발행기를, 아니면 Noop 을 반환한다.
// 반환한 정리 함수는 항상 호출해도 된다.
func Observer(ctx context.Context, cfg config.AppConfig, clientID string) (conversation.Observer, func(), error) {
	if !cfg.Events.Enabled {
		return events.Noop{}, func() {}, nil
	}
	brokers := cfg.Secrets.KafkaBrokers
	if brokers == "" {
		return nil, nil, fmt.Errorf("events enabled but KAFKA_BOOTSTRAP_SERVERS is empty")
	}
	topic := eventbus.NewTopic(cfg.Events.Topic)
	if err := eventbus.EnsureTopics(ctx, brokers, topic, cfg.Events.Partitions); err != nil {
		return nil, nil, fmt.Errorf("ensure topics: %w", err)
	}
	bus, err := eventbus.NewKafkaEventBus(eventbus.KafkaConfigFromEnv(brokers, clientID))
	if err != nil {
		return nil, nil, err
	}
	return events.NewPublisher(bus, topic), bus.Close, nil
}
