package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Backend 는 세션 레코드를 보관하는 키-값 저장소다.
type Backend interface {
	// Get 은 키가 없으면 (nil, nil) 을 반환한다.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 은 ttl 이 지나면 사라지는 값을 쓴다.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Keys 는 prefix 로 시작하는 키 목록을 반환한다. 운영 도구에서만 쓴다.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
	DriverMongo  Driver = "mongo"
)

// BackendOption 은 NewBackend 에 드라이버별 클라이언트를 주입한다.
type BackendOption func(*backendConfig)

type backendConfig struct {
	redisClient     *redis.Client
	mongoCollection *mongo.Collection
}

func WithRedisClient(client *redis.Client) BackendOption {
	return func(c *backendConfig) {
		c.redisClient = client
	}
}

func WithMongoCollection(col *mongo.Collection) BackendOption {
	return func(c *backendConfig) {
		c.mongoCollection = col
	}
}

// NewBackend 는 driver 에 맞는 Backend 를 만든다.
// redis 는 WithRedisClient, mongo 는 WithMongoCollection 이 필요하다.
func NewBackend(driver Driver, opts ...BackendOption) (Backend, error) {
	cfg := &backendConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory, "":
		return NewMemoryBackend(), nil
	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisBackend(cfg.redisClient), nil
	case DriverMongo:
		if cfg.mongoCollection == nil {
			return nil, ErrInvalidConfig
		}
		return NewMongoBackend(cfg.mongoCollection), nil
	default:
		return nil, ErrInvalidDriver
	}
}
