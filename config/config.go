package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	Host    HostConfig    `yaml:"host"`
	Catalog CatalogConfig `yaml:"catalog"`
	Session SessionConfig `yaml:"session"`
	LLM     LLMConfig     `yaml:"llm"`
	Events  EventsConfig  `yaml:"events"`
	Mongo   MongoConfig   `yaml:"mongo"`

	// 비밀값은 config.yaml 이 아닌 환경변수(.env 포함)에서만 읽는다.
	Secrets Secrets `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	CookieName     string   `yaml:"cookie_name"`
	CookieSecure   bool     `yaml:"cookie_secure"`
	// NodeID 는 메시지 ID 발급 노드 번호(1-1023)다. 0 이면 호스트 이름으로 정한다.
	NodeID int64 `yaml:"node_id"`
}

// HostConfig 는 위젯이 임베드되는 호스트(WordPress) 연동 신호를 정의한다.
type HostConfig struct {
	// Enabled 가 true 이면 호스트 모드로 동작한다. 카탈로그 로딩/실패 상태가 메시지 전송을 막는다.
	Enabled       bool   `yaml:"enabled"`
	SiteURL       string `yaml:"site_url"`
	LoginURL      string `yaml:"login_url"`
	CatalogAPIURL string `yaml:"catalog_api_url"`
}

type CatalogConfig struct {
	FallbackFile string        `yaml:"fallback_file"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// RetryAfter 는 실패한 언어별 카탈로그를 다시 가져오기까지 기다리는 시간이다.
	RetryAfter time.Duration `yaml:"retry_after"`
}

type SessionConfig struct {
	Driver    string        `yaml:"driver"`
	TTL       time.Duration `yaml:"ttl"`
	KeyPrefix string        `yaml:"key_prefix"`
	RedisDB   int           `yaml:"redis_db"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// Backend 는 "gemini" 또는 "vertex" 이다.
	Backend  string        `yaml:"backend"`
	Project  string        `yaml:"project"`
	Location string        `yaml:"location"`
	Timeout  time.Duration `yaml:"timeout"`
	// HistoryLimit 는 모델에 재전송할 이전 메시지 수 상한이다. 0 이면 제한 없음, 생략하면 30.
	HistoryLimit      *int `yaml:"history_limit"`
	MaxPromptProducts int  `yaml:"max_prompt_products"`
}

// HistoryCap 은 HistoryLimit 값을 반환한다.
func (l LLMConfig) HistoryCap() int {
	if l.HistoryLimit == nil {
		return 30
	}
	return *l.HistoryLimit
}

type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Topic   string `yaml:"topic"`
	// GroupID 는 turnlogger 컨슈머 그룹, retryworker 는 GroupID + ".retry" 를 쓴다.
	GroupID    string `yaml:"group_id"`
	Partitions int    `yaml:"partitions"`
}

type MongoConfig struct {
	Database string `yaml:"database"`
}

type Secrets struct {
	GeminiAPIKey    string
	HostTokenSecret string
	MongoURI        string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    string
}

var config *AppConfig

// InitApp 은 .env 와 config.yaml 을 읽어 전역 설정을 초기화한다.
// config.yaml 이 없으면 기본값만으로 동작한다.
func InitApp() {
	base := GetBasePath()
	godotenv.Load(filepath.Join(base, ENV_FILE))

	var (
		c   *AppConfig
		err error
	)
	if base == "" {
		c, err = Parse(nil)
	} else {
		c, err = Load(filepath.Join(base, CONFIG_FILE))
	}
	if err != nil {
		panic(err)
	}
	c.Secrets = secretsFromEnv()
	if groupID := os.Getenv("KAFKA_GROUP_ID"); groupID != "" {
		c.Events.GroupID = groupID
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	config = c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// Load 는 path 의 YAML 설정 파일을 읽어 검증된 AppConfig 를 반환한다.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 는 YAML 바이트를 AppConfig 로 변환하고 기본값을 채운 뒤 검증한다.
func Parse(data []byte) (*AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.CookieName == "" {
		c.Server.CookieName = "peleman_chat_sid"
	}
	if c.Catalog.FetchTimeout == 0 {
		c.Catalog.FetchTimeout = 15 * time.Second
	}
	if c.Catalog.RetryAfter == 0 {
		c.Catalog.RetryAfter = 30 * time.Second
	}
	if c.Session.Driver == "" {
		c.Session.Driver = "memory"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 20 * time.Minute
	}
	if c.Session.KeyPrefix == "" {
		c.Session.KeyPrefix = "peleman-chatbot-history:"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "google"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.Backend == "" {
		c.LLM.Backend = "gemini"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.HistoryLimit == nil {
		limit := 30
		c.LLM.HistoryLimit = &limit
	}
	if c.LLM.MaxPromptProducts == 0 {
		c.LLM.MaxPromptProducts = 200
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "peleman-chatbot.chat.events"
	}
	if c.Events.GroupID == "" {
		c.Events.GroupID = "peleman-chatbot-turnlogger"
	}
	if c.Events.Partitions == 0 {
		c.Events.Partitions = 3
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "peleman_chatbot"
	}
}

func (c *AppConfig) validate() error {
	switch c.Session.Driver {
	case "memory", "redis", "mongo":
	default:
		return fmt.Errorf("config: unsupported session.driver %q", c.Session.Driver)
	}
	switch c.LLM.Backend {
	case "gemini", "vertex":
	default:
		return fmt.Errorf("config: unsupported llm.backend %q", c.LLM.Backend)
	}
	if c.LLM.Provider != "google" {
		return fmt.Errorf("config: unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.HistoryCap() < 0 {
		return fmt.Errorf("config: llm.history_limit must not be negative")
	}
	if c.Server.NodeID < 0 || c.Server.NodeID > 1023 {
		return fmt.Errorf("config: server.node_id must be within 0-1023")
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("config: session.ttl must not be negative")
	}
	if c.Host.Enabled && strings.TrimSpace(c.Host.SiteURL) == "" && strings.TrimSpace(c.Host.CatalogAPIURL) == "" {
		return fmt.Errorf("config: host mode requires host.site_url or host.catalog_api_url")
	}
	return nil
}

func secretsFromEnv() Secrets {
	return Secrets{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		HostTokenSecret: os.Getenv("HOST_TOKEN_SECRET"),
		MongoURI:        os.Getenv("MONGO_URI"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers:    os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
