// Package llm 은 Gemini 에 대화 한 턴을 보내고 구조화된 응답을 받는다.
// Send 는 실패해도 사용자에게 보여줄 수 있는 응답을 항상 돌려준다.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"peleman-chatbot/i18n"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/models"
)

var ErrAPIKeyMissing = errors.New("llm: api key is missing")

// Generator 는 genai.Models 의 GenerateContent 와 같은 모양이다.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey            string
	Backend           string // gemini | vertex
	Project           string
	Location          string
	Model             string
	Timeout           time.Duration
	MaxPromptProducts int
}

// Request 는 한 턴의 입력이다. Categories/Products 는 유효 카탈로그 전체다.
type Request struct {
	History    []models.HistoryTurn
	UserText   string
	Categories []models.Category
	Products   []models.Product
	UserName   string
	Language   i18n.Lang
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// Result 는 Send 결과다. Reply 는 오류가 있어도 항상 표시 가능한 값이다.
type Result struct {
	Reply        models.ModelReply
	ModelName    string
	ModelVersion string
	Usage        TokenUsage
	Latency      time.Duration
}

type Client struct {
	gen Generator
	cfg Config
}

// NewClient 는 cfg 로 genai 클라이언트를 만든다.
// API 키가 없고 vertex 프로젝트도 없으면 모델을 호출하지 않는 클라이언트를 반환한다.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cfg = withDefaults(cfg)

	clientCfg := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.Backend == "vertex" {
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
	}
	if cfg.APIKey == "" && clientCfg.Project == "" {
		logger.Log.Warnf("GEMINI_API_KEY 가 설정되지 않아 모델 호출 없이 안내 메시지만 응답합니다")
		return &Client{cfg: cfg}, nil
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{gen: client.Models, cfg: cfg}, nil
}

// NewClientWithGenerator 는 테스트에서 genai 호출을 대체할 때 쓴다. gen 이 nil 이면 API 키가 없는 것으로 본다.
func NewClientWithGenerator(gen Generator, cfg Config) *Client {
	return &Client{gen: gen, cfg: withDefaults(cfg)}
}

func withDefaults(cfg Config) Config {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxPromptProducts <= 0 {
		cfg.MaxPromptProducts = 200
	}
	return cfg
}

func (c *Client) ModelName() string { return c.cfg.Model }

// Send 는 요청을 모델에 보낸다.
// 반환한 오류는 Reply 가 대체 문구인 이유를 설명할 뿐이며 호출자는 Reply 를 그대로 보여주면 된다.
func (c *Client) Send(ctx context.Context, req Request) (Result, error) {
	msgs := i18n.For(req.Language)
	res := Result{ModelName: c.cfg.Model}

	if c.gen == nil {
		res.Reply = textReply(msgs.APIKeyMissing)
		return res, ErrAPIKeyMissing
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.gen.GenerateContent(ctx, c.cfg.Model, toContents(req.History, req.UserText), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: buildSystemInstruction(req, c.cfg.MaxPromptProducts)}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(req.Categories, req.Products, c.cfg.MaxPromptProducts),
	})
	res.Latency = time.Since(start)
	if err != nil {
		res.Reply = textReply(msgs.ConnectionProblem)
		return res, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		res.Reply = textReply(msgs.ConnectionProblem)
		return res, errors.New("gemini returned nil response")
	}

	res.ModelVersion = resp.ModelVersion
	if resp.UsageMetadata != nil {
		res.Usage = TokenUsage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(resp.UsageMetadata.TotalTokenCount),
		}
	}

	reply, err := parseReply(resp.Text())
	if err != nil {
		res.Reply = textReply(msgs.ConnectionProblem)
		return res, fmt.Errorf("parse gemini reply: %w", err)
	}
	res.Reply = reply
	return res, nil
}

func textReply(message string) models.ModelReply {
	return models.ModelReply{ResponseType: models.ResponseTypeText, Message: message}
}
