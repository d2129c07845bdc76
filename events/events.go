package events

import (
	"time"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	ChatTurnCompleted  EventType = "chat.turn_completed"
	ChatNavigated      EventType = "chat.navigated"
	ChatSessionCleared EventType = "chat.session_cleared"
)

// ChatTurnCompletedEvent 는 사용자 메시지 하나에 대한 응답이 대화 로그에 추가됐을 때 발행된다.
type ChatTurnCompletedEvent struct {
	SessionID    string    `json:"session_id"`
	MessageID    string    `json:"message_id"`
	Language     string    `json:"language"`
	UserID       int64     `json:"user_id,omitempty"`
	UserText     string    `json:"user_text"`
	ResponseType string    `json:"response_type"`
	ReplyText    string    `json:"reply_text"`
	CategoryIDs  []string  `json:"category_ids,omitempty"`
	ProductIDs   []string  `json:"product_ids,omitempty"`
	PivotedFrom  string    `json:"pivoted_from,omitempty"`
	ModelName    string    `json:"model_name"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	DurationMs   int64     `json:"duration_ms"`
	Error        string    `json:"error,omitempty"`
	RequestedAt  time.Time `json:"requested_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// ChatNavigatedEvent 는 추천 카드 클릭으로 호스트 페이지 이동이 일어났을 때 발행된다.
type ChatNavigatedEvent struct {
	SessionID string    `json:"session_id"`
	Kind      string    `json:"kind"` // category | product
	TargetID  string    `json:"target_id"`
	URL       string    `json:"url"`
	At        time.Time `json:"at"`
}

// ChatSessionClearedEvent 는 사용자가 대화 기록을 지웠을 때 발행된다.
type ChatSessionClearedEvent struct {
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}
