package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatTurnLog 는 대화 한 턴의 모니터링 기록이다.
// Collection: chat_turn_logs
type ChatTurnLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID      string             `bson:"event_id" json:"event_id"`
	SessionID    string             `bson:"session_id" json:"session_id"`
	MessageID    string             `bson:"message_id" json:"message_id"`
	Language     string             `bson:"language" json:"language"`
	UserID       int64              `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserText     string             `bson:"user_text" json:"user_text"`
	ResponseType string             `bson:"response_type" json:"response_type"`
	ReplyText    string             `bson:"reply_text" json:"reply_text"`
	CategoryIDs  []string           `bson:"category_ids,omitempty" json:"category_ids,omitempty"`
	ProductIDs   []string           `bson:"product_ids,omitempty" json:"product_ids,omitempty"`
	PivotedFrom  string             `bson:"pivoted_from,omitempty" json:"pivoted_from,omitempty"`
	ModelName    string             `bson:"model_name" json:"model_name"`
	InputTokens  int64              `bson:"input_tokens" json:"input_tokens"`
	OutputTokens int64              `bson:"output_tokens" json:"output_tokens"`
	DurationMs   int64              `bson:"duration_ms" json:"duration_ms"`
	ErrorMessage *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	RequestedAt  time.Time          `bson:"requested_at" json:"requested_at"`
	CompletedAt  time.Time          `bson:"completed_at" json:"completed_at"`
}
