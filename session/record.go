package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"peleman-chatbot/models"
)

// DefaultTTL 은 세션 시작 시각부터 레코드가 유효한 기간이다.
const DefaultTTL = 20 * time.Minute

// Record 는 저장소에 보관되는 세션 상태다.
// StartedAt 은 세션이 새로 시작될 때(첫 생성, clear) 한 번만 정해지고 활동으로 갱신되지 않는다.
type Record struct {
	StartedAt  time.Time
	WidgetOpen bool
	Messages   []models.ChatMessage
}

// Expired 는 now 기준으로 레코드가 TTL 을 넘겼는지 반환한다. 경과 시간이 정확히 TTL 이면 유효하다.
func (r Record) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.StartedAt) > ttl
}

// wireRecord 는 위젯이 쓰던 저장 형식 그대로다.
type wireRecord struct {
	UpdatedAt int64                `json:"updatedAt"`
	IsOpen    bool                 `json:"isOpen"`
	Messages  []models.ChatMessage `json:"messages"`
}

// Encode 는 레코드를 {updatedAt, isOpen, messages} JSON 으로 직렬화한다.
func Encode(r Record) ([]byte, error) {
	msgs := r.Messages
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return json.Marshal(wireRecord{
		UpdatedAt: r.StartedAt.UnixMilli(),
		IsOpen:    r.WidgetOpen,
		Messages:  msgs,
	})
}

// Decode 는 저장된 값을 레코드로 읽는다.
// updatedAt 이 숫자가 아니거나 messages 가 배열이 아니면 ErrMalformedRecord 를 반환한다.
func Decode(data []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Record{}, fmt.Errorf("%w: not an object", ErrMalformedRecord)
	}

	var startedMs float64
	rawUpdated, ok := fields["updatedAt"]
	if !ok || json.Unmarshal(rawUpdated, &startedMs) != nil {
		return Record{}, fmt.Errorf("%w: updatedAt is not a number", ErrMalformedRecord)
	}

	rawMessages, ok := fields["messages"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(rawMessages), []byte("[")) {
		return Record{}, fmt.Errorf("%w: messages is not an array", ErrMalformedRecord)
	}
	var messages []models.ChatMessage
	if err := json.Unmarshal(rawMessages, &messages); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var open bool
	if rawOpen, ok := fields["isOpen"]; ok {
		// isOpen 이 bool 이 아니면 닫힌 상태로 본다
		_ = json.Unmarshal(rawOpen, &open)
	}

	return Record{
		StartedAt:  time.UnixMilli(int64(startedMs)),
		WidgetOpen: open,
		Messages:   messages,
	}, nil
}
