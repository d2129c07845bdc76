package models

import (
	"encoding/json"
	"strings"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// WelcomeMessageID 는 세션의 첫 인사 메시지 ID 이다. 로그인 상태나 언어가 바뀌면 이 메시지만 다시 쓴다.
const WelcomeMessageID = "welcome"

// UnmarshalJSON 은 위젯 초기 버전이 저장한 "bot"/"model" 값을 assistant 로 받아들인다.
func (s *Sender) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch strings.ToLower(raw) {
	case "user":
		*s = SenderUser
	case "assistant", "bot", "model":
		*s = SenderAssistant
	default:
		*s = Sender(raw)
	}
	return nil
}

// ChatMessage 는 대화 로그의 메시지 하나다.
// 추천이 없으면 RecommendedCategories/RecommendedProducts 는 nil 이어야 한다(빈 슬라이스가 아니라).
type ChatMessage struct {
	ID                    string     `json:"id"`
	Sender                Sender     `json:"sender"`
	Text                  string     `json:"text"`
	RecommendedCategories []Category `json:"recommendedCategories,omitempty"`
	RecommendedProducts   []Product  `json:"recommendedProducts,omitempty"`
}

func (m ChatMessage) IsWelcome() bool {
	return m.ID == WelcomeMessageID
}

type ResponseType string

const (
	ResponseTypeText           ResponseType = "text"
	ResponseTypeRecommendation ResponseType = "recommendation"
)

// ModelReply 는 언어 모델이 돌려준 구조화 응답이다.
type ModelReply struct {
	ResponseType ResponseType `json:"responseType"`
	Message      string       `json:"message"`
	CategoryIDs  []string     `json:"categoryIds,omitempty"`
	ProductIDs   []string     `json:"productIds,omitempty"`
}

// HistoryTurn 은 모델에 재전송하는 이전 대화 한 턴이다. 추천 카드는 포함하지 않는다.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)
