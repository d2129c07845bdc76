package llm

import (
	"encoding/json"
	"errors"
	"strings"

	"peleman-chatbot/models"
)

var errEmptyReply = errors.New("llm: empty reply")

// parseReply 는 모델 출력 JSON 을 읽는다. 코드 블록으로 감싼 출력도 받아들인다.
// responseType 이 알 수 없는 값이면 text 로 취급한다.
func parseReply(text string) (models.ModelReply, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return models.ModelReply{}, errEmptyReply
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start > 0 && end > start {
		text = text[start : end+1]
	}

	var reply models.ModelReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return models.ModelReply{}, err
	}
	if reply.ResponseType != models.ResponseTypeRecommendation {
		reply.ResponseType = models.ResponseTypeText
	}
	if strings.TrimSpace(reply.Message) == "" && reply.ResponseType == models.ResponseTypeText {
		return models.ModelReply{}, errEmptyReply
	}
	return reply, nil
}
