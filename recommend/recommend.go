// Package recommend 는 모델 응답의 카테고리/상품 ID 를 추천 카드로 바꾼다.
// 이미 보여준 카테고리는 다시 보여주지 않고 그 카테고리의 상품으로 바꿔 추천한다.
package recommend

import (
	"peleman-chatbot/catalog"
	"peleman-chatbot/models"
)

// PivotLimit 은 카테고리 대신 보여줄 상품 수 상한이다.
const PivotLimit = 5

// Result 는 한 턴의 추천 결과다. 추천이 없으면 각 필드는 nil 이다.
type Result struct {
	Message    string
	Categories []models.Category
	Products   []models.Product
	// PivotedFrom 은 상품 추천으로 바뀐 카테고리 ID 다. 바뀌지 않았으면 빈 문자열이다.
	PivotedFrom string
}

func (r Result) Pivoted() bool { return r.PivotedFrom != "" }

// ShownCategories 는 로그의 assistant 메시지에 이미 카드로 나온 카테고리 ID 집합이다.
func ShownCategories(messages []models.ChatMessage) map[string]struct{} {
	shown := make(map[string]struct{})
	for _, m := range messages {
		if m.Sender != models.SenderAssistant {
			continue
		}
		for _, c := range m.RecommendedCategories {
			shown[c.ID] = struct{}{}
		}
	}
	return shown
}

// Apply 는 모델 응답을 추천 결과로 바꾼다. 알 수 없는 ID 는 조용히 버린다.
func Apply(reply models.ModelReply, shown map[string]struct{}, idx *catalog.Index) Result {
	res := Result{Message: reply.Message}
	if reply.ResponseType != models.ResponseTypeRecommendation || idx == nil {
		return res
	}

	var resolved []models.Category
	repeated := false
	for _, id := range reply.CategoryIDs {
		c, ok := idx.Category(id)
		if !ok {
			continue
		}
		resolved = append(resolved, c)
		if _, seen := shown[c.ID]; seen {
			repeated = true
		}
	}

	var products []models.Product
	if repeated && len(resolved) > 0 {
		first := resolved[0]
		products = append(products, idx.ProductsInCategory(first.ID, PivotLimit)...)
		res.PivotedFrom = first.ID
	} else if len(resolved) > 0 {
		res.Categories = resolved
	}

	for _, id := range reply.ProductIDs {
		if p, ok := idx.Product(id); ok {
			products = append(products, p)
		}
	}
	if len(products) > 0 {
		res.Products = products
	}
	return res
}

// ToMessage 는 추천 결과를 assistant 메시지로 만든다.
func (r Result) ToMessage(id string) models.ChatMessage {
	return models.ChatMessage{
		ID:                    id,
		Sender:                models.SenderAssistant,
		Text:                  r.Message,
		RecommendedCategories: r.Categories,
		RecommendedProducts:   r.Products,
	}
}
