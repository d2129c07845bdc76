package llm

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"peleman-chatbot/catalog"
	"peleman-chatbot/i18n"
	"peleman-chatbot/models"
)

const systemInstructionTemplate = `
You are a helpful sales assistant for the Peleman website.
Your goal is to help customers find the right presentation, photo, or binding product.
The available product categories are:
%s

Popular products and attributes:
%s

%s
Behavior:
1. Respond in the customer's language. The widget language is %s; if the customer writes in another language, answer in theirs. Default to English if unclear.
2. If the user greets you, greet them warmly and ask who they are buying for or what they need.
3. If the user mentions "photobook", "album", "binding", or specific needs, recommend the relevant categories or products by setting 'responseType' to 'recommendation' and filling 'categoryIds' and/or 'productIds'.
4. Only mention categories or products that exist in the provided lists. Never invent new product names, attributes, or categories.
5. Keep responses concise, professional, and friendly.
`

var languageNames = map[i18n.Lang]string{
	i18n.Turkish: "Turkish",
	i18n.German:  "German",
	i18n.French:  "French",
	i18n.Dutch:   "Dutch (Flemish)",
	i18n.English: "English",
	i18n.Spanish: "Spanish",
	i18n.Greek:   "Greek",
}

func formatCategories(categories []models.Category) string {
	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf("- ID: %s, Name: %s, Desc: %s", c.ID, catalog.FormatText(c.Name), catalog.FormatText(c.Description)))
	}
	return strings.Join(lines, "\n")
}

// formatProducts 는 상품을 최대 maxItems 개까지 한 줄씩 적는다.
func formatProducts(products []models.Product, maxItems int) string {
	if maxItems > 0 && len(products) > maxItems {
		products = products[:maxItems]
	}
	lines := make([]string, 0, len(products))
	for _, p := range products {
		var details []string
		if desc := catalog.FormatText(p.Description); desc != "" {
			details = append(details, "Desc: "+desc)
		}
		if p.CategoryID != "" {
			details = append(details, "Category: "+p.CategoryID)
		}
		var attrs []string
		for _, a := range p.Attributes {
			text := strings.TrimSpace(fmt.Sprintf("%s: %s", a.Name, strings.Join(a.Options, ", ")))
			if text != ":" {
				attrs = append(attrs, text)
			}
		}
		if len(attrs) > 0 {
			details = append(details, strings.Join(attrs, "; "))
		}

		line := fmt.Sprintf("- ID: %s | Name: %s", p.ID, catalog.FormatText(p.Name))
		if len(details) > 0 {
			line += " | " + strings.Join(details, " | ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func buildSystemInstruction(req Request, maxProducts int) string {
	customer := "The customer is browsing as a guest.\n"
	if req.UserName != "" {
		customer = fmt.Sprintf("The customer is logged in as %s. Address them by name when natural.\n", req.UserName)
	}
	lang, ok := languageNames[req.Language]
	if !ok {
		lang = languageNames[i18n.Default]
	}
	return fmt.Sprintf(systemInstructionTemplate,
		formatCategories(req.Categories),
		formatProducts(req.Products, maxProducts),
		customer,
		lang,
	)
}

func ids[T any](items []T, id func(T) string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return strings.Join(out, ", ")
}

// responseSchema 는 모델이 돌려줄 JSON 형식이다. ID 목록은 설명에 넣어 카탈로그 밖의 ID 를 줄인다.
func responseSchema(categories []models.Category, products []models.Product, maxProducts int) *genai.Schema {
	if maxProducts > 0 && len(products) > maxProducts {
		products = products[:maxProducts]
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"responseType": {
				Type:        genai.TypeString,
				Enum:        []string{string(models.ResponseTypeText), string(models.ResponseTypeRecommendation)},
				Description: "Use 'recommendation' if the user asks for products or if you can suggest specific product categories. Use 'text' for general conversation.",
			},
			"message": {
				Type:        genai.TypeString,
				Description: "The conversational response to the user. Be polite and helpful. If recommending, introduce the options.",
			},
			"categoryIds": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of category IDs to recommend. ONLY use these IDs: " + ids(categories, func(c models.Category) string { return c.ID }),
			},
			"productIds": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of product IDs to recommend. ONLY use these IDs: " + ids(products, func(p models.Product) string { return p.ID }),
			},
		},
		Required:         []string{"responseType", "message"},
		PropertyOrdering: []string{"responseType", "message", "categoryIds", "productIds"},
	}
}

// toContents 는 이전 대화와 이번 사용자 메시지를 genai 요청 본문으로 바꾼다.
func toContents(history []models.HistoryTurn, userText string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, h := range history {
		if strings.TrimSpace(h.Content) == "" {
			continue
		}
		role := models.RoleUser
		if h.Role == models.RoleModel {
			role = models.RoleModel
		}
		contents = append(contents, &genai.Content{Role: role, Parts: []*genai.Part{{Text: h.Content}}})
	}
	return append(contents, &genai.Content{Role: models.RoleUser, Parts: []*genai.Part{{Text: userText}}})
}
