package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"peleman-chatbot/catalog"
	"peleman-chatbot/i18n"
	"peleman-chatbot/models"
)

type fakeGenerator struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: models.RoleModel, Parts: []*genai.Part{{Text: f.text}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 30,
			TotalTokenCount:      150,
		},
	}, nil
}

func testRequest() Request {
	c := catalog.Builtin()
	return Request{
		History: []models.HistoryTurn{
			{Role: models.RoleModel, Content: "Hello! Welcome to Peleman."},
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleModel, Content: ""},
		},
		UserText:   "I need a photobook",
		Categories: c.Categories,
		Products:   c.Products,
		UserName:   "Ada",
		Language:   i18n.English,
	}
}

func TestSendParsesStructuredReply(t *testing.T) {
	gen := &fakeGenerator{text: `{"responseType":"recommendation","message":"Have a look","categoryIds":["photobook_hardcover"]}`}
	client := NewClientWithGenerator(gen, Config{Model: "gemini-test", Timeout: time.Second})

	res, err := client.Send(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, models.ResponseTypeRecommendation, res.Reply.ResponseType)
	assert.Equal(t, []string{"photobook_hardcover"}, res.Reply.CategoryIDs)
	assert.Equal(t, int64(150), res.Usage.TotalTokens)
	assert.Equal(t, "gemini-test", gen.model)
	assert.True(t, gen.deadline)

	require.Len(t, gen.contents, 3, "empty history turns are skipped")
	assert.Equal(t, models.RoleModel, gen.contents[0].Role)
	assert.Equal(t, "I need a photobook", gen.contents[2].Parts[0].Text)

	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)
	assert.Contains(t, gen.config.ResponseSchema.Properties["categoryIds"].Description, "photobook_hardcover, photobook_softcover")
	instruction := gen.config.SystemInstruction.Parts[0].Text
	assert.Contains(t, instruction, "- ID: p1 | Name: Peleman Classic Hardcover A4 | Desc:")
	assert.Contains(t, instruction, "logged in as Ada")
}

func TestSendMissingAPIKeyReturnsLocalizedMessage(t *testing.T) {
	client := NewClientWithGenerator(nil, Config{})
	req := testRequest()
	req.Language = i18n.German

	res, err := client.Send(context.Background(), req)
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
	assert.Equal(t, models.ResponseTypeText, res.Reply.ResponseType)
	assert.Equal(t, i18n.For(i18n.German).APIKeyMissing, res.Reply.Message)
}

func TestSendFailuresFallBackToApology(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"network error": {err: errors.New("dial tcp: connection refused")},
		"invalid json":  {text: "I am not JSON"},
		"empty text":    {text: "  "},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			client := NewClientWithGenerator(gen, Config{})
			res, err := client.Send(context.Background(), testRequest())
			assert.Error(t, err)
			assert.Equal(t, models.ResponseTypeText, res.Reply.ResponseType)
			assert.Equal(t, i18n.For(i18n.English).ConnectionProblem, res.Reply.Message)
		})
	}
}

func TestParseReplyTolerance(t *testing.T) {
	reply, err := parseReply("```json\n{\"responseType\":\"recommendation\",\"message\":\"ok\",\"productIds\":[\"p1\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, reply.ProductIDs)

	reply, err = parseReply(`Sure! {"responseType":"other","message":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseTypeText, reply.ResponseType)

	_, err = parseReply(`{"responseType":"text","message":""}`)
	assert.Error(t, err)
}

func TestFormatProductsCapsAndStripsHTML(t *testing.T) {
	products := []models.Product{
		{ID: "a", Name: "<b>Album</b>", Description: "<p>Big &amp; bold</p>", CategoryID: "c", Attributes: []models.ProductAttribute{{Name: "Size", Options: []string{"A4", "A5"}}}},
		{ID: "b", Name: "Binder"},
		{ID: "c", Name: "Cover"},
	}
	out := formatProducts(products, 2)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "- ID: a | Name: Album | Desc: Big & bold | Category: c | Size: A4, A5", lines[0])
	assert.Equal(t, "- ID: b | Name: Binder", lines[1])
}
