package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/catalog"
	"peleman-chatbot/events"
	"peleman-chatbot/i18n"
	"peleman-chatbot/llm"
	"peleman-chatbot/models"
	"peleman-chatbot/session"
	"peleman-chatbot/synchronizer"
)

type fakeModel struct {
	mu       sync.Mutex
	replies  []models.ModelReply
	err      error
	requests []llm.Request
}

func (m *fakeModel) Send(ctx context.Context, req llm.Request) (llm.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	reply := models.ModelReply{ResponseType: models.ResponseTypeText, Message: "fallback"}
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	return llm.Result{Reply: reply, ModelName: "fake-model", Latency: 10 * time.Millisecond}, m.err
}

type fakeCatalogs struct {
	host bool
	view catalog.View
}

func (f fakeCatalogs) View(string) catalog.View { return f.view }
func (f fakeCatalogs) HostMode() bool           { return f.host }

type recordingObserver struct {
	events.Noop
	mu    sync.Mutex
	turns []events.ChatTurnCompletedEvent
	navs  []events.ChatNavigatedEvent
	err   error
}

func (o *recordingObserver) TurnCompleted(_ context.Context, e events.ChatTurnCompletedEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.turns = append(o.turns, e)
	return o.err
}

func (o *recordingObserver) Navigated(_ context.Context, e events.ChatNavigatedEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.navs = append(o.navs, e)
	return o.err
}

var guest = models.Viewer{Language: string(i18n.English)}

func readyCatalogs() fakeCatalogs {
	return fakeCatalogs{view: catalog.View{State: catalog.StateReady, Source: catalog.SourceFallback, Index: catalog.NewIndex(catalog.Builtin())}}
}

func newSession(t *testing.T) *synchronizer.Session {
	t.Helper()
	reg := synchronizer.NewRegistry(session.NewStore(session.NewMemoryBackend()))
	sess, release := reg.Acquire(context.Background(), "sid", guest)
	t.Cleanup(release)
	return sess
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	model := &fakeModel{}
	c := New(model, readyCatalogs(), nil, Options{})
	sess := newSession(t)

	_, err := c.Submit(context.Background(), sess, guest, "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Len(t, sess.Snapshot().Messages, 1)
	assert.Empty(t, model.requests)
}

func TestSubmitShowsCategoriesFirstTime(t *testing.T) {
	model := &fakeModel{replies: []models.ModelReply{{
		ResponseType: models.ResponseTypeRecommendation,
		Message:      "Here are our photobooks",
		CategoryIDs:  []string{"photobook_hardcover", "missing"},
	}}}
	obs := &recordingObserver{}
	c := New(model, readyCatalogs(), obs, Options{})
	sess := newSession(t)

	out, err := c.Submit(context.Background(), sess, guest, "I need a photobook")
	require.NoError(t, err)
	assert.False(t, out.Gated)
	assert.False(t, out.Pivoted)

	msgs := out.Snapshot.Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, models.SenderUser, msgs[1].Sender)
	assert.Equal(t, "I need a photobook", msgs[1].Text)
	require.Len(t, msgs[2].RecommendedCategories, 1)
	assert.Equal(t, "photobook_hardcover", msgs[2].RecommendedCategories[0].ID)
	assert.Empty(t, msgs[2].RecommendedProducts)
	assert.Zero(t, out.Snapshot.Pending)

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	require.Len(t, req.History, 1)
	assert.Equal(t, models.RoleModel, req.History[0].Role)
	assert.Equal(t, "I need a photobook", req.UserText)

	require.Len(t, obs.turns, 1)
	assert.Equal(t, []string{"photobook_hardcover"}, obs.turns[0].CategoryIDs)
	assert.Equal(t, "fake-model", obs.turns[0].ModelName)
}

func TestSubmitPivotsToProductsForShownCategory(t *testing.T) {
	rec := models.ModelReply{
		ResponseType: models.ResponseTypeRecommendation,
		Message:      "Hardcover photobooks",
		CategoryIDs:  []string{"photobook_hardcover"},
	}
	model := &fakeModel{replies: []models.ModelReply{rec, rec}}
	c := New(model, readyCatalogs(), nil, Options{})
	sess := newSession(t)
	ctx := context.Background()

	_, err := c.Submit(ctx, sess, guest, "photobook")
	require.NoError(t, err)
	out, err := c.Submit(ctx, sess, guest, "more photobooks")
	require.NoError(t, err)

	assert.True(t, out.Pivoted)
	assert.Empty(t, out.Reply.RecommendedCategories)
	ids := make([]string, 0, len(out.Reply.RecommendedProducts))
	for _, p := range out.Reply.RecommendedProducts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2"}, ids)

	require.Len(t, model.requests, 2)
	assert.Len(t, model.requests[1].History, 3)
}

func TestSubmitGatesWhileHostCatalogLoads(t *testing.T) {
	tests := []struct {
		name  string
		state catalog.State
		want  string
	}{
		{"loading", catalog.StateLoading, i18n.For(i18n.English).CatalogLoading},
		{"failed", catalog.StateFailed, i18n.For(i18n.English).CatalogError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{}
			c := New(model, fakeCatalogs{host: true, view: catalog.View{State: tt.state}}, nil, Options{})
			sess := newSession(t)

			out, err := c.Submit(context.Background(), sess, guest, "hello")
			require.NoError(t, err)
			assert.True(t, out.Gated)
			require.Len(t, out.Snapshot.Messages, 2)
			assert.Equal(t, models.SenderAssistant, out.Snapshot.Messages[1].Sender)
			assert.Equal(t, tt.want, out.Snapshot.Messages[1].Text)
			assert.Empty(t, model.requests)
		})
	}
}

func TestSubmitModelFailureStillReplies(t *testing.T) {
	model := &fakeModel{err: errors.New("boom")}
	obs := &recordingObserver{err: errors.New("bus down")}
	c := New(model, readyCatalogs(), obs, Options{})
	sess := newSession(t)

	out, err := c.Submit(context.Background(), sess, guest, "hello")
	require.NoError(t, err)
	assert.Equal(t, "fallback", out.Reply.Text)
	assert.Zero(t, sess.Snapshot().Pending)
	require.Len(t, obs.turns, 1)
	assert.Equal(t, "boom", obs.turns[0].Error)
}

func TestSubmitSurvivesCanceledRequest(t *testing.T) {
	model := &fakeModel{}
	c := New(model, readyCatalogs(), nil, Options{})
	sess := newSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := c.Submit(ctx, sess, guest, "hello")
	require.NoError(t, err)
	assert.Len(t, out.Snapshot.Messages, 3)
}

func TestBuildHistoryLimit(t *testing.T) {
	msgs := []models.ChatMessage{
		{Sender: models.SenderAssistant, Text: "welcome"},
		{Sender: models.SenderUser, Text: "a"},
		{Sender: models.SenderAssistant, Text: "b"},
		{Sender: models.SenderUser, Text: "c"},
	}

	assert.Len(t, buildHistory(msgs, 0), 4)
	got := buildHistory(msgs, 2)
	assert.Equal(t, []models.HistoryTurn{
		{Role: models.RoleModel, Content: "b"},
		{Role: models.RoleUser, Content: "c"},
	}, got)
}

func TestConcurrentSubmitsAllReply(t *testing.T) {
	model := &fakeModel{}
	c := New(model, readyCatalogs(), nil, Options{})
	sess := newSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Submit(context.Background(), sess, guest, "hi")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap := sess.Snapshot()
	assert.Len(t, snap.Messages, 11)
	assert.Zero(t, snap.Pending)
}
