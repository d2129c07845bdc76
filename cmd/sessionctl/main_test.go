package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/catalog"
	"peleman-chatbot/cmd/api/auth"
	"peleman-chatbot/config"
	"peleman-chatbot/models"
	"peleman-chatbot/session"
)

// keepOpen 은 명령이 Close 해도 내용을 남겨 검증할 수 있게 한다.
type keepOpen struct {
	*session.MemoryBackend
}

func (keepOpen) Close() error { return nil }

type fakeTurnLogs struct {
	logs []models.ChatTurnLog
}

func (f *fakeTurnLogs) Recent(_ context.Context, sid string, limit int64) ([]models.ChatTurnLog, error) {
	var out []models.ChatTurnLog
	for _, l := range f.logs {
		if sid == "" || l.SessionID == sid {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeTurnLogs) FindByEventID(_ context.Context, id string) (*models.ChatTurnLog, error) {
	for _, l := range f.logs {
		if l.EventID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func testDeps(t *testing.T, store *session.Store) deps {
	t.Helper()
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	cfg.Secrets.HostTokenSecret = "secret"
	return deps{
		config:    func() config.AppConfig { return *cfg },
		openStore: func(context.Context, config.AppConfig) (*session.Store, error) { return store, nil },
		fetcher:   func(config.AppConfig) catalog.Fetcher { return nil },
		turnLogs: func(context.Context) (turnLogReader, error) {
			errMsg := "timeout"
			return &fakeTurnLogs{logs: []models.ChatTurnLog{
				{EventID: "e1", SessionID: "a", ResponseType: "recommendation", CategoryIDs: []string{"c1"}},
				{EventID: "e2", SessionID: "b", ResponseType: "text", ErrorMessage: &errMsg},
			}}, nil
		},
	}
}

func run(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(d)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func seededStore(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(keepOpen{session.NewMemoryBackend()})
	store.Save(context.Background(), "sid-1", session.Record{
		StartedAt:  time.Now().Add(-2 * time.Minute),
		WidgetOpen: true,
		Messages: []models.ChatMessage{
			{ID: models.WelcomeMessageID, Sender: models.SenderAssistant, Text: "hi"},
			{ID: "1", Sender: models.SenderUser, Text: "photobook"},
		},
	})
	return store
}

func TestSessionsListAndShow(t *testing.T) {
	store := seededStore(t)
	d := testDeps(t, store)

	out, err := run(t, d, "sessions", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sid-1")
	assert.Contains(t, out, "ok")

	out, err = run(t, d, "sessions", "show", "sid-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"updatedAt"`)
	assert.Contains(t, out, `"photobook"`)

	_, err = run(t, d, "sessions", "show", "missing")
	assert.Error(t, err)
}

func TestSessionsClear(t *testing.T) {
	store := seededStore(t)
	d := testDeps(t, store)

	out, err := run(t, d, "sessions", "clear", "sid-1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted sid-1")

	_, ok := store.Load(context.Background(), "sid-1")
	assert.False(t, ok)
}

func TestCatalogPrintsFallback(t *testing.T) {
	out, err := run(t, testDeps(t, seededStore(t)), "catalog", "--lang", "de")
	require.NoError(t, err)
	assert.Contains(t, out, "source:   fallback")
	assert.Contains(t, out, "photobook_hardcover")
	assert.Contains(t, out, "Thermal Binder 8.2")
}

func TestTokenSignsVerifiableToken(t *testing.T) {
	d := testDeps(t, seededStore(t))
	out, err := run(t, d, "token", "--id", "5", "--name", "Ada", "--lang", "fr")
	require.NoError(t, err)

	user, lang, err := auth.NewHostTokenVerifier("secret").Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "fr", lang)

	_, err = run(t, d, "token")
	assert.Error(t, err)
}

func TestTurns(t *testing.T) {
	d := testDeps(t, seededStore(t))

	out, err := run(t, d, "turns", "--session", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "recommendation")
	assert.NotContains(t, out, "timeout")

	out, err = run(t, d, "turns", "--event", "e2")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout")
}
