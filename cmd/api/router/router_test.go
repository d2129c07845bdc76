package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/catalog"
	"peleman-chatbot/cmd/api/auth"
	"peleman-chatbot/cmd/api/dto"
	"peleman-chatbot/cmd/api/services"
	"peleman-chatbot/config"
	"peleman-chatbot/conversation"
	"peleman-chatbot/i18n"
	"peleman-chatbot/llm"
	"peleman-chatbot/models"
	"peleman-chatbot/session"
	"peleman-chatbot/synchronizer"
)

const (
	cookieName = "test_sid"
	secret     = "host-secret"
)

type testServer struct {
	engine   *gin.Engine
	verifier *auth.HostTokenVerifier
	cookie   *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewStore(session.NewMemoryBackend())
	registry := synchronizer.NewRegistry(store)
	catalogs := catalog.NewLoader(nil, catalog.Builtin(), catalog.LoaderOptions{})
	model := llm.NewClientWithGenerator(nil, llm.Config{})
	controller := conversation.New(model, catalogs, nil, conversation.Options{SiteURL: "https://shop.example"})
	verifier := auth.NewHostTokenVerifier(secret)

	engine := New(Deps{
		Server:   config.ServerConfig{CookieName: cookieName, AllowedOrigins: []string{"https://shop.example"}},
		Chat:     services.NewChatService(registry, controller, catalogs),
		Registry: registry,
		Verifier: verifier,
	})
	return &testServer{engine: engine, verifier: verifier}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			s.cookie = c
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestMountIssuesCookieAndWelcome(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "widget"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, s.cookie)

	snap := decode[dto.SnapshotDTO](t, w)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, models.WelcomeMessageID, snap.Messages[0].ID)
	assert.Equal(t, i18n.For(i18n.English).WelcomeGuest, snap.Messages[0].Text)
	assert.Equal(t, []string{"widget"}, snap.Surfaces)

	w = s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "sidebar"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_surface", decode[dto.ErrorResponseDTO](t, w).Error)
}

func TestSendMessageReturnsReplyAndSnapshot(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "widget"}, nil)

	w := s.do(t, http.MethodPost, "/api/v1/chat/messages", dto.SendMessageRequestDTO{Text: "hello"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.SendMessageResponseDTO](t, w)
	assert.Equal(t, i18n.For(i18n.English).APIKeyMissing, resp.Reply.Text)
	assert.False(t, resp.Gated)
	assert.Len(t, resp.Snapshot.Messages, 3)
	assert.False(t, resp.Snapshot.IsLoading)

	w = s.do(t, http.MethodGet, "/api/v1/chat/session", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.SnapshotDTO](t, w).Messages, 3)

	w = s.do(t, http.MethodPost, "/api/v1/chat/messages", dto.SendMessageRequestDTO{Text: "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "empty_message", decode[dto.ErrorResponseDTO](t, w).Error)
}

func TestHostTokenPersonalizesWelcome(t *testing.T) {
	s := newTestServer(t)
	token, err := s.verifier.Sign(models.CurrentUser{ID: 7, Name: "Ada"}, "nl")
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "modal"}, http.Header{auth.HeaderHostToken: {token}})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[dto.SnapshotDTO](t, w)
	assert.Equal(t, i18n.For(i18n.Dutch).Welcome("Ada"), snap.Messages[0].Text)

	w = s.do(t, http.MethodGet, "/api/v1/chat/session", nil, http.Header{auth.HeaderHostToken: {"garbage"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClickAndClear(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "widget"}, nil)

	w := s.do(t, http.MethodPost, "/api/v1/chat/products/p1/click", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	nav := decode[dto.NavigationResponseDTO](t, w)
	assert.Equal(t, "https://shop.example/product/p1", nav.NavigateTo)
	assert.Equal(t, int64(1000), nav.DelayMs)
	assert.Len(t, nav.Snapshot.Messages, 2)

	w = s.do(t, http.MethodPost, "/api/v1/chat/categories/unknown/click", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/chat/clear", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[dto.SnapshotDTO](t, w).Messages, 1)
}

func TestSetOpenAndCatalogStatus(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/chat/open", dto.SetOpenRequestDTO{Open: true}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.SnapshotDTO](t, w).IsOpen)

	w = s.do(t, http.MethodGet, "/api/v1/catalog?lang=de", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[dto.CatalogStatusDTO](t, w)
	assert.Equal(t, "de", status.Language)
	assert.Equal(t, "ready", status.State)
	assert.Equal(t, "fallback", status.Source)
	assert.Equal(t, 5, status.Products)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodOptions, "/api/v1/chat/messages", nil, http.Header{
		"Origin":                        {"https://shop.example"},
		"Access-Control-Request-Method": {"POST"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestUnloadReleasesSurface(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "widget"}, nil)
	s.do(t, http.MethodPost, "/api/v1/chat/mount", dto.SurfaceRequestDTO{Surface: "modal"}, nil)

	w := s.do(t, http.MethodPost, "/api/v1/chat/unload", dto.UnloadRequestDTO{Surface: "modal"}, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	snap := decode[dto.SnapshotDTO](t, s.do(t, http.MethodGet, "/api/v1/chat/session", nil, nil))
	assert.Equal(t, []string{"widget"}, snap.Surfaces)

	w = s.do(t, http.MethodPost, "/api/v1/chat/unload?surface=widget", nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	snap = decode[dto.SnapshotDTO](t, s.do(t, http.MethodGet, "/api/v1/chat/session", nil, nil))
	assert.Empty(t, snap.Surfaces)

	w = s.do(t, http.MethodPost, "/api/v1/chat/unload?surface=sidebar", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventsRejectsUnknownSurface(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/chat/events?surface=sidebar", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_surface", decode[dto.ErrorResponseDTO](t, w).Error)
}
