package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/cmd/api/trace"
)

func TestNewRequestRejectsQueryInPath(t *testing.T) {
	c := NewBaseClientWithClient(nil, "https://shop.example/wp-json")
	_, err := c.NewRequest(context.Background(), http.MethodGet, "/catalog?lang=en", nil, nil)
	assert.Error(t, err)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/catalog", url.Values{"lang": {"en"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/wp-json/catalog?lang=en", req.URL.String())
}

func TestRoundTripperPropagatesTrace(t *testing.T) {
	var gotID, gotSpan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(trace.HeaderRequestID)
		gotSpan = r.Header.Get(trace.HeaderSpanID)
	}))
	defer srv.Close()

	c := NewBaseClientWithClient(New(Config{}), srv.URL)
	ctx := trace.WithRequestID(context.Background(), "req-9")
	req, err := c.NewRequest(ctx, http.MethodGet, "/", nil, nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-9", gotID)
	assert.Equal(t, "1", gotSpan)
}
