package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/models"
)

func TestCategoryClickedResolvesRelativeURL(t *testing.T) {
	obs := &recordingObserver{}
	c := New(&fakeModel{}, readyCatalogs(), obs, Options{SiteURL: "https://shop.example/"})
	sess := newSession(t)

	nav, err := c.CategoryClicked(context.Background(), sess, guest, "photobook_hardcover")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/urun-kategorisi/photobook-hardcover", nav.URL)
	assert.Equal(t, time.Second, nav.Delay)

	msgs := nav.Snapshot.Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderAssistant, msgs[1].Sender)
	assert.Contains(t, msgs[1].Text, "Hardcover Photobook")

	require.Len(t, obs.navs, 1)
	assert.Equal(t, NavigateCategory, obs.navs[0].Kind)
}

func TestProductClickedFallsBackToProductPath(t *testing.T) {
	c := New(&fakeModel{}, readyCatalogs(), nil, Options{SiteURL: "https://shop.example"})
	sess := newSession(t)

	nav, err := c.ProductClicked(context.Background(), sess, guest, "p3")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/product/p3", nav.URL)
	assert.Contains(t, nav.Snapshot.Messages[1].Text, "FlexiBook A5")
}

func TestClickUnknownIDs(t *testing.T) {
	c := New(&fakeModel{}, readyCatalogs(), nil, Options{})
	sess := newSession(t)
	ctx := context.Background()

	_, err := c.CategoryClicked(ctx, sess, guest, "nope")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	_, err = c.ProductClicked(ctx, sess, guest, "nope")
	assert.ErrorIs(t, err, ErrUnknownProduct)
	assert.Len(t, sess.Snapshot().Messages, 1)
}
