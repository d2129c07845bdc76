package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peleman-chatbot/models"
)

type failingBackend struct {
	*MemoryBackend
	getErr error
	setErr error
}

func (b *failingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.MemoryBackend.Get(ctx, key)
}

func (b *failingBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if b.setErr != nil {
		return b.setErr
	}
	return b.MemoryBackend.Set(ctx, key, value, ttl)
}

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func sampleRecord(started time.Time) Record {
	return Record{
		StartedAt:  started,
		WidgetOpen: true,
		Messages: []models.ChatMessage{
			{ID: models.WelcomeMessageID, Sender: models.SenderAssistant, Text: "Hi"},
			{ID: "2", Sender: models.SenderUser, Text: "photobooks?"},
		},
	}
}

func TestStoreRoundTripKeepsStartedAt(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	backend := NewMemoryBackend()
	backend.now = fixedClock(&now)
	store := NewStore(backend, WithClock(fixedClock(&now)))

	started := now.Add(-10 * time.Minute)
	store.Save(ctx, "sid-1", sampleRecord(started))

	got, ok := store.Load(ctx, "sid-1")
	require.True(t, ok)
	assert.Equal(t, started.UnixMilli(), got.StartedAt.UnixMilli())
	assert.True(t, got.WidgetOpen)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, models.SenderUser, got.Messages[1].Sender)
}

func TestStoreLoadTTLBoundary(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	store := NewStore(NewMemoryBackend(), WithClock(fixedClock(&now)))

	cases := []struct {
		name   string
		age    time.Duration
		wantOK bool
	}{
		{"fresh", time.Minute, true},
		{"exactly ttl", DefaultTTL, true},
		{"one ms past ttl", DefaultTTL + time.Millisecond, false},
		{"long expired", time.Hour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := Encode(sampleRecord(now.Add(-tc.age)))
			require.NoError(t, err)
			require.NoError(t, store.backend.Set(ctx, store.key(tc.name), raw, time.Hour))

			_, ok := store.Load(ctx, tc.name)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestStoreLoadRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	store := NewStore(NewMemoryBackend(), WithClock(fixedClock(&now)))
	ms := "1700000000000"

	cases := map[string]string{
		"not json":             `{not json`,
		"array":                `[]`,
		"null":                 `null`,
		"missing updatedAt":    `{"isOpen":true,"messages":[]}`,
		"string updatedAt":     `{"updatedAt":"` + ms + `","isOpen":true,"messages":[]}`,
		"missing messages":     `{"updatedAt":` + ms + `,"isOpen":true}`,
		"messages not array":   `{"updatedAt":` + ms + `,"isOpen":true,"messages":{"0":{}}}`,
		"messages null":        `{"updatedAt":` + ms + `,"isOpen":true,"messages":null}`,
		"bad message elements": `{"updatedAt":` + ms + `,"isOpen":true,"messages":[1,2]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.backend.Set(ctx, store.key(name), []byte(raw), time.Hour))
			_, ok := store.Load(ctx, name)
			assert.False(t, ok)
		})
	}
}

func TestStoreLoadAcceptsLegacyFields(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	store := NewStore(NewMemoryBackend(), WithClock(fixedClock(&now)))

	raw := `{"updatedAt":1700000000000,"messages":[{"id":"welcome","sender":"bot","text":"Hello"}]}`
	require.NoError(t, store.backend.Set(ctx, store.key("legacy"), []byte(raw), time.Hour))

	got, ok := store.Load(ctx, "legacy")
	require.True(t, ok)
	assert.False(t, got.WidgetOpen)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, models.SenderAssistant, got.Messages[0].Sender)
}

func TestStoreDegradesOnBackendErrors(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{MemoryBackend: NewMemoryBackend(), setErr: errors.New("quota exceeded")}
	store := NewStore(backend)

	assert.NotPanics(t, func() {
		store.Save(ctx, "sid", sampleRecord(time.Now()))
	})
	_, ok := store.Load(ctx, "sid")
	assert.False(t, ok)

	backend.setErr = nil
	backend.getErr = errors.New("connection reset")
	store.Save(ctx, "sid", sampleRecord(time.Now()))
	_, ok = store.Load(ctx, "sid")
	assert.False(t, ok)
}

func TestStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), WithKeyPrefix("test:"))

	store.Save(ctx, "b", sampleRecord(time.Now()))
	store.Save(ctx, "a", sampleRecord(time.Now()))

	sids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sids)

	require.NoError(t, store.Delete(ctx, "a"))
	_, ok := store.Load(ctx, "a")
	assert.False(t, ok)

	_, err = store.Raw(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewBackendDrivers(t *testing.T) {
	b, err := NewBackend(DriverMemory)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	_, err = NewBackend(DriverRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBackend(DriverMongo)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBackend("sqlite")
	assert.ErrorIs(t, err, ErrInvalidDriver)
}
