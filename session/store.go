package session

import (
	"context"
	"strings"
	"time"

	"peleman-chatbot/internal/logger"
)

// minBackendTTL 은 만료 직전 레코드를 쓸 때도 백엔드 키가 바로 사라지지 않게 하는 최소 만료 시간이다.
const minBackendTTL = time.Second

// Store 는 세션 ID 별 레코드를 읽고 쓴다. 저장은 best-effort 로 실패해도 호출자에게 오류를 돌려주지 않는다.
type Store struct {
	backend Backend
	ttl     time.Duration
	prefix  string
	now     func() time.Time
}

type StoreOption func(*Store)

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock 은 테스트에서 현재 시각을 고정할 때 쓴다.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		ttl:     DefaultTTL,
		prefix:  "peleman-chatbot-history:",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) key(sid string) string { return s.prefix + sid }

// Load 는 sid 의 레코드를 읽는다.
// 키가 없거나, 형식이 잘못됐거나, TTL 이 지났거나, 백엔드 읽기가 실패하면 (Record{}, false) 를 반환한다.
func (s *Store) Load(ctx context.Context, sid string) (Record, bool) {
	raw, err := s.backend.Get(ctx, s.key(sid))
	if err != nil {
		logger.WarnWithFields("세션 레코드 조회 실패", logger.Fields{"sid": sid, "error": err.Error()})
		return Record{}, false
	}
	if raw == nil {
		return Record{}, false
	}

	rec, err := Decode(raw)
	if err != nil {
		logger.WarnWithFields("세션 레코드 형식 오류", logger.Fields{"sid": sid, "error": err.Error()})
		return Record{}, false
	}
	if rec.Expired(s.now(), s.ttl) {
		return Record{}, false
	}
	return rec, true
}

// Save 는 레코드를 쓴다. 백엔드 만료 시간은 세션 시작 시각 기준 남은 TTL 이다.
func (s *Store) Save(ctx context.Context, sid string, rec Record) {
	data, err := Encode(rec)
	if err != nil {
		logger.WarnWithFields("세션 레코드 직렬화 실패", logger.Fields{"sid": sid, "error": err.Error()})
		return
	}

	remaining := s.ttl - s.now().Sub(rec.StartedAt)
	if remaining < minBackendTTL {
		remaining = minBackendTTL
	}
	if err := s.backend.Set(ctx, s.key(sid), data, remaining); err != nil {
		logger.WarnWithFields("세션 레코드 저장 실패", logger.Fields{"sid": sid, "error": err.Error()})
	}
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	return s.backend.Delete(ctx, s.key(sid))
}

// List 는 저장된 세션 ID 목록을 반환한다.
func (s *Store) List(ctx context.Context) ([]string, error) {
	keys, err := s.backend.Keys(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	sids := make([]string, 0, len(keys))
	for _, k := range keys {
		sids = append(sids, strings.TrimPrefix(k, s.prefix))
	}
	return sids, nil
}

// Raw 는 디코딩하지 않은 저장 값을 반환한다. 형식 오류 레코드를 점검할 때 쓴다.
func (s *Store) Raw(ctx context.Context, sid string) ([]byte, error) {
	raw, err := s.backend.Get(ctx, s.key(sid))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}
