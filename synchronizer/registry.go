package synchronizer

import (
	"context"
	"sync"
	"time"

	"peleman-chatbot/internal/logger"
	"peleman-chatbot/models"
	"peleman-chatbot/session"
)

// Registry 는 세션 ID 별 공유 Session 을 하나씩만 유지한다.
// 마운트, 요청 참조, 대기 중 응답, 구독자가 모두 없어지면 메모리에서 내리고 다음 요청 때 저장소에서 다시 읽는다.
type Registry struct {
	store *session.Store
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

type RegistryOption func(*Registry)

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRegistry(store *session.Store, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:    store,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire 는 sid 의 Session 을 반환한다. 메모리에 없으면 저장소에서 복원하거나 새 인사 메시지로 시작한다.
// 메모리에 있던 Session 이 TTL 을 넘겼으면 저장소에 없는 것과 같게 새 세션으로 다시 시작한다.
// 반환한 release 를 호출할 때까지 Session 은 메모리에서 내려가지 않는다.
func (r *Registry) Acquire(ctx context.Context, sid string, viewer models.Viewer) (*Session, func()) {
	r.mu.Lock()
	s, ok := r.sessions[sid]
	seeded := false
	if !ok {
		s, seeded = r.restore(ctx, sid, viewer)
		r.sessions[sid] = s
	}

	var save *pendingSave
	s.mu.Lock()
	s.holds++
	switch {
	case seeded:
		p := s.saveLocked()
		save = &p
	case ok && s.expiredLocked(r.store.TTL()):
		s.resetLocked(viewer)
		_, p := s.commitLocked()
		save = &p
		logger.DebugWithFields("expired session reseeded", logger.Fields{"sid": sid})
	}
	s.mu.Unlock()
	r.mu.Unlock()

	if save != nil {
		s.persist(ctx, *save)
	}
	if ok {
		s.ApplyViewer(ctx, viewer)
	}

	var once sync.Once
	return s, func() {
		once.Do(func() {
			s.mu.Lock()
			s.holds--
			idle := s.idleLocked()
			s.mu.Unlock()
			if idle {
				r.evict(s)
			}
		})
	}
}

// Mount 는 surface 가 sid 세션을 보기 시작했음을 기록한다.
func (r *Registry) Mount(ctx context.Context, sid string, surface Surface, viewer models.Viewer) Snapshot {
	s, release := r.Acquire(ctx, sid, viewer)
	defer release()

	s.mu.Lock()
	s.mounts[surface]++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	logger.DebugWithFields("surface mounted", logger.Fields{"sid": sid, "surface": string(surface)})
	return snap
}

// Unmount 는 surface 의 마운트를 해제한다. 마지막 surface 가 떠나면 상태를 저장한다.
func (r *Registry) Unmount(ctx context.Context, sid string, surface Surface) {
	r.mu.Lock()
	s, ok := r.sessions[sid]
	r.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	if s.mounts[surface] > 0 {
		s.mounts[surface]--
	}
	last := true
	for _, n := range s.mounts {
		if n > 0 {
			last = false
		}
	}
	var save pendingSave
	if last {
		save = s.saveLocked()
	}
	idle := s.idleLocked()
	s.mu.Unlock()

	if last {
		s.persist(ctx, save)
	}

	logger.DebugWithFields("surface unmounted", logger.Fields{"sid": sid, "surface": string(surface)})
	if idle {
		r.evict(s)
	}
}

// Lookup 은 메모리에 올라와 있는 Session 만 반환한다.
func (r *Registry) Lookup(sid string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sid]
	return s, ok
}

// Len 은 메모리에 올라와 있는 세션 수다.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Flush 는 종료 시 메모리의 모든 세션을 저장한다.
func (r *Registry) Flush(ctx context.Context) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Unload(ctx)
	}
}

// restore 는 저장소의 레코드로 Session 을 만든다. 레코드가 없으면 새 인사 메시지로 시작하고 seeded 를 true 로 반환한다.
// r.mu 를 잡은 채 호출되므로 여기서는 저장하지 않는다.
func (r *Registry) restore(ctx context.Context, sid string, viewer models.Viewer) (*Session, bool) {
	s := &Session{
		id:     sid,
		store:  r.store,
		now:    r.now,
		viewer: viewer,
		mounts: make(map[Surface]int),
		subs:   make(map[int]chan Snapshot),
		onIdle: r.evict,
	}

	if rec, ok := r.store.Load(ctx, sid); ok {
		s.state = State{StartedAt: rec.StartedAt, WidgetOpen: rec.WidgetOpen, Messages: rec.Messages}
		if len(s.state.Messages) > 0 && s.state.Messages[0].IsWelcome() {
			// 저장 당시와 로그인/언어가 다를 수 있으므로 인사 문구는 현재 기준으로 다시 만든다
			s.state.Messages[0] = welcomeMessage(viewer)
		}
		logger.DebugWithFields("session restored", logger.Fields{"sid": sid, "messages": len(rec.Messages)})
		return s, false
	}

	s.resetLocked(viewer)
	return s, true
}

// evict 는 s 가 여전히 유휴 상태이고 등록된 Session 이 s 일 때만 내린다.
func (r *Registry) evict(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.sessions[s.id]; !ok || cur != s {
		return
	}
	s.mu.Lock()
	idle := s.idleLocked()
	s.mu.Unlock()
	if idle {
		delete(r.sessions, s.id)
	}
}
