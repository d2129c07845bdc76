// Package synchronizer 는 한 브라우저 세션의 대화 상태를 위젯과 확장 모달이 함께 보도록 관리한다.
// 모든 변경은 Session.Mutate 하나로 들어오며, 변경 뒤 저장과 구독자 알림이 이어진다.
package synchronizer

import (
	"context"
	"sync"
	"time"

	"peleman-chatbot/i18n"
	"peleman-chatbot/models"
	"peleman-chatbot/session"
)

type Surface string

const (
	SurfaceWidget Surface = "widget"
	SurfaceModal  Surface = "modal"
)

func (s Surface) Valid() bool {
	return s == SurfaceWidget || s == SurfaceModal
}

// Snapshot 은 한 시점의 세션 상태 복사본이다.
type Snapshot struct {
	SessionID  string               `json:"sessionId"`
	Version    uint64               `json:"version"`
	StartedAt  time.Time            `json:"startedAt"`
	WidgetOpen bool                 `json:"isOpen"`
	Messages   []models.ChatMessage `json:"messages"`
	Pending    int                  `json:"pending"`
	Surfaces   []Surface            `json:"surfaces"`
}

// Loading 은 응답을 기다리는 턴이 하나라도 있는지 반환한다.
func (s Snapshot) Loading() bool { return s.Pending > 0 }

// State 는 Mutate 콜백이 바꿀 수 있는 필드다.
type State struct {
	StartedAt  time.Time
	WidgetOpen bool
	Messages   []models.ChatMessage
	Pending    int
}

func (st *State) Append(msgs ...models.ChatMessage) {
	st.Messages = append(st.Messages, msgs...)
}

type Session struct {
	id    string
	store *session.Store
	now   func() time.Time

	mu        sync.Mutex
	state     State
	viewer    models.Viewer
	version   uint64
	mounts    map[Surface]int
	holds     int
	subs      map[int]chan Snapshot
	nextSub   int
	lastTouch time.Time

	// saveMu 는 저장 순서를 정한다. savedVersion 보다 오래된 레코드는 쓰지 않는다.
	saveMu       sync.Mutex
	savedVersion uint64

	onIdle func(*Session)
}

// pendingSave 는 잠금 안에서 떠 둔 저장할 레코드다. 실제 쓰기는 잠금을 푼 뒤 persist 가 한다.
type pendingSave struct {
	version uint64
	record  session.Record
}

func welcomeMessage(v models.Viewer) models.ChatMessage {
	name := ""
	if v.User != nil {
		name = v.User.Name
	}
	return models.ChatMessage{
		ID:     models.WelcomeMessageID,
		Sender: models.SenderAssistant,
		Text:   i18n.For(i18n.Lang(v.Language)).Welcome(name),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Viewer() models.Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	msgs := make([]models.ChatMessage, len(s.state.Messages))
	copy(msgs, s.state.Messages)
	surfaces := make([]Surface, 0, len(s.mounts))
	for _, sf := range []Surface{SurfaceWidget, SurfaceModal} {
		if s.mounts[sf] > 0 {
			surfaces = append(surfaces, sf)
		}
	}
	return Snapshot{
		SessionID:  s.id,
		Version:    s.version,
		StartedAt:  s.state.StartedAt,
		WidgetOpen: s.state.WidgetOpen,
		Messages:   msgs,
		Pending:    s.state.Pending,
		Surfaces:   surfaces,
	}
}

// Mutate 는 세션 상태를 바꾸는 유일한 경로다. fn 은 잠금 안에서 실행되므로 블로킹 호출을 하면 안 된다.
// 변경 뒤 레코드를 저장하고 모든 구독자에게 새 스냅샷을 보낸다.
func (s *Session) Mutate(ctx context.Context, fn func(st *State)) Snapshot {
	s.mu.Lock()
	fn(&s.state)
	if s.state.Pending < 0 {
		s.state.Pending = 0
	}
	snap, save := s.commitLocked()
	idle := s.idleLocked()
	s.mu.Unlock()

	s.persist(ctx, save)
	if idle && s.onIdle != nil {
		s.onIdle(s)
	}
	return snap
}

// commitLocked 는 버전을 올리고 구독자에게 알린 뒤 저장할 레코드를 돌려준다.
func (s *Session) commitLocked() (Snapshot, pendingSave) {
	s.version++
	s.lastTouch = s.now()
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		publish(ch, snap)
	}
	return snap, pendingSave{version: s.version, record: s.recordFrom(snap)}
}

// saveLocked 는 버전을 올리지 않고 현재 상태의 레코드를 뜬다.
func (s *Session) saveLocked() pendingSave {
	return pendingSave{version: s.version, record: s.recordFrom(s.snapshotLocked())}
}

func (s *Session) recordFrom(snap Snapshot) session.Record {
	return session.Record{
		StartedAt:  snap.StartedAt,
		WidgetOpen: snap.WidgetOpen,
		Messages:   snap.Messages,
	}
}

// persist 는 p 를 저장소에 쓴다. 더 새 버전이 이미 저장됐으면 건너뛴다.
// 저장은 요청 취소와 무관하게 끝까지 진행한다.
func (s *Session) persist(ctx context.Context, p pendingSave) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if p.version < s.savedVersion {
		return
	}
	s.store.Save(context.WithoutCancel(ctx), s.id, p.record)
	s.savedVersion = p.version
}

// expiredLocked 는 메모리에 올라와 있는 상태가 세션 TTL 을 넘겼는지 반환한다.
func (s *Session) expiredLocked(ttl time.Duration) bool {
	return session.Record{StartedAt: s.state.StartedAt}.Expired(s.now(), ttl)
}

// resetLocked 는 로그를 인사 메시지 하나로 바꾸고 새 세션을 시작한다. 진행 중인 응답 수는 그대로 둔다.
func (s *Session) resetLocked(v models.Viewer) {
	s.viewer = v
	s.state.StartedAt = s.now()
	s.state.WidgetOpen = false
	s.state.Messages = []models.ChatMessage{welcomeMessage(v)}
}

// publish 는 구독 채널에 최신 스냅샷만 남긴다. 느린 구독자는 중간 스냅샷을 건너뛴다.
func publish(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe 는 변경 스냅샷을 받는 채널과 해제 함수를 반환한다. 채널에는 현재 스냅샷이 먼저 들어 있다.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	ch := make(chan Snapshot, 1)
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			idle := s.idleLocked()
			s.mu.Unlock()
			if idle && s.onIdle != nil {
				s.onIdle(s)
			}
		})
	}
}

// ApplyViewer 는 로그인 상태나 언어가 바뀌었을 때 첫 메시지가 인사 메시지이면 그 문구만 바꾼다.
// 나머지 메시지는 건드리지 않는다.
func (s *Session) ApplyViewer(ctx context.Context, v models.Viewer) Snapshot {
	s.mu.Lock()
	if s.viewer.SameGreeting(v) {
		s.viewer = v
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.viewer = v
	if len(s.state.Messages) > 0 && s.state.Messages[0].IsWelcome() {
		msgs := make([]models.ChatMessage, len(s.state.Messages))
		copy(msgs, s.state.Messages)
		msgs[0] = welcomeMessage(v)
		s.state.Messages = msgs
	}
	snap, save := s.commitLocked()
	s.mu.Unlock()

	s.persist(ctx, save)
	return snap
}

// Clear 는 대화 로그를 새 인사 메시지 하나로 바꾸고 세션 시작 시각을 지금으로 옮긴다.
func (s *Session) Clear(ctx context.Context) Snapshot {
	s.mu.Lock()
	v := s.viewer
	s.mu.Unlock()

	welcome := welcomeMessage(v)
	now := s.now()
	return s.Mutate(ctx, func(st *State) {
		st.Messages = []models.ChatMessage{welcome}
		st.StartedAt = now
	})
}

func (s *Session) SetOpen(ctx context.Context, open bool) Snapshot {
	return s.Mutate(ctx, func(st *State) {
		st.WidgetOpen = open
	})
}

// Unload 는 페이지 이탈 시 현재 상태를 원래 세션 시작 시각 그대로 저장한다.
func (s *Session) Unload(ctx context.Context) {
	s.mu.Lock()
	save := s.saveLocked()
	s.mu.Unlock()
	s.persist(ctx, save)
}

func (s *Session) idleLocked() bool {
	total := 0
	for _, n := range s.mounts {
		total += n
	}
	return total == 0 && s.holds == 0 && s.state.Pending == 0 && len(s.subs) == 0
}
