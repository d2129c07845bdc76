package catalog

import (
	"context"
	"sync"
	"time"

	"peleman-chatbot/internal/logger"
)

// Fetcher 는 호스트 카탈로그를 가져온다. lang 이 비어 있으면 호스트 기본 언어로 요청한다.
type Fetcher interface {
	FetchCatalog(ctx context.Context, lang string) (Catalog, error)
}

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

type Source string

const (
	SourceHost     Source = "host"
	SourceFallback Source = "fallback"
)

// View 는 한 언어의 카탈로그 상태와 그 시점의 유효 카탈로그 인덱스다.
// 호스트 모드에서 State 가 Ready 가 아니면 Index 는 nil 이다.
type View struct {
	State  State
	Source Source
	Index  *Index
	Err    error
}

type LoaderOptions struct {
	HostMode     bool
	FetchTimeout time.Duration
	RetryAfter   time.Duration
}

type entry struct {
	state    State
	index    *Index
	err      error
	failedAt time.Time
	done     chan struct{}
}

// Loader 는 언어별 호스트 카탈로그 로딩 상태를 관리한다.
// 같은 언어에 대한 요청은 한 번만 가져오고, 실패한 언어는 RetryAfter 가 지난 뒤 다시 가져온다.
type Loader struct {
	fetcher  Fetcher
	fallback *Index
	opts     LoaderOptions
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewLoader(fetcher Fetcher, fallback Catalog, opts LoaderOptions) *Loader {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 30 * time.Second
	}
	return &Loader{
		fetcher:  fetcher,
		fallback: NewIndex(fallback),
		opts:     opts,
		now:      time.Now,
		entries:  make(map[string]*entry),
	}
}

func (l *Loader) HostMode() bool { return l.opts.HostMode }

// View 는 lang 의 현재 상태를 바로 반환한다. 아직 가져오지 않은 언어면 백그라운드 로딩을 시작한다.
func (l *Loader) View(lang string) View {
	if l.fetcher == nil {
		return l.fallbackView(nil)
	}
	e := l.ensure(lang)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked(e)
}

// Wait 는 lang 의 로딩이 끝날 때까지 기다린 뒤 상태를 반환한다.
func (l *Loader) Wait(ctx context.Context, lang string) View {
	if l.fetcher == nil {
		return l.fallbackView(nil)
	}
	e := l.ensure(lang)
	select {
	case <-e.done:
	case <-ctx.Done():
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked(e)
}

func (l *Loader) fallbackView(err error) View {
	return View{State: StateReady, Source: SourceFallback, Index: l.fallback, Err: err}
}

func (l *Loader) viewLocked(e *entry) View {
	if e.state == StateReady {
		return View{State: StateReady, Source: SourceHost, Index: e.index}
	}
	if !l.opts.HostMode {
		return l.fallbackView(e.err)
	}

	switch e.state {
	case StateFailed:
		return View{State: StateFailed, Source: SourceHost, Err: e.err}
	default:
		return View{State: StateLoading, Source: SourceHost}
	}
}

// ensure 는 lang 의 항목을 반환하고 필요하면 가져오기를 시작한다.
func (l *Loader) ensure(lang string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[lang]
	if ok && !(e.state == StateFailed && l.now().Sub(e.failedAt) >= l.opts.RetryAfter) {
		return e
	}

	e = &entry{state: StateLoading, done: make(chan struct{})}
	l.entries[lang] = e
	go l.fetch(lang, e)
	return e
}

func (l *Loader) fetch(lang string, e *entry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.opts.FetchTimeout)
	defer cancel()

	start := l.now()
	c, err := l.fetcher.FetchCatalog(ctx, lang)
	if err == nil && c.IsEmpty() {
		err = ErrEmptyCatalog
	}

	elapsed := l.now().Sub(start)

	l.mu.Lock()
	if err != nil {
		e.state = StateFailed
		e.err = err
		e.failedAt = start.Add(elapsed)
	} else {
		e.state = StateReady
		e.index = NewIndex(Resolve(c, true, l.fallback.Catalog()))
	}
	l.mu.Unlock()
	close(e.done)

	if err != nil {
		logger.WarnWithFields("호스트 카탈로그 로딩 실패", logger.Fields{"lang": lang, "error": err.Error()})
		return
	}
	logger.InfoWithFields("호스트 카탈로그 로딩 완료", logger.Fields{
		"lang":        lang,
		"categories":  len(c.Categories),
		"products":    len(c.Products),
		"duration_ms": elapsed.Milliseconds(),
	})
}

// Invalidate 는 모든 언어의 캐시를 버린다. 다음 View 에서 다시 가져온다.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]*entry)
}
