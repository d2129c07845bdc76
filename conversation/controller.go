// Package conversation 은 사용자 메시지 한 턴을 처리한다.
// 카탈로그 상태를 확인하고, 모델을 호출하고, 추천 중복을 걸러낸 응답을 공유 세션에 추가한다.
package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"peleman-chatbot/catalog"
	"peleman-chatbot/events"
	"peleman-chatbot/i18n"
	"peleman-chatbot/internal/ids"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/llm"
	"peleman-chatbot/models"
	"peleman-chatbot/recommend"
	"peleman-chatbot/synchronizer"
)

var (
	ErrEmptyInput      = errors.New("conversation: empty input")
	ErrUnknownCategory = errors.New("conversation: unknown category")
	ErrUnknownProduct  = errors.New("conversation: unknown product")
	ErrCatalogNotReady = errors.New("conversation: catalog not ready")
)

// Model 은 llm.Client 가 구현한다.
type Model interface {
	Send(ctx context.Context, req llm.Request) (llm.Result, error)
}

// Catalogs 는 catalog.Loader 가 구현한다.
type Catalogs interface {
	View(lang string) catalog.View
	HostMode() bool
}

// Observer 는 턴 완료와 카드 클릭을 통보받는다. 실패해도 응답에는 영향이 없다.
type Observer interface {
	TurnCompleted(ctx context.Context, e events.ChatTurnCompletedEvent) error
	Navigated(ctx context.Context, e events.ChatNavigatedEvent) error
	SessionCleared(ctx context.Context, e events.ChatSessionClearedEvent) error
}

type Options struct {
	// HistoryLimit 은 모델에 보낼 이전 메시지 수 상한이다. 0 이면 전부 보낸다.
	HistoryLimit int
	// SiteURL 은 상대 경로 카드 URL 과 상품 URL 대체값의 기준이다.
	SiteURL         string
	NavigationDelay time.Duration
}

type Controller struct {
	model    Model
	catalogs Catalogs
	observer Observer
	opts     Options
	now      func() time.Time
}

func New(model Model, catalogs Catalogs, observer Observer, opts Options) *Controller {
	if observer == nil {
		observer = events.Noop{}
	}
	if opts.NavigationDelay <= 0 {
		opts.NavigationDelay = time.Second
	}
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	return &Controller{model: model, catalogs: catalogs, observer: observer, opts: opts, now: time.Now}
}

// Outcome 은 Submit 결과다. Gated 이면 카탈로그 상태 때문에 모델을 호출하지 않았다.
type Outcome struct {
	Snapshot synchronizer.Snapshot
	Reply    models.ChatMessage
	Gated    bool
	Pivoted  bool
}

// Submit 은 사용자 메시지 한 턴을 처리한다.
// 빈 입력은 상태를 바꾸지 않고 ErrEmptyInput 을 반환한다. 호스트 모드에서 카탈로그가 준비되지 않았으면
// 안내 메시지만 추가한다. 그 외에는 모델 실패 여부와 상관없이 항상 assistant 메시지가 하나 추가된다.
func (c *Controller) Submit(ctx context.Context, sess *synchronizer.Session, viewer models.Viewer, text string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return Outcome{}, ErrEmptyInput
	}

	lang := i18n.Lang(viewer.Language)
	msgs := i18n.For(lang)
	view := c.catalogs.View(viewer.Language)

	if c.catalogs.HostMode() && view.State != catalog.StateReady {
		notice := msgs.CatalogLoading
		if view.State == catalog.StateFailed {
			notice = msgs.CatalogError
		}
		reply := assistantMessage(notice)
		snap := sess.Mutate(ctx, func(st *synchronizer.State) { st.Append(reply) })
		logger.InfoWithFields("카탈로그 준비 전 메시지 차단", logger.Fields{"sid": sess.ID(), "state": string(view.State)})
		return Outcome{Snapshot: snap, Reply: reply, Gated: true}, nil
	}

	requestedAt := c.now()
	userMsg := models.ChatMessage{ID: ids.Next(), Sender: models.SenderUser, Text: text}
	var history []models.HistoryTurn
	sess.Mutate(ctx, func(st *synchronizer.State) {
		history = buildHistory(st.Messages, c.opts.HistoryLimit)
		st.Append(userMsg)
		st.Pending++
	})

	settled := false
	defer func() {
		if !settled {
			sess.Mutate(ctx, func(st *synchronizer.State) { st.Pending-- })
		}
	}()

	idx := view.Index
	userName := ""
	if viewer.User != nil {
		userName = viewer.User.Name
	}

	// 요청이 끊겨도 모델 호출은 끝까지 진행하고 결과를 세션에 남긴다
	result, sendErr := c.model.Send(context.WithoutCancel(ctx), llm.Request{
		History:    history,
		UserText:   text,
		Categories: idx.Catalog().Categories,
		Products:   idx.Catalog().Products,
		UserName:   userName,
		Language:   lang,
	})
	if sendErr != nil {
		logger.WarnWithFields("모델 응답 실패, 대체 메시지 사용", logger.Fields{"sid": sess.ID(), "error": sendErr.Error()})
	}

	var (
		rec   recommend.Result
		reply models.ChatMessage
	)
	snap := sess.Mutate(ctx, func(st *synchronizer.State) {
		rec = recommend.Apply(result.Reply, recommend.ShownCategories(st.Messages), idx)
		reply = rec.ToMessage(ids.Next())
		st.Append(reply)
		st.Pending--
	})
	settled = true

	c.notifyTurn(ctx, sess.ID(), viewer, userMsg, reply, rec, result, sendErr, requestedAt)
	return Outcome{Snapshot: snap, Reply: reply, Pivoted: rec.Pivoted()}, nil
}

func assistantMessage(text string) models.ChatMessage {
	return models.ChatMessage{ID: ids.Next(), Sender: models.SenderAssistant, Text: text}
}

// buildHistory 는 이전 메시지를 모델 역할(user/model)과 텍스트만 남긴 목록으로 바꾼다. limit > 0 이면 마지막 limit 개만 남긴다.
func buildHistory(messages []models.ChatMessage, limit int) []models.HistoryTurn {
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	history := make([]models.HistoryTurn, 0, len(messages))
	for _, m := range messages {
		role := models.RoleModel
		if m.Sender == models.SenderUser {
			role = models.RoleUser
		}
		history = append(history, models.HistoryTurn{Role: role, Content: m.Text})
	}
	return history
}

func (c *Controller) notifyTurn(ctx context.Context, sid string, viewer models.Viewer, userMsg, reply models.ChatMessage, rec recommend.Result, result llm.Result, sendErr error, requestedAt time.Time) {
	e := events.ChatTurnCompletedEvent{
		SessionID:    sid,
		MessageID:    reply.ID,
		Language:     viewer.Language,
		UserText:     userMsg.Text,
		ResponseType: string(result.Reply.ResponseType),
		ReplyText:    reply.Text,
		PivotedFrom:  rec.PivotedFrom,
		ModelName:    result.ModelName,
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
		DurationMs:   result.Latency.Milliseconds(),
		RequestedAt:  requestedAt,
		CompletedAt:  c.now(),
	}
	if viewer.User != nil {
		e.UserID = viewer.User.ID
	}
	for _, cat := range reply.RecommendedCategories {
		e.CategoryIDs = append(e.CategoryIDs, cat.ID)
	}
	for _, p := range reply.RecommendedProducts {
		e.ProductIDs = append(e.ProductIDs, p.ID)
	}
	if sendErr != nil {
		e.Error = sendErr.Error()
	}
	if err := c.observer.TurnCompleted(context.WithoutCancel(ctx), e); err != nil {
		logger.WarnWithFields("턴 완료 이벤트 전달 실패", logger.Fields{"sid": sid, "error": err.Error()})
	}
}
