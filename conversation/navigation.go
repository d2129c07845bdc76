package conversation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"peleman-chatbot/events"
	"peleman-chatbot/i18n"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/models"
	"peleman-chatbot/synchronizer"
)

const (
	NavigateCategory = "category"
	NavigateProduct  = "product"
)

// Navigation 은 카드 클릭 결과다. 화면은 Delay 만큼 기다린 뒤 URL 로 이동한다.
type Navigation struct {
	Kind     string
	TargetID string
	URL      string
	Delay    time.Duration
	Snapshot synchronizer.Snapshot
}

// CategoryClicked 는 안내 메시지를 하나 추가하고 카테고리 페이지 URL 을 반환한다.
func (c *Controller) CategoryClicked(ctx context.Context, sess *synchronizer.Session, viewer models.Viewer, categoryID string) (Navigation, error) {
	view := c.catalogs.View(viewer.Language)
	if view.Index == nil {
		return Navigation{}, ErrCatalogNotReady
	}
	cat, ok := view.Index.Category(categoryID)
	if !ok {
		return Navigation{}, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	text := i18n.For(i18n.Lang(viewer.Language)).NavigatingToCategory(cat.Name)
	return c.navigate(ctx, sess, NavigateCategory, cat.ID, c.resolveURL(cat.NavigationURL, ""), text)
}

// ProductClicked 는 안내 메시지를 하나 추가하고 상품 페이지 URL 을 반환한다.
// 상품에 URL 이 없으면 <site_url>/product/<id> 를 쓴다.
func (c *Controller) ProductClicked(ctx context.Context, sess *synchronizer.Session, viewer models.Viewer, productID string) (Navigation, error) {
	view := c.catalogs.View(viewer.Language)
	if view.Index == nil {
		return Navigation{}, ErrCatalogNotReady
	}
	p, ok := view.Index.Product(productID)
	if !ok {
		return Navigation{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	text := i18n.For(i18n.Lang(viewer.Language)).NavigatingToProduct(p.Name)
	fallback := c.opts.SiteURL + "/product/" + url.PathEscape(p.ID)
	return c.navigate(ctx, sess, NavigateProduct, p.ID, c.resolveURL(p.DetailURL, fallback), text)
}

func (c *Controller) navigate(ctx context.Context, sess *synchronizer.Session, kind, id, target, text string) (Navigation, error) {
	msg := assistantMessage(text)
	snap := sess.Mutate(ctx, func(st *synchronizer.State) { st.Append(msg) })

	err := c.observer.Navigated(context.WithoutCancel(ctx), events.ChatNavigatedEvent{
		SessionID: sess.ID(),
		Kind:      kind,
		TargetID:  id,
		URL:       target,
		At:        c.now(),
	})
	if err != nil {
		logger.WarnWithFields("이동 이벤트 전달 실패", logger.Fields{"sid": sess.ID(), "error": err.Error()})
	}
	return Navigation{Kind: kind, TargetID: id, URL: target, Delay: c.opts.NavigationDelay, Snapshot: snap}, nil
}

// resolveURL 은 상대 경로를 SiteURL 기준으로 바꾼다. raw 가 비어 있으면 fallback 을 쓴다.
func (c *Controller) resolveURL(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || c.opts.SiteURL == "" {
		return raw
	}
	base, err := url.Parse(c.opts.SiteURL + "/")
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}

// Clear 는 대화 기록을 새 환영 메시지 하나로 초기화한다.
func (c *Controller) Clear(ctx context.Context, sess *synchronizer.Session) synchronizer.Snapshot {
	snap := sess.Clear(ctx)
	err := c.observer.SessionCleared(context.WithoutCancel(ctx), events.ChatSessionClearedEvent{SessionID: sess.ID(), At: c.now()})
	if err != nil {
		logger.WarnWithFields("초기화 이벤트 전달 실패", logger.Fields{"sid": sess.ID(), "error": err.Error()})
	}
	return snap
}
