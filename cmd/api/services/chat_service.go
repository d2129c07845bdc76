package services

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"peleman-chatbot/catalog"
	"peleman-chatbot/cmd/api/dto"
	"peleman-chatbot/conversation"
	"peleman-chatbot/models"
	"peleman-chatbot/synchronizer"
)

type ChatService struct {
	registry   *synchronizer.Registry
	controller *conversation.Controller
	catalogs   conversation.Catalogs
}

// ChatError 는 핸들러가 그대로 응답으로 쓰는 상태 코드와 에러 코드다.
type ChatError struct {
	StatusCode int
	ErrorCode  string
	Cause      error
}

func (e *ChatError) Error() string {
	if e == nil {
		return "chat_failed"
	}
	return e.ErrorCode
}

func (e *ChatError) Unwrap() error { return e.Cause }

func NewChatService(registry *synchronizer.Registry, controller *conversation.Controller, catalogs conversation.Catalogs) *ChatService {
	return &ChatService{registry: registry, controller: controller, catalogs: catalogs}
}

func parseSurface(raw string) (synchronizer.Surface, *ChatError) {
	s := synchronizer.Surface(raw)
	if !s.Valid() {
		return "", &ChatError{StatusCode: http.StatusBadRequest, ErrorCode: "invalid_surface"}
	}
	return s, nil
}

func (s *ChatService) Mount(ctx context.Context, sid, surface string, viewer models.Viewer) (dto.SnapshotDTO, *ChatError) {
	sf, chatErr := parseSurface(surface)
	if chatErr != nil {
		return dto.SnapshotDTO{}, chatErr
	}
	return dto.NewSnapshotDTO(s.registry.Mount(ctx, sid, sf, viewer)), nil
}

func (s *ChatService) Unmount(ctx context.Context, sid, surface string) *ChatError {
	sf, chatErr := parseSurface(surface)
	if chatErr != nil {
		return chatErr
	}
	s.registry.Unmount(ctx, sid, sf)
	return nil
}

// parseOptionalSurface 는 빈 값을 "surface 없음" 으로 받아들인다.
func parseOptionalSurface(raw string) (synchronizer.Surface, *ChatError) {
	if raw == "" {
		return "", nil
	}
	return parseSurface(raw)
}

// Unload 는 메모리에 세션이 있을 때만 저장한다. 없으면 저장소의 값이 이미 최신이다.
// surface 를 주면 이탈하는 페이지의 마운트도 함께 해제한다.
func (s *ChatService) Unload(ctx context.Context, sid, surface string) *ChatError {
	sf, chatErr := parseOptionalSurface(surface)
	if chatErr != nil {
		return chatErr
	}
	sess, ok := s.registry.Lookup(sid)
	if !ok {
		return nil
	}
	sess.Unload(ctx)
	if sf != "" {
		s.registry.Unmount(ctx, sid, sf)
	}
	return nil
}

func (s *ChatService) Session(ctx context.Context, sid string, viewer models.Viewer) dto.SnapshotDTO {
	sess, release := s.registry.Acquire(ctx, sid, viewer)
	defer release()
	return dto.NewSnapshotDTO(sess.Snapshot())
}

// Subscribe 는 세션 스냅샷 스트림을 연다. cancel 을 호출하기 전까지 세션은 메모리에 남는다.
// surface 를 주면 스트림이 열려 있는 동안 그 surface 가 마운트된 것으로 센다.
func (s *ChatService) Subscribe(ctx context.Context, sid, surface string, viewer models.Viewer) (<-chan synchronizer.Snapshot, func(), *ChatError) {
	sf, chatErr := parseOptionalSurface(surface)
	if chatErr != nil {
		return nil, nil, chatErr
	}

	sess, release := s.registry.Acquire(ctx, sid, viewer)
	if sf != "" {
		s.registry.Mount(ctx, sid, sf, viewer)
	}
	ch, unsubscribe := sess.Subscribe()
	release()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			if sf != "" {
				s.registry.Unmount(context.WithoutCancel(ctx), sid, sf)
			}
			unsubscribe()
		})
	}, nil
}

func (s *ChatService) Send(ctx context.Context, sid string, viewer models.Viewer, text string) (dto.SendMessageResponseDTO, *ChatError) {
	sess, release := s.registry.Acquire(ctx, sid, viewer)
	defer release()

	out, err := s.controller.Submit(ctx, sess, viewer, text)
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyInput) {
			return dto.SendMessageResponseDTO{}, &ChatError{StatusCode: http.StatusBadRequest, ErrorCode: "empty_message", Cause: err}
		}
		return dto.SendMessageResponseDTO{}, &ChatError{StatusCode: http.StatusInternalServerError, ErrorCode: "chat_failed", Cause: err}
	}
	return dto.SendMessageResponseDTO{
		Reply:    dto.NewChatMessageDTO(out.Reply),
		Gated:    out.Gated,
		Snapshot: dto.NewSnapshotDTO(out.Snapshot),
	}, nil
}

func (s *ChatService) SetOpen(ctx context.Context, sid string, viewer models.Viewer, open bool) dto.SnapshotDTO {
	sess, release := s.registry.Acquire(ctx, sid, viewer)
	defer release()
	return dto.NewSnapshotDTO(sess.SetOpen(ctx, open))
}

func (s *ChatService) Clear(ctx context.Context, sid string, viewer models.Viewer) dto.SnapshotDTO {
	sess, release := s.registry.Acquire(ctx, sid, viewer)
	defer release()
	return dto.NewSnapshotDTO(s.controller.Clear(ctx, sess))
}

func (s *ChatService) ClickCategory(ctx context.Context, sid string, viewer models.Viewer, id string) (dto.NavigationResponseDTO, *ChatError) {
	sess, release := s.registry.Acquire(ctx, sid, viewer)
	defer release()
	nav, err := s.controller.CategoryClicked(ctx, sess, viewer, id)
	return navigationResponse(nav, err)
}

func (s *ChatService) ClickProduct(ctx context.Context, sid string, viewer models.Viewer, id string) (dto.NavigationResponseDTO, *ChatError) {
	sess, release := s.registry.Acquire(ctx, sid, viewer)
	defer release()
	nav, err := s.controller.ProductClicked(ctx, sess, viewer, id)
	return navigationResponse(nav, err)
}

func navigationResponse(nav conversation.Navigation, err error) (dto.NavigationResponseDTO, *ChatError) {
	switch {
	case err == nil:
		return dto.NavigationResponseDTO{
			NavigateTo: nav.URL,
			DelayMs:    nav.Delay.Milliseconds(),
			Snapshot:   dto.NewSnapshotDTO(nav.Snapshot),
		}, nil
	case errors.Is(err, conversation.ErrUnknownCategory), errors.Is(err, conversation.ErrUnknownProduct):
		return dto.NavigationResponseDTO{}, &ChatError{StatusCode: http.StatusNotFound, ErrorCode: "not_found", Cause: err}
	case errors.Is(err, conversation.ErrCatalogNotReady):
		return dto.NavigationResponseDTO{}, &ChatError{StatusCode: http.StatusServiceUnavailable, ErrorCode: "catalog_unavailable", Cause: err}
	default:
		return dto.NavigationResponseDTO{}, &ChatError{StatusCode: http.StatusInternalServerError, ErrorCode: "chat_failed", Cause: err}
	}
}

func (s *ChatService) CatalogStatus(lang string) dto.CatalogStatusDTO {
	view := s.catalogs.View(lang)
	out := dto.CatalogStatusDTO{
		Language: lang,
		State:    string(view.State),
		Source:   string(view.Source),
		HostMode: s.catalogs.HostMode(),
	}
	if view.Index != nil {
		c := view.Index.Catalog()
		out.Categories = len(c.Categories)
		out.Products = len(c.Products)
	}
	if view.Err != nil {
		out.Error = view.Err.Error()
	}
	return out
}

var _ conversation.Catalogs = (*catalog.Loader)(nil)
