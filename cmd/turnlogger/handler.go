package main

import (
	"context"

	"peleman-chatbot/events"
	"peleman-chatbot/internal/eventbus"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/models"
)

type turnLogInserter interface {
	Insert(ctx context.Context, log models.ChatTurnLog) error
}

// turnLogHandler 는 턴 완료 이벤트를 chat_turn_logs 에 기록한다.
// 저장 실패는 오류로 돌려 eventbus 의 재시도 경로를 탄다.
type turnLogHandler struct {
	repo turnLogInserter
}

func (h *turnLogHandler) Handle(ctx context.Context, e events.ChatTurnCompletedEvent, meta eventbus.Event) error {
	if err := h.repo.Insert(ctx, toTurnLog(meta.ID, e)); err != nil {
		logger.ErrorWithFields("chat turn log insert failed", logger.Fields{
			"event_id": meta.ID,
			"retry":    meta.Retry,
			"error":    err.Error(),
		})
		return err
	}
	logger.DebugWithFields("chat turn logged", logger.Fields{"event_id": meta.ID, "sid": e.SessionID})
	return nil
}

func toTurnLog(eventID string, e events.ChatTurnCompletedEvent) models.ChatTurnLog {
	log := models.ChatTurnLog{
		EventID:      eventID,
		SessionID:    e.SessionID,
		MessageID:    e.MessageID,
		Language:     e.Language,
		UserID:       e.UserID,
		UserText:     e.UserText,
		ResponseType: e.ResponseType,
		ReplyText:    e.ReplyText,
		CategoryIDs:  e.CategoryIDs,
		ProductIDs:   e.ProductIDs,
		PivotedFrom:  e.PivotedFrom,
		ModelName:    e.ModelName,
		InputTokens:  e.InputTokens,
		OutputTokens: e.OutputTokens,
		DurationMs:   e.DurationMs,
		RequestedAt:  e.RequestedAt,
		CompletedAt:  e.CompletedAt,
	}
	if e.Error != "" {
		msg := e.Error
		log.ErrorMessage = &msg
	}
	return log
}
