package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"peleman-chatbot/cmd/api/dto"
	"peleman-chatbot/cmd/api/middleware"
	"peleman-chatbot/cmd/api/services"
)

const heartbeatInterval = 15 * time.Second

// EventsHandler godoc
// @Summary      세션 스냅샷 스트림
// @Description  server-sent events. 연결 직후 현재 스냅샷을, 이후 변경마다 최신 스냅샷을 보낸다.
// @Tags         chat
// @Produce      text/event-stream
// @Description  surface 를 주면 연결된 동안 그 surface 를 마운트된 것으로 세고, 연결이 끊기면 해제한다.
// @Param        surface  query  string  false  "widget | modal"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /chat/events [get]
func EventsHandler(svc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		snapshots, cancel, chatErr := svc.Subscribe(ctx, middleware.SessionID(c), c.Query("surface"), middleware.CurrentViewer(c))
		if chatErr != nil {
			abortWithChatError(c, chatErr)
			return
		}
		defer cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)})
				c.Writer.Flush()
			case snap := <-snapshots:
				writeSSE(c.Writer, "snapshot", dto.NewSnapshotDTO(snap))
				c.Writer.Flush()
			}
		}
	}
}

func writeSSE(w io.Writer, event string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b)
}
