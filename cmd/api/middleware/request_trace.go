package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peleman-chatbot/cmd/api/trace"
	"peleman-chatbot/internal/logger"
)

const maxBodyLog = 1024

// RequestTrace 는 모든 inbound 요청에 Request ID 를 보장하고 응답 헤더에 싣는다.
// 요청이 끝나면 메서드, 경로, 상태, 소요 시간과 본문 앞부분을 함께 로깅한다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(trace.HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), requestID))
		c.Writer.Header().Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderSpanID, "0")

		bodySnippet := readBodySnippet(c)

		c.Next()

		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    trace.CurrentSpanID(c.Request.Context()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = q
		}
		if bodySnippet != "" {
			fields["body"] = bodySnippet
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}

// readBodySnippet 은 본문을 읽어 다시 채워 두고 앞부분만 돌려준다.
func readBodySnippet(c *gin.Context) string {
	req := c.Request
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return ""
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > maxBodyLog {
		body = body[:maxBodyLog]
	}
	return string(body)
}
