// Package trace 는 요청 단위 Request ID 와 아웃바운드 호출 span 번호를 컨텍스트로 전달한다.
package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"
)

type ctxKey struct{}

// Info 의 span 은 inbound 가 0 이고, 같은 요청 안의 아웃바운드 호출마다 1 씩 늘어난다.
type Info struct {
	RequestID string
	span      atomic.Int64
}

// GenerateID 는 클라이언트가 X-Request-Id 를 보내지 않았을 때 쓸 ID 를 만든다.
func GenerateID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Info{RequestID: requestID})
}

func fromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(ctxKey{}).(*Info)
	return info
}

func RequestID(ctx context.Context) string {
	if info := fromContext(ctx); info != nil {
		return info.RequestID
	}
	return ""
}

// CurrentSpanID 는 현재 span 번호를 문자열로 반환한다. 증가시키지 않는다.
func CurrentSpanID(ctx context.Context) string {
	info := fromContext(ctx)
	if info == nil {
		return "0"
	}
	return strconv.FormatInt(max(info.span.Load(), 0), 10)
}

// NextSpanID 는 span 을 하나 올리고 (requestID, spanID) 를 반환한다.
// 미들웨어 밖에서 호출되면 새 Request ID 와 span 1 을 쓴다.
func NextSpanID(ctx context.Context) (string, string) {
	info := fromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	return info.RequestID, strconv.FormatInt(max(info.span.Add(1), 1), 10)
}
