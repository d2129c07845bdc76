package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"peleman-chatbot/cmd/api/dto"
)

const HeaderHostToken = "X-Host-Token"

var ErrEmptyToken = errors.New("empty_token")

// ExtractHostToken 은 X-Host-Token 헤더를 읽는다. 헤더가 없으면 ("", false, nil) 로 게스트를 뜻한다.
func ExtractHostToken(c *gin.Context) (string, bool, error) {
	values, ok := c.Request.Header[HeaderHostToken]
	if !ok || len(values) == 0 {
		return "", false, nil
	}
	token := strings.TrimSpace(values[0])
	if token == "" {
		return "", true, ErrEmptyToken
	}
	return token, true, nil
}

func AbortWithUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: "invalid_host_token"})
}
