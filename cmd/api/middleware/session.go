package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peleman-chatbot/cmd/api/auth"
	"peleman-chatbot/i18n"
	"peleman-chatbot/internal/logger"
	"peleman-chatbot/models"
)

const (
	ctxKeySessionID = "session_id"
	ctxKeyViewer    = "viewer"
)

type CookieOptions struct {
	Name   string
	Secure bool
}

// SessionCookie 는 세션 쿠키가 없거나 형식이 틀리면 새 세션 ID 를 발급한다.
func SessionCookie(opts CookieOptions) gin.HandlerFunc {
	sameSite := http.SameSiteLaxMode
	if opts.Secure {
		// 호스트 사이트와 API 도메인이 다를 수 있다
		sameSite = http.SameSiteNoneMode
	}
	return func(c *gin.Context) {
		sid, err := c.Cookie(opts.Name)
		if err == nil {
			_, err = uuid.Parse(sid)
		}
		if err != nil {
			sid = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     opts.Name,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: sameSite,
			})
		}
		c.Set(ctxKeySessionID, sid)
		c.Next()
	}
}

// Viewer 는 호스트 토큰과 언어 신호로 현재 사용자를 정한다.
// 토큰이 없으면 게스트다. 토큰이 있는데 검증에 실패하면 401 이다.
// 언어는 lang 쿼리, 토큰의 lang, Accept-Language 순으로 고른다.
func Viewer(verifier *auth.HostTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			user      *models.CurrentUser
			tokenLang string
		)
		token, found, err := auth.ExtractHostToken(c)
		if err == nil && found {
			var u models.CurrentUser
			u, tokenLang, err = verifier.Parse(token)
			if err == nil {
				user = &u
			}
		}
		if err != nil {
			logger.WarnWithFields("host token rejected", logger.Fields{"error": err.Error()})
			auth.AbortWithUnauthorized(c, err)
			return
		}

		explicit := strings.TrimSpace(c.Query("lang"))
		if explicit == "" {
			explicit = tokenLang
		}
		lang := i18n.Match(explicit, c.GetHeader("Accept-Language"))
		c.Set(ctxKeyViewer, models.Viewer{User: user, Language: string(lang)})
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(ctxKeySessionID)
}

func CurrentViewer(c *gin.Context) models.Viewer {
	v, ok := c.Get(ctxKeyViewer)
	if !ok {
		return models.Viewer{Language: string(i18n.Default)}
	}
	viewer, _ := v.(models.Viewer)
	return viewer
}
