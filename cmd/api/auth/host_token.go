package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"peleman-chatbot/models"
)

var ErrHostTokenDisabled = errors.New("host_token_disabled")

// HostClaims 는 호스트 페이지가 서명해 넘기는 로그인 사용자 정보다. sub 는 WordPress 사용자 ID 다.
type HostClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Lang  string `json:"lang,omitempty"`
	jwt.RegisteredClaims
}

// HostTokenVerifier 는 HS256 공유 시크릿으로 호스트 토큰을 검증한다.
type HostTokenVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewHostTokenVerifier 는 secret 이 비어 있으면 모든 토큰을 거부하는 검증기를 만든다.
func NewHostTokenVerifier(secret string) *HostTokenVerifier {
	return &HostTokenVerifier{secret: []byte(secret), ttl: time.Hour}
}

func (v *HostTokenVerifier) Enabled() bool { return len(v.secret) > 0 }

// Sign 은 운영 도구와 테스트에서 쓰는 토큰을 만든다.
func (v *HostTokenVerifier) Sign(user models.CurrentUser, lang string) (string, error) {
	if !v.Enabled() {
		return "", ErrHostTokenDisabled
	}
	now := time.Now()
	claims := HostClaims{
		Name:  user.Name,
		Email: user.Email,
		Lang:  lang,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse 는 토큰을 검증하고 사용자와 호스트 언어를 반환한다.
func (v *HostTokenVerifier) Parse(token string) (models.CurrentUser, string, error) {
	if !v.Enabled() {
		return models.CurrentUser{}, "", ErrHostTokenDisabled
	}
	var claims HostClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.CurrentUser{}, "", err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return models.CurrentUser{}, "", fmt.Errorf("token has invalid sub claim %q", claims.Subject)
	}
	return models.CurrentUser{ID: id, Name: claims.Name, Email: claims.Email}, claims.Lang, nil
}
