package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"peleman-chatbot/models"
)

func TestHostTokenSignAndParseRoundTrip(t *testing.T) {
	v := NewHostTokenVerifier("test-secret")
	token, err := v.Sign(models.CurrentUser{ID: 42, Name: "Ada", Email: "ada@example.com"}, "nl")
	if err != nil {
		t.Fatalf("unexpected sign error: %v", err)
	}

	user, lang, err := v.Parse(token)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if user.ID != 42 || user.Name != "Ada" || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if lang != "nl" {
		t.Fatalf("expected lang nl, got %q", lang)
	}
}

func TestHostTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewHostTokenVerifier("a").Sign(models.CurrentUser{ID: 1}, "")
	if err != nil {
		t.Fatalf("unexpected sign error: %v", err)
	}
	if _, _, err := NewHostTokenVerifier("b").Parse(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestHostTokenRejectsExpiredAndBadSubject(t *testing.T) {
	secret := []byte("test-secret")
	v := NewHostTokenVerifier(string(secret))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, HostClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	s, _ := expired.SignedString(secret)
	if _, _, err := v.Parse(s); err == nil {
		t.Fatalf("expected expired token error")
	}

	badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, HostClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ada"}})
	s, _ = badSub.SignedString(secret)
	if _, _, err := v.Parse(s); err == nil {
		t.Fatalf("expected sub claim error")
	}
}

func TestDisabledVerifier(t *testing.T) {
	v := NewHostTokenVerifier("")
	if v.Enabled() {
		t.Fatalf("expected disabled verifier")
	}
	if _, _, err := v.Parse("x"); err != ErrHostTokenDisabled {
		t.Fatalf("expected ErrHostTokenDisabled, got %v", err)
	}
}

func TestExtractHostToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name      string
		header    *string
		wantToken string
		wantFound bool
		wantErr   error
	}{
		{name: "missing header"},
		{name: "empty header", header: ptr("  "), wantFound: true, wantErr: ErrEmptyToken},
		{name: "token", header: ptr("abc"), wantToken: "abc", wantFound: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != nil {
				c.Request.Header.Set(HeaderHostToken, *tc.header)
			}
			token, found, err := ExtractHostToken(c)
			if token != tc.wantToken || found != tc.wantFound || err != tc.wantErr {
				t.Fatalf("got (%q, %v, %v), want (%q, %v, %v)", token, found, err, tc.wantToken, tc.wantFound, tc.wantErr)
			}
		})
	}
}

func ptr(s string) *string { return &s }
