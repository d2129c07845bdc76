package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Lang
		ok   bool
	}{
		{"nl-BE", Dutch, true},
		{"TR", Turkish, true},
		{"el", Greek, true},
		{"gr", Greek, true},
		{"es-ES", Spanish, true},
		{"ja", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Parse(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchPrefersExplicitLanguage(t *testing.T) {
	assert.Equal(t, French, Match("fr", "de-DE,de;q=0.9"))
	assert.Equal(t, German, Match("", "de-DE,de;q=0.9,en;q=0.5"))
	assert.Equal(t, German, Match("xx-invalid-", "de"))
	assert.Equal(t, English, Match("", ""))
	assert.Equal(t, English, Match("", "ja-JP"))
}

func TestWelcomeUsesName(t *testing.T) {
	en := For(English)
	assert.Equal(t, en.WelcomeGuest, en.Welcome(""))
	assert.True(t, strings.HasPrefix(en.Welcome("Ada"), "Hello Ada!"))
	assert.Equal(t, "Taking you to Album...", en.NavigatingToProduct("Album"))
}

func TestEveryLanguageHasAllMessages(t *testing.T) {
	for _, l := range Supported() {
		m := For(l)
		for name, v := range map[string]string{
			"WelcomeLoggedIn":   m.WelcomeLoggedIn,
			"WelcomeGuest":      m.WelcomeGuest,
			"CatalogLoading":    m.CatalogLoading,
			"CatalogError":      m.CatalogError,
			"NavigateCategory":  m.NavigateCategory,
			"NavigateProduct":   m.NavigateProduct,
			"ConnectionProblem": m.ConnectionProblem,
			"APIKeyMissing":     m.APIKeyMissing,
		} {
			assert.NotEmpty(t, v, "%s.%s", l, name)
		}
		assert.Contains(t, m.WelcomeLoggedIn, "%s")
	}
	assert.Equal(t, For(English), For("xx"))
}
