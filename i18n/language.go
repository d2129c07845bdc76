// Package i18n 는 위젯이 지원하는 언어를 고르고 언어별 고정 문구를 제공한다.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

type Lang string

const (
	Turkish Lang = "tr"
	German  Lang = "de"
	French  Lang = "fr"
	Dutch   Lang = "nl"
	English Lang = "en"
	Spanish Lang = "es"
	// Greek 은 호스트 설정 호환을 위해 ISO 코드 el 대신 gr 을 쓴다.
	Greek Lang = "gr"
)

const Default = English

// supported 와 supportedTags 는 같은 순서여야 한다. 첫 항목이 매칭 실패 시 기본값이다.
var supported = []Lang{English, Turkish, German, French, Dutch, Spanish, Greek}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Turkish,
	language.German,
	language.French,
	language.Dutch,
	language.Spanish,
	language.Greek,
})

var byBase = map[string]Lang{
	"en": English,
	"tr": Turkish,
	"de": German,
	"fr": French,
	"nl": Dutch,
	"es": Spanish,
	"el": Greek,
}

// Supported 는 지원 언어 목록을 반환한다.
func Supported() []Lang {
	out := make([]Lang, len(supported))
	copy(out, supported)
	return out
}

// Parse 는 "de-BE", "el", "gr" 같은 단일 언어 코드를 지원 언어로 바꾼다. 지원하지 않으면 false 를 반환한다.
func Parse(code string) (Lang, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	if strings.HasPrefix(code, "gr") {
		return Greek, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	l, ok := byBase[base.String()]
	return l, ok
}

// Match 는 명시적인 lang 값이 지원 언어면 그것을, 아니면 Accept-Language 헤더에서 가장 가까운 지원 언어를 고른다.
// 둘 다 없거나 맞는 언어가 없으면 English 다.
func Match(explicit, acceptLanguage string) Lang {
	if l, ok := Parse(explicit); ok {
		return l
	}
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}
