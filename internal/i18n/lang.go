// Package i18n resolves the page language and holds the bilingual UI strings.
package i18n

import (
	"net/http"
	"strings"
)

// Lang is a supported site language.
type Lang string

const (
	EN Lang = "en"
	ZH Lang = "zh"
)

// chineseAliases are the request values treated as Simplified Chinese.
var chineseAliases = map[string]bool{
	"zh":      true,
	"cn":      true,
	"zh-cn":   true,
	"zh_cn":   true,
	"zh-hans": true,
}

// Resolve maps a raw language value to a supported Lang.
// An empty value resolves def instead; anything that is not a Chinese alias is English.
func Resolve(raw string, def Lang) Lang {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		value = string(def)
	}
	if chineseAliases[value] {
		return ZH
	}
	return EN
}

// FromRequest resolves the ?lang= query parameter.
func FromRequest(r *http.Request, def Lang) Lang {
	return Resolve(r.URL.Query().Get("lang"), def)
}

// Other returns the language the switcher link should point to.
func Other(lang Lang) Lang {
	if lang == ZH {
		return EN
	}
	return ZH
}

// Pick returns zh for Chinese pages and en otherwise.
func Pick(lang Lang, en, zh string) string {
	if lang == ZH && zh != "" {
		return zh
	}
	return en
}

func (l Lang) String() string {
	return string(l)
}
