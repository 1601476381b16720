package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw  string
		def  Lang
		want Lang
	}{
		{"zh", EN, ZH},
		{"ZH", EN, ZH},
		{"cn", EN, ZH},
		{"zh-CN", EN, ZH},
		{" zh_cn ", EN, ZH},
		{"en", ZH, EN},
		{"fr", ZH, EN},
		{"", EN, EN},
		{"", ZH, ZH},
		{"", "cn", ZH},
	}

	for _, tt := range tests {
		t.Run(tt.raw+"/"+string(tt.def), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.raw, tt.def))
		})
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/?lang=cn", nil)
	assert.Equal(t, ZH, FromRequest(req, EN))

	req = httptest.NewRequest("GET", "/wechat", nil)
	assert.Equal(t, ZH, FromRequest(req, ZH))

	req = httptest.NewRequest("GET", "/wechat?lang=en", nil)
	assert.Equal(t, EN, FromRequest(req, ZH))
}

func TestOther(t *testing.T) {
	assert.Equal(t, ZH, Other(EN))
	assert.Equal(t, EN, Other(ZH))
}

func TestT(t *testing.T) {
	assert.Equal(t, "Packages", T(EN, "nav.packages"))
	assert.Equal(t, "套餐价格", T(ZH, "nav.packages"))
	assert.Equal(t, "no.such.key", T(ZH, "no.such.key"))
	assert.True(t, Has("rfq.product"))
	assert.False(t, Has("rfq.unknown"))
}

func TestEveryStringHasBothLanguages(t *testing.T) {
	for key, s := range uiStrings {
		assert.NotEmpty(t, s.en, "missing English for %s", key)
		assert.NotEmpty(t, s.zh, "missing Chinese for %s", key)
	}
}

func TestPick(t *testing.T) {
	assert.Equal(t, "hi", Pick(EN, "hi", "你好"))
	assert.Equal(t, "你好", Pick(ZH, "hi", "你好"))
	assert.Equal(t, "hi", Pick(ZH, "hi", ""))
}
