package rfq

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FallbackNoticeZH prefixes the Chinese field when the model ignored the JSON contract.
const FallbackNoticeZH = "（AI 输出未按 JSON 格式返回，这里为英文 RFQ 原文，请人工翻译或重新生成。）\n\n"

// Result is the expanded RFQ in both languages.
type Result struct {
	RFQEN string `json:"rfq_en"`
	RFQZH string `json:"rfq_zh"`

	// Fallback is set when the model output was not the expected JSON object
	Fallback bool `json:"-"`
}

// ParseResult reads {"rfq_en","rfq_zh"} from the model output. Markdown code
// fences around the JSON are tolerated; missing keys become empty strings.
// Anything else is treated as an English RFQ with a Chinese notice.
func ParseResult(raw string) *Result {
	cleaned := stripCodeFence(raw)

	if gjson.Valid(cleaned) {
		parsed := gjson.Parse(cleaned)
		if parsed.IsObject() {
			en, okEN := stringField(parsed, "rfq_en")
			zh, okZH := stringField(parsed, "rfq_zh")
			if okEN && okZH {
				return &Result{RFQEN: en, RFQZH: zh}
			}
		}
	}

	en := strings.TrimSpace(raw)
	return &Result{
		RFQEN:    en,
		RFQZH:    FallbackNoticeZH + en,
		Fallback: true,
	}
}

// stringField returns the trimmed string at key. A missing key is an empty
// string; a present non-string value is rejected.
func stringField(obj gjson.Result, key string) (string, bool) {
	v := obj.Get(key)
	if !v.Exists() {
		return "", true
	}
	if v.Type != gjson.String {
		return "", false
	}
	return strings.TrimSpace(v.String()), true
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		// Drop the language tag line, e.g. "json"
		if tag := strings.TrimSpace(inner[:nl]); !strings.ContainsAny(tag, "{[") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
