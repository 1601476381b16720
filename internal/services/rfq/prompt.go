package rfq

import (
	"strings"

	"github.com/ternarybob/skylane/internal/i18n"
)

// SystemPrompt pins the model to the JSON contract ParseResult expects.
const SystemPrompt = "You are an RFQ assistant. Follow the instructions carefully. " +
	"Always output STRICT JSON with keys 'rfq_en' and 'rfq_zh'. " +
	"No markdown, no backticks, no explanations, just JSON."

const noInfo = "(no structured info provided)"

const instructionsEN = `
You are an experienced export sales manager for tools/general industrial products.
Your job is to turn a buyer's rough message into a clean, structured RFQ (request for quotation).

Please produce:

1) A clear ENGLISH RFQ suitable to send to Chinese factories or trading companies.
2) A CHINESE version of the same RFQ for internal use or for factories.

Requirements:
- Use clear sections (e.g., Buyer info, Product spec, Quality, Packaging, Incoterms, QC, Others).
- No email greetings (no “Dear Sir/Madam”); start directly with the RFQ sections.
- You may reasonably fill in common missing details, marking them as “to be confirmed”.
Return the result as JSON with two string fields: rfq_en and rfq_zh.
`

const instructionsZH = `
你是一名外贸手工具/一般工业品的资深业务员，擅长把客户的原始需求整理成结构化的询盘/报价单（RFQ）。
请根据下面信息，生成：

1) 一份【英文】RFQ，结构清晰、适合发送给中国工厂或外贸公司的业务员；
2) 一份【中文】版本，方便转发给工厂或内部团队。

要求：
- 用条目或小标题分段（如：Buyer info, Product spec, Quality, Packaging, Incoterms, QC, Others 等）；
- 不要发邮件问候语（如 Dear Sir），直接从“Buyer info”开始；
- 可以合理补充缺失但常见的信息（并标注为“to be confirmed”）。
输出格式使用 JSON，对象中包含两个字段：rfq_en 和 rfq_zh，其值为字符串。
`

const (
	headerEN = "\n\nBuyer provided the following raw info (may be incomplete):\n"
	headerZH = "\n\n客户提供的信息如下（可能不完整）：\n"
)

// field pairs a request value with its UI label key.
type field struct {
	key   string
	value string
}

// fields lists the buyer details in prompt order.
func (r *Request) fields() []field {
	return []field{
		{"company", r.Company},
		{"buyer_name", r.BuyerName},
		{"email", r.Email},
		{"country", r.Country},
		{"product", r.Product},
		{"quantity", r.Quantity},
		{"incoterm", r.Incoterm},
		{"target_port", r.TargetPort},
		{"quality_level", r.QualityLevel},
		{"certifications", r.Certifications},
		{"packaging", r.Packaging},
		{"notes", r.Notes},
	}
}

// BuildPrompt renders the user prompt: instructions, a header, then one
// "Label: value" line per non-empty field using the form labels of lang.
func BuildPrompt(req *Request, lang i18n.Lang) string {
	var lines []string
	for _, f := range req.fields() {
		if f.value == "" {
			continue
		}
		lines = append(lines, i18n.T(lang, "rfq."+f.key)+": "+f.value)
	}

	userText := noInfo
	if len(lines) > 0 {
		userText = strings.Join(lines, "\n")
	}

	if lang == i18n.ZH {
		return instructionsZH + headerZH + userText
	}
	return instructionsEN + headerEN + userText
}
