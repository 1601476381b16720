package rfq

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/interfaces"
)

// mockLLMService records the last request and returns a canned reply
type mockLLMService struct {
	readyErr error
	chatErr  error
	reply    string
	last     *interfaces.ChatRequest
	calls    int
}

func (m *mockLLMService) Chat(ctx context.Context, request *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	m.calls++
	m.last = request
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	return &interfaces.ChatResponse{Text: m.reply, Provider: "mock", Model: "mock-1"}, nil
}

func (m *mockLLMService) Ready() error         { return m.readyErr }
func (m *mockLLMService) ProviderName() string { return "mock" }
func (m *mockLLMService) Close() error         { return nil }

func newTestService(llm interfaces.LLMService, enabled bool) *Service {
	config := common.NewDefaultConfig()
	config.Site.EnableSmartRFQ = enabled
	return NewService(llm, &config.Site, &config.RFQ, arbor.NewLogger())
}

func TestBuildPrompt_English(t *testing.T) {
	req := &Request{Company: "Acme", Product: "sockets", Notes: "urgent"}
	prompt := BuildPrompt(req, i18n.EN)

	assert.True(t, strings.HasPrefix(prompt, instructionsEN))
	assert.True(t, strings.HasSuffix(prompt,
		"Buyer provided the following raw info (may be incomplete):\nCompany: Acme\nProduct focus: sockets\nExtra notes: urgent"))
}

func TestBuildPrompt_ChineseFieldOrder(t *testing.T) {
	req := &Request{Notes: "尽快", Company: "宁波工具", Incoterm: "FOB"}
	prompt := BuildPrompt(req, i18n.ZH)

	assert.True(t, strings.HasPrefix(prompt, instructionsZH))
	assert.True(t, strings.HasSuffix(prompt,
		"客户提供的信息如下（可能不完整）：\n公司名称: 宁波工具\n希望的贸易条款 (Incoterm): FOB\n补充说明: 尽快"))
}

func TestBuildPrompt_NoFields(t *testing.T) {
	prompt := BuildPrompt(&Request{}, i18n.EN)
	assert.True(t, strings.HasSuffix(prompt, "(may be incomplete):\n(no structured info provided)"))
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantEN   string
		wantZH   string
		fallback bool
	}{
		{"strict json", `{"rfq_en":" Buyer info ","rfq_zh":"买家信息"}`, "Buyer info", "买家信息", false},
		{"fenced json", "```json\n{\"rfq_en\":\"A\",\"rfq_zh\":\"甲\"}\n```", "A", "甲", false},
		{"missing key", `{"rfq_en":"only english"}`, "only english", "", false},
		{"plain text", "  Buyer info: Acme  ", "Buyer info: Acme", FallbackNoticeZH + "Buyer info: Acme", true},
		{"json array", `["a"]`, `["a"]`, FallbackNoticeZH + `["a"]`, true},
		{"null field", `{"rfq_en":null,"rfq_zh":"x"}`, `{"rfq_en":null,"rfq_zh":"x"}`, FallbackNoticeZH + `{"rfq_en":null,"rfq_zh":"x"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseResult(tt.raw)
			assert.Equal(t, tt.wantEN, result.RFQEN)
			assert.Equal(t, tt.wantZH, result.RFQZH)
			assert.Equal(t, tt.fallback, result.Fallback)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, "plain", stripCodeFence(" plain "))
}

func TestExpand_Success(t *testing.T) {
	llm := &mockLLMService{reply: `{"rfq_en":"EN RFQ","rfq_zh":"中文询盘"}`}
	service := newTestService(llm, true)

	result, err := service.Expand(context.Background(), &Request{Product: "hinges", Lang: "CN"})
	require.NoError(t, err)
	assert.Equal(t, "EN RFQ", result.RFQEN)
	assert.Equal(t, "中文询盘", result.RFQZH)

	require.NotNil(t, llm.last)
	assert.Equal(t, SystemPrompt, llm.last.System)
	assert.Equal(t, 800, llm.last.MaxTokens)
	assert.InDelta(t, 0.4, llm.last.Temperature, 0.0001)
	assert.True(t, llm.last.JSONOutput)
	assert.Equal(t, "zh", llm.last.Lang)
	require.Len(t, llm.last.Messages, 1)
	assert.Contains(t, llm.last.Messages[0].Content, "产品方向: hinges")
}

func TestExpand_Disabled(t *testing.T) {
	llm := &mockLLMService{}
	_, err := newTestService(llm, false).Expand(context.Background(), &Request{})
	assert.ErrorIs(t, err, common.ErrFeatureDisabled)
	assert.Zero(t, llm.calls)
}

func TestExpand_NotConfigured(t *testing.T) {
	llm := &mockLLMService{readyErr: &interfaces.NotConfiguredError{EnvVar: "ANTHROPIC_API_KEY"}}
	_, err := newTestService(llm, true).Expand(context.Background(), &Request{})
	assert.ErrorIs(t, err, interfaces.ErrProviderNotConfigured)
	assert.EqualError(t, err, "ANTHROPIC_API_KEY is not set on the server")
}

func TestExpand_TooLong(t *testing.T) {
	llm := &mockLLMService{}
	_, err := newTestService(llm, true).Expand(context.Background(), &Request{Notes: strings.Repeat("x", 4001)})
	assert.ErrorIs(t, err, common.ErrInvalidRequest)
	assert.Zero(t, llm.calls)
}

func TestExpand_UpstreamFailure(t *testing.T) {
	upstream := errors.New("503 overloaded")
	llm := &mockLLMService{chatErr: upstream}
	_, err := newTestService(llm, true).Expand(context.Background(), &Request{})
	assert.ErrorIs(t, err, upstream)
}
