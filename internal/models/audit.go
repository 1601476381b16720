package models

import "time"

// LLM operations recorded in the audit log
const (
	OperationSmartRFQ = "smart_rfq"
	OperationAIChat   = "ai_chat"
)

// LLMAudit records one hosted model call. Prompt and reply text are never stored.
type LLMAudit struct {
	ID        string        `json:"id"` // llm_{uuid}
	Operation string        `json:"operation"`
	Provider  string        `json:"provider"`
	Model     string        `json:"model"`
	Lang      string        `json:"lang"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}
