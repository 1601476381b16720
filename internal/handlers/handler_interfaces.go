package handlers

import (
	"context"

	"github.com/ternarybob/skylane/internal/models"
	"github.com/ternarybob/skylane/internal/services/assistant"
	"github.com/ternarybob/skylane/internal/services/inquiry"
	"github.com/ternarybob/skylane/internal/services/rfq"
)

// RFQExpander defines the interface for the Smart RFQ service.
type RFQExpander interface {
	Expand(ctx context.Context, req *rfq.Request) (*rfq.Result, error)
}

// ChatResponder defines the interface for the sales chat service.
type ChatResponder interface {
	Reply(ctx context.Context, req *assistant.Request) (*assistant.Reply, error)
}

// InquirySubmitter defines the interface for storing contact form submissions.
type InquirySubmitter interface {
	Submit(ctx context.Context, form *inquiry.Form) (*models.Inquiry, error)
}

// InquiryReader defines the read side used by the dashboard.
type InquiryReader interface {
	Recent(ctx context.Context, n int) ([]models.Inquiry, error)
	Total(ctx context.Context) (int, error)
}

// UsageCounter counts recorded hosted model calls per operation.
type UsageCounter interface {
	CountByOperation(ctx context.Context, operation string) (int, error)
}
