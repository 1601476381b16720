package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/skylane/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// InquiryStorage persists contact form submissions
type InquiryStorage interface {
	SaveInquiry(ctx context.Context, inquiry *models.Inquiry) error
	GetInquiry(ctx context.Context, id string) (*models.Inquiry, error)
	// ListInquiries returns the newest inquiries first; limit <= 0 returns all
	ListInquiries(ctx context.Context, limit int) ([]models.Inquiry, error)
	CountInquiries(ctx context.Context) (int, error)
	MarkNotified(ctx context.Context, id string) error
}

// AuditStorage persists hosted model call records
type AuditStorage interface {
	RecordCall(ctx context.Context, entry *models.LLMAudit) error
	CountByOperation(ctx context.Context, operation string) (int, error)
}

// StorageManager groups the storage backends
type StorageManager interface {
	InquiryStorage() InquiryStorage
	AuditStorage() AuditStorage
	Close() error
}
