package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AuditStorage implements the AuditStorage interface for Badger
type AuditStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAuditStorage creates a new AuditStorage instance
func NewAuditStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AuditStorage {
	return &AuditStorage{
		db:     db,
		logger: logger,
	}
}

// RecordCall stores one hosted model call
func (s *AuditStorage) RecordCall(ctx context.Context, entry *models.LLMAudit) error {
	if entry.ID == "" {
		return fmt.Errorf("audit entry ID is required")
	}
	if err := s.db.Store().Insert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to record llm call: %w", err)
	}
	return nil
}

// CountByOperation counts recorded calls for one operation
func (s *AuditStorage) CountByOperation(ctx context.Context, operation string) (int, error) {
	count, err := s.db.Store().Count(&models.LLMAudit{}, badgerhold.Where("Operation").Eq(operation))
	if err != nil {
		return 0, fmt.Errorf("failed to count llm calls: %w", err)
	}
	return int(count), nil
}
