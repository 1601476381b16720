package llm

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/models"
)

// AuditLogger records hosted model calls
type AuditLogger interface {
	LogCall(ctx context.Context, entry *models.LLMAudit) error
}

// StorageAuditLogger writes audit entries to badger storage
type StorageAuditLogger struct {
	storage interfaces.AuditStorage
	logger  arbor.ILogger
}

// NewStorageAuditLogger creates a new storage-backed audit logger
func NewStorageAuditLogger(storage interfaces.AuditStorage, logger arbor.ILogger) *StorageAuditLogger {
	return &StorageAuditLogger{
		storage: storage,
		logger:  logger,
	}
}

// LogCall stores the entry
func (l *StorageAuditLogger) LogCall(ctx context.Context, entry *models.LLMAudit) error {
	l.logger.Debug().
		Str("operation", entry.Operation).
		Str("provider", entry.Provider).
		Bool("success", entry.Success).
		Int64("duration_ms", entry.Duration.Milliseconds()).
		Msg("Logging LLM operation")

	if err := l.storage.RecordCall(ctx, entry); err != nil {
		l.logger.Error().
			Err(err).
			Str("operation", entry.Operation).
			Msg("Failed to insert audit log entry")
		return err
	}
	return nil
}

// NullAuditLogger is a no-op implementation of AuditLogger used when auditing is disabled
type NullAuditLogger struct{}

// NewNullAuditLogger creates a new null audit logger
func NewNullAuditLogger() *NullAuditLogger {
	return &NullAuditLogger{}
}

// LogCall does nothing (no-op)
func (l *NullAuditLogger) LogCall(ctx context.Context, entry *models.LLMAudit) error {
	return nil
}
