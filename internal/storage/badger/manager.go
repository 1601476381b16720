package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db      *BadgerDB
	inquiry interfaces.InquiryStorage
	audit   interfaces.AuditStorage
	logger  arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:      db,
		inquiry: NewInquiryStorage(db, logger),
		audit:   NewAuditStorage(db, logger),
		logger:  logger,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// InquiryStorage returns the Inquiry storage interface
func (m *Manager) InquiryStorage() interfaces.InquiryStorage {
	return m.inquiry
}

// AuditStorage returns the LLM audit storage interface
func (m *Manager) AuditStorage() interfaces.AuditStorage {
	return m.audit
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing Badger storage manager")
	return m.db.Close()
}
