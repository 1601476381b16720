package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// InquiryStorage implements the InquiryStorage interface for Badger
type InquiryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewInquiryStorage creates a new InquiryStorage instance
func NewInquiryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.InquiryStorage {
	return &InquiryStorage{
		db:     db,
		logger: logger,
	}
}

// SaveInquiry inserts or replaces an inquiry by ID
func (s *InquiryStorage) SaveInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID == "" {
		return fmt.Errorf("inquiry ID is required")
	}
	if err := s.db.Store().Upsert(inquiry.ID, inquiry); err != nil {
		return fmt.Errorf("failed to save inquiry: %w", err)
	}
	return nil
}

// GetInquiry retrieves an inquiry by ID
func (s *InquiryStorage) GetInquiry(ctx context.Context, id string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Store().Get(id, &inquiry)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return &inquiry, nil
}

// ListInquiries returns inquiries ordered by created_at DESC
func (s *InquiryStorage) ListInquiries(ctx context.Context, limit int) ([]models.Inquiry, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var inquiries []models.Inquiry
	if err := s.db.Store().Find(&inquiries, query); err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

// CountInquiries returns the number of stored inquiries
func (s *InquiryStorage) CountInquiries(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Inquiry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count inquiries: %w", err)
	}
	return int(count), nil
}

// MarkNotified flags the inquiry as delivered by email
func (s *InquiryStorage) MarkNotified(ctx context.Context, id string) error {
	inquiry, err := s.GetInquiry(ctx, id)
	if err != nil {
		return err
	}
	inquiry.Notified = true
	if err := s.db.Store().Update(id, inquiry); err != nil {
		return fmt.Errorf("failed to mark inquiry notified: %w", err)
	}
	return nil
}
