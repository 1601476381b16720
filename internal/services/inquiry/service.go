// Package inquiry stores contact form submissions and notifies the studio.
package inquiry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/metrics"
	"github.com/ternarybob/skylane/internal/models"
)

// notifyTimeout bounds the background notification email
const notifyTimeout = 30 * time.Second

// Form is the contact form as posted by the landing pages
type Form struct {
	Name       string `validate:"required,max=100"`
	Email      string `validate:"omitempty,email,max=254"`
	Company    string `validate:"max=200"`
	Message    string `validate:"max=4000"`
	Lang       string
	RemoteAddr string
}

// Notifier delivers new inquiry notifications
type Notifier interface {
	IsConfigured() bool
	NotifyInquiry(ctx context.Context, inquiry *models.Inquiry) error
}

// Service handles contact form submissions
type Service struct {
	storage  interfaces.InquiryStorage
	notifier Notifier
	metrics  *metrics.Metrics
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService creates a new inquiry service. notifier and m may be nil.
func NewService(storage interfaces.InquiryStorage, notifier Notifier, m *metrics.Metrics, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage,
		notifier: notifier,
		metrics:  m,
		validate: validator.New(),
		logger:   logger,
	}
}

// Submit validates and stores the form, then sends the notification email
// in the background when mail is configured.
func (s *Service) Submit(ctx context.Context, form *Form) (*models.Inquiry, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Company = strings.TrimSpace(form.Company)
	form.Message = strings.TrimSpace(form.Message)

	lang := i18n.Resolve(form.Lang, i18n.EN)

	if err := s.validate.Struct(form); err != nil {
		s.metrics.RecordInquiry(lang.String(), false)
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}

	inquiry := &models.Inquiry{
		ID:         "inq_" + uuid.New().String(),
		Name:       form.Name,
		Email:      form.Email,
		Company:    form.Company,
		Message:    form.Message,
		Lang:       lang.String(),
		RemoteAddr: form.RemoteAddr,
		CreatedAt:  time.Now(),
	}

	if err := s.storage.SaveInquiry(ctx, inquiry); err != nil {
		s.metrics.RecordInquiry(lang.String(), false)
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}
	s.metrics.RecordInquiry(lang.String(), true)

	s.logger.Info().
		Str("inquiry_id", inquiry.ID).
		Str("lang", inquiry.Lang).
		Bool("has_email", inquiry.Email != "").
		Msg("Inquiry received")

	if s.notifier != nil && s.notifier.IsConfigured() {
		saved := *inquiry
		common.SafeGo(s.logger, "notifyInquiry", func() {
			s.notify(&saved)
		})
	}

	return inquiry, nil
}

func (s *Service) notify(inquiry *models.Inquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyInquiry(ctx, inquiry); err != nil {
		s.logger.Warn().Err(err).Str("inquiry_id", inquiry.ID).Msg("Inquiry notification failed")
		return
	}
	if err := s.storage.MarkNotified(ctx, inquiry.ID); err != nil {
		s.logger.Warn().Err(err).Str("inquiry_id", inquiry.ID).Msg("Failed to mark inquiry notified")
	}
}

// Recent returns the newest n inquiries for the dashboard
func (s *Service) Recent(ctx context.Context, n int) ([]models.Inquiry, error) {
	if n <= 0 {
		return nil, nil
	}
	inquiries, err := s.storage.ListInquiries(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

// Total counts every stored inquiry
func (s *Service) Total(ctx context.Context) (int, error) {
	n, err := s.storage.CountInquiries(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count inquiries: %w", err)
	}
	return n, nil
}

// ThanksMessage is the success flash shown after submitting the form
func ThanksMessage(lang i18n.Lang, name string) string {
	if lang == i18n.ZH {
		return fmt.Sprintf("谢谢 %s！您的需求已经发送，我会在24小时内回复。", name)
	}
	return fmt.Sprintf("Thanks %s! Your inquiry has been sent. I will reply within 24 hours.", name)
}
