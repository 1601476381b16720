// Package rfq expands a buyer's rough notes into a structured bilingual
// request for quotation using the configured hosted model.
package rfq

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/i18n"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/models"
)

// Request is the Smart RFQ form. Every field is optional.
type Request struct {
	Company        string `json:"company" validate:"max=2000"`
	BuyerName      string `json:"buyer_name" validate:"max=2000"`
	Email          string `json:"email" validate:"max=2000"`
	Country        string `json:"country" validate:"max=2000"`
	Product        string `json:"product" validate:"max=2000"`
	Quantity       string `json:"quantity" validate:"max=2000"`
	Incoterm       string `json:"incoterm" validate:"max=2000"`
	TargetPort     string `json:"target_port" validate:"max=2000"`
	QualityLevel   string `json:"quality_level" validate:"max=2000"`
	Certifications string `json:"certifications" validate:"max=2000"`
	Packaging      string `json:"packaging" validate:"max=2000"`
	Notes          string `json:"notes" validate:"max=4000"`
	Lang           string `json:"lang"`
}

// Service generates RFQs
type Service struct {
	llm      interfaces.LLMService
	site     *common.SiteConfig
	config   *common.RFQConfig
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService creates a new RFQ service
func NewService(llm interfaces.LLMService, site *common.SiteConfig, config *common.RFQConfig, logger arbor.ILogger) *Service {
	return &Service{
		llm:      llm,
		site:     site,
		config:   config,
		validate: validator.New(),
		logger:   logger,
	}
}

// Expand turns the request into an English and a Chinese RFQ.
//
// Errors: common.ErrFeatureDisabled when smart RFQ is off,
// interfaces.ErrProviderNotConfigured when no API key is set,
// common.ErrInvalidRequest when a field is too long; anything else is an
// upstream failure.
func (s *Service) Expand(ctx context.Context, req *Request) (*Result, error) {
	if !s.site.EnableSmartRFQ {
		return nil, common.ErrFeatureDisabled
	}
	if err := s.llm.Ready(); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}

	lang := i18n.Resolve(req.Lang, i18n.EN)
	start := time.Now()

	resp, err := s.llm.Chat(ctx, &interfaces.ChatRequest{
		System: SystemPrompt,
		Messages: []interfaces.Message{
			{Role: interfaces.RoleUser, Content: BuildPrompt(req, lang)},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
		JSONOutput:  true,
		Operation:   models.OperationSmartRFQ,
		Lang:        lang.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("smart rfq generation failed: %w", err)
	}

	result := ParseResult(resp.Text)

	s.logger.Info().
		Str("lang", lang.String()).
		Str("provider", resp.Provider).
		Bool("fallback", result.Fallback).
		Dur("duration", time.Since(start)).
		Msg("Smart RFQ generated")

	return result, nil
}
