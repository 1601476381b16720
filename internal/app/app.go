package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/catalog"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/handlers"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/metrics"
	"github.com/ternarybob/skylane/internal/services/assistant"
	"github.com/ternarybob/skylane/internal/services/inquiry"
	"github.com/ternarybob/skylane/internal/services/llm"
	"github.com/ternarybob/skylane/internal/services/mailer"
	"github.com/ternarybob/skylane/internal/services/rfq"
	"github.com/ternarybob/skylane/internal/storage/badger"
	"github.com/ternarybob/skylane/pages"
)

// App holds all application components and dependencies
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Metrics *metrics.Metrics
	Catalog *catalog.Catalog

	// Storage
	StorageManager interfaces.StorageManager

	// Services
	LLMService       *llm.ProviderFactory
	RFQService       *rfq.Service
	AssistantService *assistant.Service
	InquiryService   *inquiry.Service
	MailerService    *mailer.Service

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	ContactHandler *handlers.ContactHandler
	RFQHandler     *handlers.RFQHandler
	ChatHandler    *handlers.ChatHandler
	ContentHandler *handlers.ContentHandler
	APIHandler     *handlers.APIHandler

	// TrustedProxies may set X-Forwarded-For; nil trusts nobody
	TrustedProxies *handlers.TrustedProxies
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	cat, err := catalog.Load(cfg.Site.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	app.Catalog = cat
	app.Logger.Debug().
		Int("projects", len(cat.Projects)).
		Int("packages", len(cat.Packages)).
		Str("source", catalogSource(cfg.Site.CatalogFile)).
		Msg("Catalog loaded")

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.initServices()

	if err := app.initHandlers(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	app.Logger.Info().
		Str("llm_provider", app.LLMService.ProviderName()).
		Bool("smart_rfq", cfg.Site.EnableSmartRFQ).
		Bool("ai_chat", cfg.Site.EnableAIChat).
		Bool("mail", app.MailerService.IsConfigured()).
		Msg("Application initialized")

	if err := app.LLMService.Ready(); err != nil {
		app.Logger.Warn().Err(err).Msg("AI endpoints will return errors until the provider key is set")
	}

	return app, nil
}

func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices wires the services in dependency order:
// LLM gateway (audited to storage), then the RFQ and chat services on top of it,
// then the mailer and the inquiry service that notifies through it.
func (a *App) initServices() {
	a.LLMService = llm.NewProviderFactory(
		a.Config,
		a.Logger,
		llm.WithMetrics(a.Metrics),
		llm.WithAuditLogger(llm.NewStorageAuditLogger(a.StorageManager.AuditStorage(), a.Logger)),
		llm.WithRetryConfig(llm.NewDefaultRetryConfig(a.Config.LLM.MaxRetries)),
	)

	a.RFQService = rfq.NewService(a.LLMService, &a.Config.Site, &a.Config.RFQ, a.Logger)
	a.AssistantService = assistant.NewService(a.LLMService, &a.Config.Site, &a.Config.Assistant, a.Catalog, a.Logger)

	a.MailerService = mailer.NewService(&a.Config.Mail, a.Logger)
	a.InquiryService = inquiry.NewService(a.StorageManager.InquiryStorage(), a.MailerService, a.Metrics, a.Logger)
}

func (a *App) initHandlers() error {
	flash := handlers.NewFlashStore(a.Config.Site.SecretKey, a.Config.IsProduction())

	proxies, err := handlers.ParseTrustedProxies(a.Config.RateLimit.TrustedProxies)
	if err != nil {
		return fmt.Errorf("rate_limit.trusted_proxies: %w", err)
	}
	a.TrustedProxies = proxies
	inquiries := a.InquiryService
	usage := a.StorageManager.AuditStorage()

	pageHandler, err := handlers.NewPageHandler(
		pages.Templates(),
		&a.Config.Site,
		a.Catalog,
		flash,
		inquiries,
		usage,
		a.Logger,
	)
	if err != nil {
		return err
	}
	a.PageHandler = pageHandler

	a.ContactHandler = handlers.NewContactHandler(a.InquiryService, flash, proxies, a.Logger)
	a.RFQHandler = handlers.NewRFQHandler(a.RFQService, a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.AssistantService, a.Logger)
	a.ContentHandler = handlers.NewContentHandler(a.Catalog, inquiries, usage, a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.Logger, a.LLMService.Ready)

	return nil
}

// Close releases the LLM clients and the database
func (a *App) Close() error {
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		} else {
			a.Logger.Info().Msg("LLM service closed")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}

func catalogSource(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
