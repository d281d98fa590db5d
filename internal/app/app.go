package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/littlesteps/booking/internal/cache"
	"github.com/littlesteps/booking/internal/config"
	"github.com/littlesteps/booking/internal/db"
	"github.com/littlesteps/booking/internal/repository"
	"github.com/littlesteps/booking/internal/schedule"
	"github.com/littlesteps/booking/internal/service"
	"github.com/littlesteps/booking/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Cache           cache.Cache
	AuthService     *service.AuthService
	EmailService    *service.EmailService
	PricingService  *service.PricingService
	BookingService  *service.BookingService
	GDPRService     *service.GDPRService
	SettingsService *service.SettingsService
	ConsentService  *service.ConsentService
	MediaService    *service.MediaService
	LegalService    *service.LegalService
	SitemapService  *service.SitemapService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage (nil when no bucket is configured)
	mediaStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	settingsCache, err := cache.New(cfg.RedisURL, time.Minute)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	a := NewWithDB(cfg, database, settingsCache, mediaStorage)
	return a, nil
}

// NewWithDB wires services on an already migrated database.
func NewWithDB(cfg *config.Config, database *sqlx.DB, c cache.Cache, mediaStorage storage.Storage) *App {
	// Repositories
	bookingRepository := repository.NewBookingRepository(database)
	pricingRepository := repository.NewPricingRepository(database)
	settingsRepository := repository.NewSettingsRepository(database)
	consentRepository := repository.NewConsentRepository(database)
	tokenRepository := repository.NewDownloadTokenRepository(database)
	deletionRepository := repository.NewDeletionRequestRepository(database)
	adminRepository := repository.NewAdminUserRepository(database)
	mediaRepository := repository.NewMediaRepository(database)

	// Services
	emailService := service.NewEmailService(
		service.NewEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsDevelopment()),
		cfg.AppURL,
		cfg.AppName,
		cfg.AdminEmail,
	)
	pricingService := service.NewPricingService(pricingRepository)
	bookingService := service.NewBookingService(bookingRepository, pricingService, emailService)
	gdprService := service.NewGDPRService(
		tokenRepository,
		deletionRepository,
		bookingRepository,
		consentRepository,
		emailService,
		service.GDPROptions{
			ExportExpiry:   cfg.ExportTokenExpiry,
			DeletionExpiry: cfg.DeletionExpiry,
			TokenRetention: cfg.TokenRetention,
		},
	)
	legalService := service.NewLegalService(cfg.ContentPath, cfg.IsDevelopment())

	return &App{
		Cfg:             cfg,
		DB:              database,
		Cache:           c,
		AuthService:     service.NewAuthService(adminRepository, cfg.JWTSecret, cfg.JWTExpiry),
		EmailService:    emailService,
		PricingService:  pricingService,
		BookingService:  bookingService,
		GDPRService:     gdprService,
		SettingsService: service.NewSettingsService(settingsRepository, c),
		ConsentService:  service.NewConsentService(consentRepository),
		MediaService:    service.NewMediaService(mediaRepository, mediaStorage),
		LegalService:    legalService,
		SitemapService:  service.NewSitemapService(legalService, cfg.AppURL),
	}
}

// ScheduleJobs registers the housekeeping jobs.
func (a *App) ScheduleJobs(s schedule.Scheduler) error {
	jobs := []struct {
		job  schedule.Job
		spec string
	}{
		{schedule.NewFuncJob(schedule.JobCleanupDownloadTokens, func(ctx context.Context) error {
			_, err := a.GDPRService.CleanupTokens(ctx)
			return err
		}), "@hourly"},
		{schedule.NewFuncJob(schedule.JobExpireDeletionRequests, func(ctx context.Context) error {
			_, err := a.GDPRService.ExpireDeletionRequests(ctx)
			return err
		}), "*/15 * * * *"},
	}

	for _, j := range jobs {
		err := s.AddJob(j.job, j.spec)
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", j.job.Name(), err)
		}
	}
	return nil
}

func (a *App) Close() error {
	if a.Cache != nil {
		err := a.Cache.Close()
		if err != nil {
			slog.Warn("failed to close cache", "error", err)
		}
	}
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
