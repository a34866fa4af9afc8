package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spectux-billing/internal/config"
	"spectux-billing/internal/domain/ports/adapter"
	"spectux-billing/internal/infra/adapters/mailjet"
	"spectux-billing/internal/infra/adapters/mollie"
	"spectux-billing/internal/infra/adapters/noop"
	"spectux-billing/internal/infra/adapters/sheets"
	"spectux-billing/internal/infra/logging"
	"spectux-billing/internal/infra/metrics"
	"spectux-billing/internal/infra/web"
	"spectux-billing/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging, noop side channels)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Plan catalog ----
	catalog, err := cfg.Catalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("plan catalog")
	}
	planUC, err := usecase.NewPlanUseCase(catalog)
	if err != nil {
		logger.Fatal().Err(err).Msg("plan resolver")
	}
	logger.Info().Strs("plans", planUC.Keys()).Msg("plan catalog loaded")

	// ---- Payment provider ----
	provider, err := mollie.NewClient(cfg.Mollie.APIKey, cfg.Mollie.BaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("mollie client")
	}

	// ---- Side channels (optional) ----
	var mailer adapter.Mailer
	if cfg.Mail.PublicKey != "" && cfg.Mail.PrivateKey != "" {
		mailer, err = mailjet.NewMailer(cfg.Mail.PublicKey, cfg.Mail.PrivateKey, cfg.Mail.FromEmail, cfg.Mail.FromName, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("mailjet mailer")
		}
	} else {
		mailer = noop.NewMailer(logger)
	}

	var sheet adapter.SheetAppender
	if cfg.Sheets.ServiceEmail != "" && cfg.Sheets.PrivateKey != "" {
		sheet, err = sheets.NewAppender(cfg.Sheets.ServiceEmail, cfg.Sheets.PrivateKey, cfg.Sheets.SheetID, cfg.Sheets.Range, "", "")
		if err != nil {
			logger.Fatal().Err(err).Msg("sheets appender")
		}
	} else {
		sheet = noop.NewSheetAppender(logger)
	}

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(provider, planUC, cfg.Mollie.Currency, cfg.WebhookURL(), logger)
	provisionUC := usecase.NewProvisionUseCase(provider, planUC, cfg.Mollie.Currency, logger)
	registrationUC := usecase.NewRegistrationUseCase(mailer, sheet, cfg.Mail.Subject, logger)

	// ---- HTTP server ----
	srv := web.NewServer(checkoutUC, provisionUC, registrationUC, cfg.Server.CORSOrigin, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Str("webhook_url", cfg.WebhookURL()).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
