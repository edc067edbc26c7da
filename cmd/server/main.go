package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/database"
	"github.com/iliyamo/camp-registration/internal/handler"
	"github.com/iliyamo/camp-registration/internal/middleware"
	"github.com/iliyamo/camp-registration/internal/payment"
	"github.com/iliyamo/camp-registration/internal/queue"
	"github.com/iliyamo/camp-registration/internal/router"
	"github.com/iliyamo/camp-registration/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional outside local runs

	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := config.NewLogger(cfg.Env)

	payCfg, err := config.LoadPaymentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load payment config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("open store")
	}
	log.Info().Str("driver", cfg.Driver).Msg("store connected")

	rdb := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if rdb == nil {
		log.Warn().Msg("redis unavailable; cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()

	organizers := service.NewOrganizers(cfg.OrganizerEmails...)
	if len(organizers) == 0 {
		log.Warn().Msg("ORGANIZER_EMAILS not set; no account can manage camps")
	}
	counter := service.NewCounter(store.Camps)
	ledgerOpts := []service.LedgerOption{
		service.WithCountOnRegister(cfg.CountOnRegister),
		service.WithLedgerLogger(log.With().Str("component", "ledger").Logger()),
	}
	if cfg.RabbitURL != "" {
		ledgerOpts = append(ledgerOpts, service.WithEvents(queue.NewPublisher(cfg.RabbitURL, log)))
	}
	ledger := service.NewLedger(store.Participants, store.Camps, counter, ledgerOpts...)
	bridge := service.NewPaymentBridge(store.Camps, payment.NewStripeProcessor(payCfg.StripeSecretKey, payCfg.Timeout), payCfg.Currency)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = middleware.NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(log)
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(middleware.Identify(cfg.JWTSecret))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log))
	e.Use(middleware.PurgeCacheOnWrite(cacheCfg, rdb, log))

	router.RegisterAll(e, router.Handlers{
		Users:        handler.NewUserHandler(service.NewUsers(store.Users, organizers)),
		Tokens:       handler.NewTokenHandler(service.NewTokens(store.Users, organizers, cfg.JWTSecret, cfg.AccessTTLMin)),
		Camps:        handler.NewCampHandler(service.NewCamps(store.Camps), counter),
		Participants: handler.NewParticipantHandler(ledger),
		Payments:     handler.NewPaymentHandler(bridge),
		Feedback:     handler.NewFeedbackHandler(service.NewFeedback(store.Feedback, store.Camps)),
	}, cfg.JWTSecret, middleware.NewRedisCache(cacheCfg, rdb, log))

	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartPaymentConsumer(ctx, cfg.RabbitURL, ledger.HandlePayment, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("payment consumer stopped")
			}
		}()
	} else {
		log.Info().Msg("RABBITMQ_URL not set; events disabled")
	}

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}
