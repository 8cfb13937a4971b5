package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/avelys/salonops/internal/config"
	"github.com/avelys/salonops/internal/database"
	"github.com/avelys/salonops/internal/handler"
	"github.com/avelys/salonops/internal/logger"
	"github.com/avelys/salonops/internal/queue"
	"github.com/avelys/salonops/internal/repository"
	"github.com/avelys/salonops/internal/router"
	"github.com/avelys/salonops/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("run migrations", zap.Error(err))
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and response cache disabled")
	}

	bookingRepo := repository.NewBookingRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	var notifier service.Notifier
	if cfg.AMQPURL != "" {
		pub, err := queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Warn("notification queue unavailable", zap.Error(err))
		} else {
			defer pub.Close()
			notifier = pub
			go queue.StartNotificationConsumer(cfg.AMQPURL, cfg.SMSOutboxPath, log.Named("sms-worker"))
		}
	}

	bookingSvc := service.NewBookingService(bookingRepo, customerRepo, notifier, log.Named("booking"))
	paymentSvc := service.NewPaymentService(paymentRepo, log.Named("payment"))

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Bookings:  handler.NewBookingHandler(bookingSvc, paymentSvc),
		Payments:  handler.NewPaymentHandler(paymentSvc),
		Customers: handler.NewCustomerHandler(customerRepo),
		Reports:   handler.NewReportHandler(reportRepo),
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
	})

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
