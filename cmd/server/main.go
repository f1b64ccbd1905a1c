package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/bookmyshow/internal/config"
	"github.com/iliyamo/bookmyshow/internal/controller"
	"github.com/iliyamo/bookmyshow/internal/database"
	"github.com/iliyamo/bookmyshow/internal/handler"
	"github.com/iliyamo/bookmyshow/internal/logging"
	"github.com/iliyamo/bookmyshow/internal/middleware"
	"github.com/iliyamo/bookmyshow/internal/payment"
	"github.com/iliyamo/bookmyshow/internal/queue"
	"github.com/iliyamo/bookmyshow/internal/repository"
	queue_publisher "github.com/iliyamo/bookmyshow/internal/service"
	"github.com/iliyamo/bookmyshow/internal/router"
	"github.com/iliyamo/bookmyshow/internal/session"
	"github.com/iliyamo/bookmyshow/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.L().Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.L()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	hasher := utils.NewHasher(cfg.BcryptCost)
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.InitSchema(initCtx, db, hasher)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	var sessions session.Store
	if rdb != nil {
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL, "session")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions stored in redis")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		log.Warn().Msg("redis unavailable; sessions kept in memory and rate limiting off")
	}

	deps := controller.Deps{
		Users:     repository.NewUserRepo(db, hasher),
		Movies:    repository.NewMovieRepo(db),
		Shows:     repository.NewShowRepo(db),
		Bookings:  repository.NewBookingRepo(db),
		Passwords: hasher,
		Payments:  payment.NewStub(),
	}
	if cfg.RabbitMQURL != "" {
		deps.Events = queue_publisher.New(cfg.RabbitMQURL)
	}
	h := handler.NewHandler(cfg, controller.New(deps), sessions)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger())
	router.RegisterRoutes(e, db)
	router.RegisterPages(e, h, cfg.RateLimit, rdb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.RabbitMQURL != "" {
		g.Go(func() error {
			err := queue.StartBookingConsumer(ctx, cfg.RabbitMQURL, cfg.LogDir)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
