package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/config"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/catalog"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/conversation"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/directory"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/orders"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/reviews"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(ctx, db.Options{
		DSN:          cfg.DBDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Debug:        strings.EqualFold(cfg.LogLevel, "debug"),
	}, log)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		return err
	}
	st := store.New(gdb)

	hub := realtime.NewHub(log)
	var publisher conversation.Publisher = hub
	var relay *realtime.Relay
	if cfg.RedisAddr != "" {
		rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		log.Info("redis relay enabled", zap.String("addr", cfg.RedisAddr))
		publisher = realtime.NewRedisPublisher(rdb)
		relay = realtime.NewRelay(rdb, hub, log)
	}

	users := directory.NewDirectoryService(st, log)
	cat := catalog.NewCatalogService(st, log)
	ords := orders.NewOrderService(st, log)
	convo := conversation.NewConversationService(st, users, publisher, hub, log)
	revs := reviews.NewReviewService(st, log)

	authH := &handlers.AuthHandler{
		Users:        users,
		JWTSecret:    cfg.JWTSecret,
		Expires:      cfg.JWTExpiresMin,
		SecureCookie: strings.HasPrefix(cfg.FrontendBaseURL, "https://"),
	}
	h := handlers.Handlers{
		Auth:       authH,
		Users:      &handlers.UserHandler{Users: users},
		Categories: handlers.NewCategoryHandler(cat),
		Gigs:       handlers.NewGigHandler(cat),
		Orders:     &handlers.OrderHandler{Orders: ords, Catalog: cat},
		Messages:   &handlers.MessageHandler{Conversations: convo},
		Reviews:    &handlers.ReviewHandler{Reviews: revs},
		WS:         &handlers.WSHandler{Orders: ords, Conversations: convo, Log: log},
		Health:     &handlers.HealthHandler{Store: st},
	}
	if cfg.GoogleEnabled() {
		h.Google = &handlers.GoogleOAuthHandler{
			Users:           users,
			Session:         authH,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
			Log:             log,
		}
	}

	app := fiber.New(fiber.Config{
		AppName:               "gigmarket",
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length, Retry-After",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	handlers.SetupRoutes(app, h, cfg.JWTSecret)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return hub.Run(ctx) })
	if relay != nil {
		g.Go(func() error { return relay.Run(ctx) })
	}

	g.Go(func() error {
		log.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
