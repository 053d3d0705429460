package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/crocante/carousel"
	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/cep"
	"github.com/danielhkuo/crocante/checkout"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/db"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/reviews"
	"github.com/danielhkuo/crocante/router"
	"github.com/danielhkuo/crocante/session"
	"github.com/danielhkuo/crocante/storage"
)

const (
	sweepEvery      = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect and create schema
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		slog.Error("storage setup failed", "error", err)
		os.Exit(1)
	}

	menu := catalog.Default()
	if cfg.CatalogPath != "" {
		if menu, err = catalog.Load(cfg.CatalogPath); err != nil {
			slog.Error("catalog load failed", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	catalogs := catalog.NewStore(menu)

	manager := session.NewManager(store, catalogs,
		session.WithTTL(cfg.SessionTTL),
		session.WithCarouselOptions(
			carousel.WithInterval(cfg.CarouselInterval),
			carousel.WithResumeDelay(cfg.CarouselResumeDelay),
		),
		session.WithReviewOptions(reviews.WithInterval(cfg.ReviewInterval)),
	)
	defer manager.Close()

	var dispatcher checkout.Dispatcher
	switch cfg.CheckoutMode {
	case models.CheckoutAPI:
		dispatcher = checkout.NewAPIDispatcher(cfg.OrderAPIURL)
	case models.CheckoutWhatsApp:
		dispatcher = checkout.NewWhatsAppDispatcher(cfg.WhatsAppPhone)
	default:
		dispatcher = checkout.NewStoreDispatcher(db.NewOrderRepo(dbConn), cfg.SessionSalt)
	}
	slog.Info("checkout ready", "mode", cfg.CheckoutMode)

	mux := router.NewRouter(dbConn, cfg, router.Services{
		Catalogs: catalogs,
		Sessions: manager,
		CEP:      cep.NewClient(cfg.CEPBaseURL),
		Checkout: checkout.NewService(dispatcher),
	})

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return manager.Run(ctx, sweepEvery)
	})

	if cfg.CatalogPath != "" {
		g.Go(func() error {
			return catalogs.Watch(ctx, cfg.CatalogPath, manager.Reload)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}
