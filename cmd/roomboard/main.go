package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/roomboard/internal/application"
	"github.com/example/roomboard/internal/config"
	httptransport "github.com/example/roomboard/internal/http"
	"github.com/example/roomboard/internal/logging"
	"github.com/example/roomboard/internal/persistence/sqlite"
)

func main() {
	bootstrap := logging.New(os.Stdout, logging.FormatJSON, "info")

	if err := config.LoadDotEnv(); err != nil {
		bootstrap.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, logging.FormatJSON, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLitePath), logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	applied, err := storage.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("database ready", "path", cfg.SQLitePath, "migrations_applied", applied)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(storage, cfg, time.Now, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("roomboard API listening", "addr", server.Addr, "prefix", cfg.APIPrefix)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newHandler wires storage, services and handlers into the API handler.
func newHandler(storage *sqlite.Storage, cfg config.Config, now func() time.Time, logger *slog.Logger) http.Handler {
	authService := application.NewAuthServiceWithLogger(
		newUserRepositoryAdapter(storage.Users),
		newSessionRepositoryAdapter(storage.Sessions),
		application.AuthServiceOptions{
			TokenGenerator: uuid.NewString,
			Now:            now,
			SessionTTL:     cfg.SessionTTL,
		},
		logger,
	)
	roomPostService := application.NewRoomPostServiceWithLogger(newRoomPostRepositoryAdapter(storage.RoomPosts), now, logger)
	roomRequestService := application.NewRoomRequestServiceWithLogger(newRoomRequestRepositoryAdapter(storage.RoomRequests), now, logger)
	bookingService := application.NewBookingServiceWithLogger(newBookedRoomRepositoryAdapter(storage.BookedRooms), now, logger)
	dashboardService := application.NewDashboardServiceWithLogger(newDashboardRepositoryAdapter(storage.Dashboard), now, logger)

	middleware := []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)}
	if len(cfg.AllowedOrigins) > 0 {
		middleware = append(middleware, httptransport.CORS(cfg.AllowedOrigins))
	}

	return httptransport.NewRouter(httptransport.RouterConfig{
		Prefix:     cfg.APIPrefix,
		Auth:       httptransport.NewAuthHandler(authService, cfg.SecureCookies, logger),
		RoomPosts:  httptransport.NewRoomPostHandler(roomPostService, logger),
		Requests:   httptransport.NewRoomRequestHandler(roomRequestService, logger),
		Bookings:   httptransport.NewBookedRoomHandler(bookingService, logger),
		Dashboard:  httptransport.NewDashboardHandler(dashboardService, logger),
		Sessions:   authService,
		Logger:     logger,
		Middleware: middleware,
	})
}
