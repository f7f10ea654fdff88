package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"officehours/internal/config"
	"officehours/internal/controller/httpapi"
	"officehours/internal/repository"
	"officehours/internal/service"
)

// App wires the pool, repositories, services and the HTTP server.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	server *http.Server
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("Migrations applied")

	slotRepo := repository.NewSlotPostgresRepository(pool)
	apptRepo := repository.NewAppointmentPostgresRepository(pool)
	userRepo := repository.NewUserPostgresRepository(pool)
	txManager := repository.NewPgxTxManager(pool)

	userService := service.NewUserService(userRepo, logger)
	availabilityService := service.NewAvailabilityService(slotRepo, apptRepo, userRepo, logger)
	appointmentService := service.NewAppointmentService(txManager, slotRepo, apptRepo, userRepo, logger)

	handler := httpapi.NewHandler(
		userService,
		availabilityService,
		appointmentService,
		[]byte(cfg.JWTSecret),
		logger,
	)
	router := httpapi.NewRouter(handler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           cors.AllowAll().Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		server: server,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.cfg.HTTPAddr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.pool.Close()
	return nil
}
