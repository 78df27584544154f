package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/playerctl/internal/controller"
	"github.com/sharetube/playerctl/internal/repository/frame/inmemory"
	"github.com/sharetube/playerctl/internal/repository/session/redis"
	"github.com/sharetube/playerctl/internal/service/session"
	"github.com/sharetube/playerctl/pkg/ctxlogger"
	"github.com/sharetube/playerctl/pkg/msgchannel"
	"github.com/sharetube/playerctl/pkg/redisclient"
	"github.com/sharetube/playerctl/pkg/ytembed"
)

type AppConfig struct {
	Host              string        `json:"host"`
	Port              int           `json:"port"`
	LogLevel          string        `json:"log_level"`
	RedisPort         int           `json:"redis_port"`
	RedisHost         string        `json:"redis_host"`
	RedisPassword     string        `json:"-"`
	AllowedOrigins    []string      `json:"allowed_origins"`
	BridgeOrigins     []string      `json:"bridge_origins"`
	ControlOrigins    []string      `json:"control_origins"`
	PollInterval      time.Duration `json:"poll_interval"`
	SkipOffset        float64       `json:"skip_offset"`
	DurationThreshold float64       `json:"duration_threshold"`
	SessionTTL        time.Duration `json:"session_ttl"`
}

func (cfg *AppConfig) Validate() error {
	if len(cfg.AllowedOrigins) == 0 {
		return errors.New("at least one allowed origin is required")
	}
	if cfg.PollInterval <= 0 {
		return errors.New("poll interval must be greater than 0")
	}
	if cfg.SkipOffset <= 0 {
		return errors.New("skip offset must be greater than 0")
	}
	if cfg.DurationThreshold <= 0 {
		return errors.New("duration threshold must be greater than 0")
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("session ttl must be greater than 0")
	}
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	bus := msgchannel.NewBus(cfg.AllowedOrigins, logger)
	sessionService := session.NewService(bus,
		redis.NewRepo(rc, cfg.SessionTTL, logger),
		inmemory.NewRepo(logger),
		&session.Config{
			PollInterval:      cfg.PollInterval,
			SkipOffset:        cfg.SkipOffset,
			DurationThreshold: cfg.DurationThreshold,
		},
		logger,
	)
	ctrl := controller.NewController(sessionService, bus, ytembed.NewFetcher(), &controller.Config{
		BridgeOrigins:  cfg.BridgeOrigins,
		ControlOrigins: cfg.ControlOrigins,
	}, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: ctrl.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer serverStopCtx()

	shutdownErr := make(chan error, 1)
	go func() {
		<-serverCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// hijacked websocket connections are not tracked by Shutdown
		sessionService.Close(shutdownCtx)
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	logger.InfoContext(ctx, "server stopped")

	return nil
}
