package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyberguard-quiz-service/internal/app"
	"cyberguard-quiz-service/internal/config"
	"cyberguard-quiz-service/internal/content"
	"cyberguard-quiz-service/internal/domain"
	"cyberguard-quiz-service/internal/infra/memory"
	"cyberguard-quiz-service/internal/infra/postgres"
	redisstore "cyberguard-quiz-service/internal/infra/redis"
	transport "cyberguard-quiz-service/internal/transport/http"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// sessionStore is implemented by both identity stores.
type sessionStore interface {
	app.IdentityProvider
	Issue(ctx context.Context, identity domain.Identity, ttl time.Duration) (string, error)
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	backend, closeBackend, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	attemptTTL := config.TTLDuration(cfg.Attempt.TTL, 2*time.Hour)
	sessionTTL := config.TTLDuration(cfg.Auth.SessionTTL, defaultSessionTTL)

	var (
		attempts app.AttemptStore
		sessions sessionStore
	)
	if redisClient != nil {
		backend.Quizzes = redisstore.NewCatalogCache(redisClient, backend.Quizzes, quizTTL)
		attempts = redisstore.NewAttemptStore(redisClient, attemptTTL)
		sessions = redisstore.NewIdentityStore(redisClient)
	} else {
		backend.Quizzes = memory.NewCatalogCache(backend.Quizzes, quizTTL)
		attempts = memory.NewAttemptStore()
		sessions = memory.NewIdentityStore()
	}
	backend.Identity = sessions

	if cfg.Auth.DevEmail != "" {
		if err := issueDevSession(ctx, sessions, cfg.Auth.DevEmail, sessionTTL, finalPort, log); err != nil {
			return err
		}
	}

	service := app.NewQuizService(backend, attempts, log)
	handler, err := transport.NewHandler(backend, service, transport.CookieSettings{
		Name:   cfg.CookieName(),
		Secure: cfg.Auth.SecureCookie,
		MaxAge: sessionTTL,
	}, log)
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	go func() {
		log.Info("starting cyberguard", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildBackend wires Postgres when configured and falls back to an in-memory
// store filled from the content file.
func buildBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (app.Backend, func(), error) {
	if cfg.Postgres.URL != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns)
		if err != nil {
			return app.Backend{}, nil, err
		}
		store := postgres.NewStore(pool, log)
		return app.Backend{Quizzes: store, Profiles: store, Scores: store, Tips: store}, pool.Close, nil
	}

	var c content.Content
	if cfg.Content.Path != "" {
		loaded, err := content.Load(cfg.Content.Path)
		if err != nil {
			return app.Backend{}, nil, fmt.Errorf("load content: %w", err)
		}
		c = loaded
	}
	log.Warn("postgres not configured, using in-memory store", zap.Int("quizzes", len(c.Quizzes)))
	store := memory.NewStore(c)
	return app.Backend{Quizzes: store, Profiles: store, Scores: store, Tips: store}, func() {}, nil
}

// issueDevSession signs in a fixed local user so the app is usable without
// an email provider.
func issueDevSession(ctx context.Context, sessions sessionStore, email string, ttl time.Duration, port string, log *zap.Logger) error {
	who := domain.Identity{
		UserID: uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Email:  email,
	}
	token, err := sessions.Issue(ctx, who, ttl)
	if err != nil {
		return fmt.Errorf("issue dev session: %w", err)
	}
	log.Info("dev session issued",
		zap.String("email", email),
		zap.String("link", "http://localhost:"+port+"/auth/callback?token="+token),
	)
	return nil
}
