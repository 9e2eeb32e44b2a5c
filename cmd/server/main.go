package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/newsletter-api/internal/api"
	"github.com/ignite/newsletter-api/internal/auth"
	"github.com/ignite/newsletter-api/internal/config"
	"github.com/ignite/newsletter-api/internal/pkg/awsconf"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
	"github.com/ignite/newsletter-api/internal/render"
	"github.com/ignite/newsletter-api/internal/repository/memory"
	"github.com/ignite/newsletter-api/internal/repository/postgres"
	"github.com/ignite/newsletter-api/internal/sender"
	"github.com/ignite/newsletter-api/internal/service/email"
	"github.com/ignite/newsletter-api/internal/service/field"
	"github.com/ignite/newsletter-api/internal/service/sendtest"
	"github.com/ignite/newsletter-api/internal/service/template"
	"github.com/ignite/newsletter-api/internal/service/user"
	"github.com/ignite/newsletter-api/internal/storage"
)

func main() {
	configPath := "config/config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}
	logger.SetRedactPII(cfg.Log.Redact())
	if cfg.Auth.TokenSecret == "" {
		logger.Error("TOKEN_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

type repositories struct {
	emails    email.Repository
	templates template.Repository
	fields    field.Repository
	users     user.Repository
}

func run(ctx context.Context, cfg *config.Config) error {
	var db *sql.DB
	var repos repositories
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()
		repos = repositories{
			emails:    postgres.NewEmailRepo(db),
			templates: postgres.NewTemplateRepo(db),
			fields:    postgres.NewFieldRepo(db),
			users:     postgres.NewUserRepo(db),
		}
		logger.Info("using postgres repositories")
	} else {
		repos = repositories{
			emails:    memory.NewEmailRepo(),
			templates: memory.NewTemplateRepo(),
			fields:    memory.NewFieldRepo(),
			users:     memory.NewUserRepo(),
		}
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	files := storage.NewFileSource(cfg.Storage.TemplatesRoot)
	var sources template.SourceCache = storage.Uncached{SourceReader: files}
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		rc, err := storage.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, template sources uncached", "error", err)
		} else {
			redisClient = rc
			defer redisClient.Close()
			sources = storage.NewCachedSource(redisClient, files, cfg.Redis.TemplateCacheTTL())
			logger.Info("template source cache enabled", "ttl", cfg.Redis.TemplateCacheTTL().String())
		}
	}

	var images *storage.ImageStore
	var s3Client *s3.Client
	if cfg.Storage.S3Bucket != "" {
		awsCfg, err := awsconf.Load(ctx, cfg.Storage.AWSRegion, cfg.Storage.AWSAccessKey, cfg.Storage.AWSSecretKey)
		if err != nil {
			return fmt.Errorf("aws config: %w", err)
		}
		s3Client = s3.NewFromConfig(awsCfg)
		images = storage.NewImageStore(s3Client, cfg.Storage.S3Bucket, cfg.Storage.AWSRegion, cfg.Storage.PublicBaseURL)
		logger.Info("image storage enabled", "bucket", cfg.Storage.S3Bucket)
	}

	outbound, err := sender.New(ctx, cfg.Send, cfg.Storage)
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}

	emailSvc := email.NewService(repos.emails, repos.templates)
	templateSvc := template.NewService(repos.templates, files, sources)
	userSvc := user.NewService(repos.users)
	tokens := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL())

	var login *auth.OAuthLogin
	if cfg.Auth.GoogleClientID != "" {
		login = auth.NewOAuthLogin(&cfg.Auth, tokens, userSvc)
		logger.Info("oauth login enabled", "allowed_domain", cfg.Auth.AllowedDomain)
	}

	deps := api.Deps{
		Emails:    emailSvc,
		Templates: templateSvc,
		Fields:    field.NewService(repos.fields),
		Users:     userSvc,
		SendTest:  sendtest.NewService(emailSvc, repos.templates, outbound),
		Renderer:  render.NewRenderer(nil),
		Images:    images,
		Auth:      auth.NewMiddleware(tokens, cfg.Auth.BasicUser, cfg.Auth.BasicPassword),
		Login:     login,
		CORS:      cfg.CORS,
	}
	if s3Client != nil {
		deps.Health = api.NewHealthChecker(db, redisClient, s3Client, cfg.Storage.S3Bucket)
	} else {
		deps.Health = api.NewHealthChecker(db, redisClient, nil, "")
	}
	server := api.NewServer(deps)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
	return nil
}
