package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/authly/authly/modules/security"
	appconfig "github.com/authly/authly/pkg/config"
	"github.com/authly/authly/pkg/email"
	"github.com/authly/authly/pkg/httpserver"
	"github.com/authly/authly/pkg/logger"
	"github.com/authly/authly/pkg/pg"
	"github.com/authly/authly/pkg/requestid"
	"github.com/authly/authly/pkg/secrets"
	"github.com/authly/authly/svc/credential"
	"github.com/authly/authly/svc/credential/pgstore"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	DB         pg.Config
	HTTP       httpserver.Config
	Email      email.Config
	Credential credential.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	appconfig.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Environment, "authly"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	key, err := secrets.KeyFromBase64(cfg.Credential.EncryptionKey)
	if err != nil {
		return err
	}
	codec, err := secrets.New(key)
	if err != nil {
		return err
	}

	var mailer email.EmailSender
	if cfg.Email.PostmarkServerToken != "" {
		mailer, err = email.NewPostmarkClient(cfg.Email)
		if err != nil {
			return err
		}
	} else {
		// No Postmark token configured: write emails to disk for local work.
		mailer = email.NewDevSender("./tmp/emails")
		log.Warn("postmark token missing, using dev mail sender")
	}

	store := pgstore.New(pool)
	svc := credential.New(store, mailer, codec, cfg.Credential,
		credential.WithLogger(log),
	)

	securityHandler := security.NewHandler(svc, sessionUserResolver,
		security.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, pg.Healthcheck(pool)))
	r.Mount("/settings/security", securityHandler.Handle())

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// sessionUserResolver reads the acting user from the X-User-ID header set
// by the authenticating reverse proxy. Replace with session middleware when
// this service fronts browsers directly.
func sessionUserResolver(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return uuid.Nil, security.ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, security.ErrUnauthenticated
	}
	return id, nil
}
