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

	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/logrus/sentry"

	"github.com/fomo-app/fomo/internal/cache"
	"github.com/fomo-app/fomo/internal/consumer/promoter"
	feedimpl "github.com/fomo-app/fomo/internal/feed/impl"
	identityimpl "github.com/fomo-app/fomo/internal/identity/impl"
	"github.com/fomo-app/fomo/internal/kv"
	"github.com/fomo-app/fomo/internal/kv/file"
	"github.com/fomo-app/fomo/internal/kv/memory"
	"github.com/fomo-app/fomo/internal/kv/redis"
	"github.com/fomo-app/fomo/internal/mail"
	partyimpl "github.com/fomo-app/fomo/internal/party/impl"
	profileimpl "github.com/fomo-app/fomo/internal/profile/impl"
	"github.com/fomo-app/fomo/internal/realtime"
	"github.com/fomo-app/fomo/internal/server"
	"github.com/fomo-app/fomo/internal/storage/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host           string        `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port           int           `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for insecure connections, defaults to a random value"`
	RequestTimeout time.Duration `long:"http.request_timeout" env:"HTTP_REQUEST_TIMEOUT" default:"45s" description:"request processing timeout"`

	Postgres                   string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMaxOpenConnections int    `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"0" description:"postgres maximal open connections count, 0 means unlimited"`
	PostgresMaxIdleConnections int    `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections count"`
	PostgresMigrations         string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`

	CacheBackend       string `long:"cache.backend" env:"CACHE_BACKEND" default:"file" description:"local cache backend" choice:"file" choice:"redis" choice:"memory"`
	CacheFile          string `long:"cache.file" env:"CACHE_FILE" default:"data/cache.json" description:"local cache file"`
	CacheRedisAddr     string `long:"cache.redis.addr" env:"CACHE_REDIS_ADDR" default:"localhost:6379" description:"redis address"`
	CacheRedisPassword string `long:"cache.redis.password" env:"CACHE_REDIS_PASSWORD" description:"redis password"`
	CacheRedisDB       int    `long:"cache.redis.db" env:"CACHE_REDIS_DB" default:"0" description:"redis database"`
	CacheRedisPrefix   string `long:"cache.redis.prefix" env:"CACHE_REDIS_PREFIX" default:"fomo:" description:"redis key prefix"`

	SMTPHost     string `long:"smtp.host" env:"SMTP_HOST" description:"smtp host, e-mails are only logged when empty"`
	SMTPPort     int    `long:"smtp.port" env:"SMTP_PORT" default:"587" description:"smtp port"`
	SMTPUsername string `long:"smtp.username" env:"SMTP_USERNAME" description:"smtp username"`
	SMTPPassword string `long:"smtp.password" env:"SMTP_PASSWORD" description:"smtp password"`
	SMTPTLSMode  string `long:"smtp.tls_mode" env:"SMTP_TLS_MODE" default:"starttls" description:"smtp tls mode" choice:"tls" choice:"starttls" choice:"none"`
	SMTPFrom     string `long:"smtp.from" env:"SMTP_FROM" default:"no-reply@fomo.app" description:"sender address"`
	SMTPFromName string `long:"smtp.from_name" env:"SMTP_FROM_NAME" default:"Fomo" description:"sender name"`

	SessionTTL      time.Duration `long:"identity.session_ttl" env:"IDENTITY_SESSION_TTL" default:"720h" description:"session lifetime"`
	ConfirmationTTL time.Duration `long:"identity.confirmation_ttl" env:"IDENTITY_CONFIRMATION_TTL" default:"24h" description:"confirmation token lifetime"`
	ConfirmURL      string        `long:"identity.confirm_url" env:"IDENTITY_CONFIRM_URL" default:"http://localhost:8080/v1/auth/confirm?token=" description:"link confirmation token is appended to"`

	PartyTimezone   string        `long:"party.timezone" env:"PARTY_TIMEZONE" default:"Local" description:"timezone party date and time are interpreted in"`
	PromoteInterval time.Duration `long:"party.promote_interval" env:"PARTY_PROMOTE_INTERVAL" default:"1m" description:"interval of promoting started parties to live"`

	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
}{}

// version is set on build.
var version = "dev"

var errTerminated = errors.New("terminated")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Fatal("failed to load .env")
	}

	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Fomo"
	parser.LongDescription = "Fomo party planning service"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Info("service started")

	if opts.SentryDSN != "" {
		hook, err := sentry.NewHook(sentry.Options{
			Dsn:              opts.SentryDSN,
			AttachStacktrace: true,
			Release:          version,
			ServerName:       "fomo",
		}, logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel)

		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}

	loc, err := time.LoadLocation(opts.PartyTimezone)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load party timezone")
	}

	db := mustGetDB()
	s := postgres.New(db)
	c := cache.New(mustGetKV())

	id := identityimpl.New(s, c, getMailSender(), identityimpl.Config{
		SessionTTL:      opts.SessionTTL,
		ConfirmationTTL: opts.ConfirmationTTL,
		ConfirmURL:      opts.ConfirmURL,
		SignInWindow:    identityimpl.DefaultConfig.SignInWindow,
		SignInAttempts:  identityimpl.DefaultConfig.SignInAttempts,
		ResendWindow:    identityimpl.DefaultConfig.ResendWindow,
		ResendAttempts:  identityimpl.DefaultConfig.ResendAttempts,
	})
	ps := partyimpl.New(s, c, loc)

	listener := pq.NewListener(opts.Postgres, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logrus.WithError(err).WithField("event", ev).Error("postgres listener error")
		}
	})
	defer listener.Close()

	hub := realtime.New(listener)
	p := promoter.New(ps, opts.PromoteInterval)

	r := chi.NewMux()
	r.Get("/health", server.HealthHandler(version, 5*time.Second, map[string]server.Pinger{
		"postgres": pinger(db.PingContext),
		"changes":  hub,
		"promoter": p,
	}))
	server.SetupRouter(server.Services{
		Identity: id,
		Profile:  profileimpl.New(s, id, c),
		Party:    ps,
		Feed:     feedimpl.New(s, c),
		Changes:  hub,
	}, r, opts.RequestTimeout)

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())

	gr, _ := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return hub.Run(ctx)
	})
	gr.Go(func() error {
		return p.Run(ctx)
	})
	gr.Go(srv.ListenAndServe)
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		s := <-sigs

		logrus.Infof("terminating by %s signal", s)

		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to shutdown server")
		}

		return errTerminated
	})

	logrus.Info("service started")

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

type pinger func(ctx context.Context) error

func (p pinger) Ping(ctx context.Context) error {
	return p(ctx)
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}
	db.SetMaxOpenConns(opts.PostgresMaxOpenConnections)
	db.SetMaxIdleConns(opts.PostgresMaxIdleConnections)

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}

func mustGetKV() kv.Store {
	switch opts.CacheBackend {
	case "memory":
		logrus.Warn("local cache is kept in memory and will be lost on restart")
		return memory.New()
	case "redis":
		s, err := redis.New(context.Background(), redis.Options{
			Addr:     opts.CacheRedisAddr,
			Password: opts.CacheRedisPassword,
			DB:       opts.CacheRedisDB,
			Prefix:   opts.CacheRedisPrefix,
		})
		if err != nil {
			logrus.WithError(err).Fatal("failed to create redis cache")
		}
		return s
	default:
		s, err := file.New(opts.CacheFile)
		if err != nil {
			logrus.WithError(err).Fatal("failed to create file cache")
		}
		return s
	}
}

func getMailSender() mail.Sender {
	if opts.SMTPHost == "" {
		logrus.Warn("empty smtp host, e-mails will be logged only")
		return mail.NewLog()
	}

	return mail.NewSMTP(mail.SMTPConfig{
		Host:     opts.SMTPHost,
		Port:     opts.SMTPPort,
		Username: opts.SMTPUsername,
		Password: opts.SMTPPassword,
		TLSMode:  opts.SMTPTLSMode,
		From:     opts.SMTPFrom,
		FromName: opts.SMTPFromName,
	})
}
