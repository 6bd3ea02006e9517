package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/cache"
	feedimpl "github.com/fomo-app/fomo/internal/feed/impl"
	"github.com/fomo-app/fomo/internal/kv/file"
	partyimpl "github.com/fomo-app/fomo/internal/party/impl"
	"github.com/fomo-app/fomo/internal/storage/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Cache              string `long:"cache" env:"CACHE_FILE" default:"data/cache.json" description:"path to device cache file"`
	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`
	User               string `long:"user" env:"USER_ID" description:"id of the device owner, local posts are imported when set"`
}{}

func main() {
	_ = godotenv.Load()

	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "import-local"
	parser.LongDescription = "Imports parties, drafts and posts kept in device cache into database"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("import-local started")

	if _, err := os.Stat(opts.Cache); err != nil {
		logrus.WithError(err).Fatal("failed to open cache file")
	}

	store, err := file.New(opts.Cache)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open cache")
	}

	db := mustGetDB()
	defer db.Close()

	st := postgres.New(db)
	c := cache.New(store)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// party list is taken before the import clears it
	var ids []string
	for _, v := range append(c.Parties(ctx), c.Drafts(ctx)...) {
		ids = append(ids, v.ID)
	}

	n, err := partyimpl.New(st, c, time.Local).ImportLocal(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to import parties")
	}

	logrus.WithField("imported", n).Info("parties imported")

	if opts.User == "" {
		logrus.Warn("user is not set, local posts are skipped")
		return
	}

	f := feedimpl.New(st, c)

	var posts int
	for _, id := range ids {
		n, err := f.ImportLocal(ctx, id, opts.User)
		if err != nil {
			logrus.WithError(err).WithField("party", id).Fatal("failed to import posts")
		}
		posts += n
	}

	logrus.WithField("imported", posts).Info("posts imported")
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}

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
