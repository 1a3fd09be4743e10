package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/config"
	"github.com/pageza/nutrifit/backend/internal/database"
	"github.com/pageza/nutrifit/backend/pkg/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Roll back the last migration")
	down := flag.Bool("down", false, "Roll back every migration")
	steps := flag.Int("steps", 0, "Apply n migrations, negative to roll back")
	force := flag.Int("force", -1, "Force the schema version without running migrations")
	version := flag.Bool("version", false, "Print the current schema version")
	dir := flag.String("dir", "", "Read migrations from this directory instead of the embedded set")
	flag.Parse()

	log := logger.NewForEnvironment(string(config.GetEnvironment()))
	defer func() { _ = log.Sync() }()

	if err := run(log, *dir, func(m *database.Migrator) error {
		switch {
		case *version:
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		case *force >= 0:
			return m.Force(*force)
		case *down:
			return m.Down()
		case *rollback:
			return m.Steps(-1)
		case *steps != 0:
			return m.Steps(*steps)
		default:
			return m.Up()
		}
	}); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
}

func run(log *zap.Logger, dir string, action func(*database.Migrator) error) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrations target postgres, configured driver is %q", cfg.Database.Driver)
		}
		dsn = cfg.Database.URL()
		if dir == "" {
			dir = cfg.Database.MigrationsDir
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	m, err := database.NewMigrator(db, dir, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	return action(m)
}
