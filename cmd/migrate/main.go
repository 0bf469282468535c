package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/config"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/logger"
	"github.com/rs/zerolog"
)

// seedsTable はサンプルデータの適用履歴を schema_migrations と分けて管理するためのテーブルです。
const seedsTable = "schema_seeds"

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
		seedsDir      = flag.String("seeds", "", "directory containing sample data; applied after migrations when set")
	)
	flag.Parse()

	log := logger.New(logger.Options{Pretty: true})

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dsn := cfg.Database.DSN()
	if err := runMigration(log, action, *migrationsDir, dsn); err != nil {
		log.Fatal().Err(err).Str("action", action).Msg("migration failed")
	}

	if *seedsDir != "" && action == "up" {
		if err := runMigration(log, action, *seedsDir, dsn+"&x-migrations-table="+seedsTable); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}

	log.Info().Str("action", action).Msg("migration completed")
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func runMigration(log zerolog.Logger, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info().Str("dir", dir).Msg("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Str("dir", dir).Uint("version", version).Bool("dirty", dirty).Msg("migration version")
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
