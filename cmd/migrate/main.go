package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/infrastructure/config"
	"github.com/erp/checkout/internal/infrastructure/logger"
	"github.com/erp/checkout/internal/infrastructure/migration"
)

const usage = `Checkout service migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Mark a version as applied (fixes a dirty state)
  create <name> [desc]  Create the next numbered migration pair
  list                  List migrations on disk

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     debug, info, warn, error (default: info)`

func main() {
	path := flag.String("path", "migrations", "Path to migrations directory")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	defer func() { _ = log.Sync() }()

	dir, err := filepath.Abs(*path)
	if err != nil {
		log.Fatal("Invalid migrations path", zap.Error(err))
	}

	if err := run(args, dir, log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	switch args[0] {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate create <name> [description]")
		}
		desc := ""
		if len(args) > 2 {
			desc = args[2]
		}
		mf, err := migration.Create(dir, args[1], desc, time.Now())
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.Uint("version", mf.Version), zap.String("up", mf.UpPath))
		return nil
	case "list":
		files, err := migration.List(dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("  %06d  %s\n", f.Version, f.Name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.GoTo(uint(n))
	case "force":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(n)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("usage: migrate %s <n>", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[1])
	}
	return n, nil
}
