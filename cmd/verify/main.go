package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/DjordjeVuckovic/query-verify/internal/storage/pg"
	"github.com/DjordjeVuckovic/query-verify/internal/verify"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/report"
	"github.com/DjordjeVuckovic/query-verify/pkg/config/env"
)

const (
	exitMatched   = 0
	exitMismatch  = 1
	exitConfigErr = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatched
		}
		return exitConfigErr
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	app := NewAppConfig()
	if err := env.LoadDotEnv(app.ENV, "cmd/verify/.env"); err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	cfg, err := cli.runConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return exitConfigErr
	}

	params, err := pg.LoadEnv()
	if err != nil {
		slog.Error("Invalid database configuration", "error", err)
		printRemediation(stderr)
		return exitConfigErr
	}

	slog.Info("Connecting to database", "dsn", params.Redacted())
	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: params.ConnString(), MaxConns: 1})
	if err != nil {
		slog.Error("Failed to connect to database", "error", apperr.NewConnection(params.Redacted(), err))
		printRemediation(stderr)
		return exitConfigErr
	}
	defer pool.Close()

	console := report.NewConsole(stdout, cli.NoColor)
	out, err := verify.RunWithPool(ctx, pool, cfg, console)
	if err != nil {
		var connErr *apperr.ConnectionError
		var valErr *apperr.ValidationError
		switch {
		case errors.As(err, &connErr):
			slog.Error("Lost database connection", "error", err)
			printRemediation(stderr)
			return exitConfigErr
		case errors.As(err, &valErr):
			slog.Error("Invalid configuration", "error", err)
			return exitConfigErr
		default:
			slog.Error("Verification aborted", "error", err)
			return exitMismatch
		}
	}

	if out.PersistErr != nil {
		slog.Warn("Some artifacts were not saved", "error", out.PersistErr)
	}
	if !out.AllMatched {
		return exitMismatch
	}
	return exitMatched
}

func printRemediation(w io.Writer) {
	fmt.Fprintln(w, "Make sure:")
	fmt.Fprintln(w, "  1. PostgreSQL is running and reachable")
	fmt.Fprintf(w, "  2. DB_HOST, DB_PORT, DB_NAME, DB_USER and DB_PASSWORD are set (defaults %s:%s/%s as %s)\n",
		pg.DefaultHost, pg.DefaultPort, pg.DefaultDatabase, pg.DefaultUser)
	fmt.Fprintln(w, "  3. the user can read the procurement tables")
}
