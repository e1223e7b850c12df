// Command portalctl is the operator CLI of the exam registration portal.
//
//	portalctl [-config configs/config.yaml] [-env .env] <command> [flags]
//
// Commands:
//
//	create-admin -username u -password p -name "Full Name" [-email e] [-type ADMIN|DEAN|HOD|USER]
//	pending [-form formId]
//	stats
//	forms [-open true|false]
//	open <formId>
//	close <formId>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/yigit/examportal/internal/config"
	"github.com/yigit/examportal/internal/db"
	"github.com/yigit/examportal/internal/pkg/logger"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("portalctl", flag.ContinueOnError)
	configPath := global.String("config", "configs/config.yaml", "path to the YAML config file")
	envFile := global.String("env", "", "optional .env file loaded before the config")
	verbose := global.Bool("v", false, "log debug output")
	if err := global.Parse(args); err != nil {
		return errUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		return errUsage
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return fmt.Errorf("load %s: %w", *envFile, err)
		}
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	level := logger.WarnLevel
	if *verbose {
		level = logger.DebugLevel
	}
	lgr := logger.Configure(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	cli := newCLI(cfg, database.Pool, lgr, out)
	return cli.dispatch(ctx, rest[0], rest[1:])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usage: portalctl [-config path] [-env file] [-v] <command> [flags]

commands:
  create-admin -username u -password p -name "Full Name" [-email e] [-type ADMIN|DEAN|HOD|USER]
  pending [-form formId]     list pending registrations
  stats                      registration counts per status
  forms [-open true|false]   list registration forms
  open <formId>              open a form for registrations
  close <formId>             close a form for registrations`)
}
