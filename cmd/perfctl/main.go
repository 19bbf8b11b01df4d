// perfctl reports portfolio performance from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/ndewijer/portfolio-performance/internal/cli"
	"github.com/ndewijer/portfolio-performance/internal/config"
	"github.com/ndewijer/portfolio-performance/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	logger, err := logging.New(cfg.Log.Level, "console", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	app := cli.NewApp(cfg, logger)
	flag.BoolVar(&app.Plain, "plain", false, "Print raw markdown instead of styled terminal output")
	flag.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "Path to the SQLite database")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, app)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
