package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kmmuntasir/studyplan/internal/cli"
	"github.com/kmmuntasir/studyplan/internal/config"
	"github.com/kmmuntasir/studyplan/internal/logging"
)

func main() {
	// Root flags (apply to every subcommand)
	file := flag.String("f", "", "curriculum file (overrides config)")
	group := flag.Bool("group", false, "group items by pending/done")
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	logFormat := flag.String("log-format", "", "log format: text or json")
	flag.Parse()

	cfg, err := config.Discover()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if *logLevel != "" {
		level = *logLevel
	}
	if *logFormat != "" {
		format = *logFormat
	}
	logger := logging.Setup(os.Stderr, level, format)
	ctx := logging.WithLogger(context.Background(), logger)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(ctx, args, cli.Options{
		File:   *file,
		Group:  *group,
		Theme:  *theme,
		Config: cfg,
	})
	os.Exit(code)
}
