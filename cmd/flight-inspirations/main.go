// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// flight-inspirations is a terminal app for browsing Amadeus flight
// destination inspirations as an editable table.
//
// A search for an origin city (optionally a departure date) loads the
// cheapest destinations as rows. Cells can be edited, columns filtered
// and reordered, and the table saved to a local SQLite file; the next
// run opens the saved table instead of searching again.
//
// With --offline the app serves searches from a saved
// flight-destinations response instead of calling Amadeus, which
// needs no credentials.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/maisjamil1/flight-inspirations/lib/amadeus"
	"github.com/maisjamil1/flight-inspirations/lib/codec"
	"github.com/maisjamil1/flight-inspirations/lib/config"
	"github.com/maisjamil1/flight-inspirations/lib/flights"
	"github.com/maisjamil1/flight-inspirations/lib/kvstore"
	"github.com/maisjamil1/flight-inspirations/lib/table"
	"github.com/maisjamil1/flight-inspirations/lib/tableui"
	"github.com/maisjamil1/flight-inspirations/lib/version"
)

const programName = "flight-inspirations"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// options are the parsed command-line flags.
type options struct {
	configPath    string
	databasePath  string
	offlinePath   string
	origin        string
	oneWay        bool
	maxPrice      int
	logOutput     string
	noSearch      bool
	noColor       bool
	printSnapshot bool
	printView     bool
	showVersion   bool
	help          bool
}

func parseFlags(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the YAML config (default: $"+config.EnvironmentVariable+" or built-in defaults)")
	flagSet.StringVar(&opts.databasePath, "db", "", "SQLite file for the saved table (overrides storage.path; \":memory:\" keeps nothing)")
	flagSet.StringVar(&opts.offlinePath, "offline", "", "serve searches from a saved flight-destinations JSON/JSONC file instead of Amadeus")
	flagSet.StringVar(&opts.origin, "origin", "", "origin city code for the search bar (overrides search.default_origin)")
	flagSet.BoolVar(&opts.oneWay, "one-way", false, "search one-way fares only (overrides search.one_way)")
	flagSet.IntVar(&opts.maxPrice, "max-price", 0, "drop fares above this total (overrides search.max_price)")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.BoolVar(&opts.noSearch, "no-search", false, "do not search for the default origin at startup")
	flagSet.BoolVar(&opts.noColor, "no-color", false, "render without colors or text styles")
	flagSet.BoolVar(&opts.printSnapshot, "print-snapshot", false, "print the saved rows as JSON and exit")
	flagSet.BoolVar(&opts.printView, "print-view", false, "print the saved column layout in CBOR diagnostic notation and exit")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, flagSet, nil
		}
		return opts, flagSet, validation("%w", err)
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return opts, flagSet, validation("unexpected argument: %s", extra[0])
	}
	return opts, flagSet, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, flagSet, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.help {
		printHelp(stderr, flagSet)
		return nil
	}
	if opts.showVersion {
		version.Fprint(stdout, programName)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := newCommandLogger(stderr, slog.LevelWarn)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case opts.printSnapshot:
		return printSnapshot(ctx, stdout, store, cfg.Storage.SnapshotKey)
	case opts.printView:
		return printViewState(ctx, stdout, store, cfg.Storage.ViewKey)
	}

	return runInteractive(ctx, opts, cfg, store, logger)
}

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, validation("%w", err).withHint("Check the file named by --config or $" + config.EnvironmentVariable + ".")
	}
	if opts.databasePath != "" {
		cfg.Storage.Path = opts.databasePath
	}
	if opts.origin != "" {
		cfg.Search.DefaultOrigin = opts.origin
	}
	if opts.oneWay {
		cfg.Search.OneWay = true
	}
	if opts.maxPrice != 0 {
		cfg.Search.MaxPrice = opts.maxPrice
	}
	if err := cfg.Validate(); err != nil {
		return nil, validation("%w", err)
	}
	return cfg, nil
}

// openStore opens the SQLite key-value store named by the config,
// creating its directory.
func openStore(cfg *config.Config, logger *slog.Logger) (*kvstore.SQLite, error) {
	if err := cfg.EnsureStorageDir(); err != nil {
		return nil, internal("%w", err)
	}
	store, err := kvstore.OpenSQLite(cfg.Storage.Path, logger)
	if err != nil {
		return nil, internal("opening %s: %w", cfg.Storage.Path, err)
	}
	return store, nil
}

// printSnapshot writes the saved rows as indented JSON. An absent
// snapshot prints an empty array.
func printSnapshot(ctx context.Context, stdout io.Writer, store table.KeyValue, key string) error {
	rows, _, err := table.ReadSnapshot(ctx, store, key)
	if err != nil {
		return internal("%w", err)
	}
	if rows == nil {
		rows = []table.Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return internal("encoding snapshot: %w", err)
	}
	fmt.Fprintf(stdout, "%s\n", data)
	return nil
}

// printViewState writes the saved view state in CBOR diagnostic
// notation.
func printViewState(ctx context.Context, stdout io.Writer, store table.KeyValue, key string) error {
	value, found, err := store.Get(ctx, key)
	if err != nil {
		return internal("reading %s: %w", key, err)
	}
	if !found {
		fmt.Fprintln(stdout, "no saved view state")
		return nil
	}
	notation, err := codec.Diagnose([]byte(value))
	if err != nil {
		return internal("view state under %s is not valid CBOR: %w", key, err)
	}
	fmt.Fprintln(stdout, notation)
	return nil
}

// newSearcher builds the search backend: the offline file when given,
// otherwise an Amadeus client.
func newSearcher(opts options, cfg *config.Config, logger *slog.Logger) (flights.Searcher, error) {
	if opts.offlinePath != "" {
		searcher, err := flights.OpenFile(opts.offlinePath)
		if err != nil {
			return nil, validation("%w", err)
		}
		logger.Info("serving searches from file", "path", searcher.Path(), "destinations", searcher.Len())
		return searcher, nil
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, validation("%w", err).
			withHint("Set AMADEUS_API_KEY and AMADEUS_API_SECRET, or use --offline FILE.")
	}
	client, err := amadeus.NewClient(amadeus.Config{
		BaseURL:      cfg.Amadeus.BaseURL,
		ClientID:     cfg.Amadeus.ClientID,
		ClientSecret: cfg.Amadeus.ClientSecret,
		HTTPClient:   &http.Client{Timeout: cfg.Amadeus.Timeout},
		Logger:       logger,
	})
	if err != nil {
		return nil, validation("%w", err)
	}
	return client, nil
}

// restoreTable seeds the table from the store. A corrupt snapshot is
// reported and treated as no snapshot.
func restoreTable(ctx context.Context, tbl *table.Table, logger *slog.Logger) error {
	if err := tbl.Restore(ctx); err != nil {
		if !errors.Is(err, table.ErrPersistenceCorrupt) {
			return internal("%w", err)
		}
		logger.Warn("saved table is unreadable; starting empty", "error", err)
	}
	return nil
}

// restoreView applies the saved column layout and returns the saved
// page size, or zero.
func restoreView(ctx context.Context, tbl *table.Table, logger *slog.Logger) int {
	state, found, err := tbl.LoadViewState(ctx)
	if err != nil {
		logger.Warn("reading saved view state failed", "error", err)
		return 0
	}
	if !found {
		return 0
	}
	if !tbl.ApplyViewState(state) {
		logger.Debug("saved column order does not match the table; using default order")
	}
	return state.PageSize
}

// runInteractive runs the TUI until the user quits.
//
// Once the program owns the terminal, background logging (the Amadeus
// client and the table) goes through a TUILogHandler into the status
// line, optionally fanned out to --log-output.
func runInteractive(ctx context.Context, opts options, cfg *config.Config, store *kvstore.SQLite, logger *slog.Logger) error {
	dispatcher := tableui.NewDispatcher()
	var backgroundHandler slog.Handler = tableui.NewTUILogHandler(dispatcher, slog.LevelWarn)
	if opts.logOutput != "" {
		fileHandler, closeFile, err := openFileLogHandler(opts.logOutput)
		if err != nil {
			return validation("cannot open log file %s: %w", opts.logOutput, err)
		}
		defer closeFile()
		backgroundHandler = fanoutHandler{backgroundHandler, fileHandler}
	}
	backgroundLogger := slog.New(backgroundHandler)

	searcher, err := newSearcher(opts, cfg, backgroundLogger)
	if err != nil {
		return err
	}

	tbl := table.New(table.Config{
		Store:       store,
		SnapshotKey: cfg.Storage.SnapshotKey,
		ViewKey:     cfg.Storage.ViewKey,
		Logger:      backgroundLogger,
	})
	// The program is not running yet, so restore problems go to stderr.
	if err := restoreTable(ctx, tbl, logger); err != nil {
		return err
	}
	pageSize := cfg.Table.PageSize
	if saved := restoreView(ctx, tbl, logger); saved > 0 {
		pageSize = saved
	}

	model := tableui.NewModel(tableui.Config{
		Table:          tbl,
		Searcher:       searcher,
		Dispatcher:     dispatcher,
		Logger:         backgroundLogger,
		PageSize:       pageSize,
		EditDebounce:   cfg.Table.EditDebounce,
		FilterDebounce: cfg.Table.FilterDebounce,
		SearchTimeout:  cfg.Amadeus.Timeout * 2,
		DefaultOrigin:  cfg.Search.DefaultOrigin,
		OneWay:         cfg.Search.OneWay,
		MaxPrice:       cfg.Search.MaxPrice,
		SearchOnStart:  !opts.noSearch,
	})

	if opts.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	dispatcher.SetProgram(program)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return internal("%w", err)
	}
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `%[1]s: search flight destination inspirations and edit them as a table.

Without flags, searches Amadeus for the default origin (MAD) on start
unless a saved table exists. Credentials come from AMADEUS_API_KEY and
AMADEUS_API_SECRET, or from the config file.

Usage:
  %[1]s [flags]

Examples:
  # Browse live data
  AMADEUS_API_KEY=... AMADEUS_API_SECRET=... %[1]s

  # Work from a saved response, nothing written to disk
  %[1]s --offline destinations.json --db :memory:

  # Cheap one-way fares only
  %[1]s --one-way --max-price 100

  # Dump the saved table
  %[1]s --print-snapshot

Keys:
  arrows/hjkl move   enter edit   / filter   < > move column
  n p page   s search   ctrl+s save   ctrl+r reset   q quit
  + - shift a date cell by one day

Use --no-color on terminals that render escape sequences poorly.

Flags:
`, programName)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
