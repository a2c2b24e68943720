// Package main is the entry point for the eml2pdf converter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhle/eml2pdf/internal/convert"
	"github.com/nhle/eml2pdf/internal/model"
	"github.com/nhle/eml2pdf/internal/render"
	"github.com/nhle/eml2pdf/internal/store"
	"github.com/nhle/eml2pdf/internal/ui/progress"
	"github.com/nhle/eml2pdf/internal/ui/settings"
)

var version = "dev"

func main() {
	var (
		inputFolder  = flag.String("input", "", "folder containing .eml files (required unless -settings)")
		outputFolder = flag.String("output", "", "destination folder for PDFs (default: <input>/PDF)")
		configPath   = flag.String("config", model.DefaultConfigPath(), "path to YAML configuration file")
		pageSize     = flag.String("page-size", "", "page size override: letter or a4")
		extractAtts  = flag.Bool("extract-attachments", false, "save attachments next to each PDF")
		addressBook  = flag.Bool("address-book", false, "collect contacts into an address book CSV")
		noOrganize   = flag.Bool("no-organize", false, "do not group PDFs into YYYY/MM subfolders")
		noChrome     = flag.Bool("no-chrome", false, "skip headless Chrome and use the built-in renderer")
		historyDB    = flag.String("history-db", "", "SQLite path for recording conversion runs")
		useTUI       = flag.Bool("tui", false, "show the interactive progress view")
		editSettings = flag.Bool("settings", false, "open the settings editor and exit")
		verbose      = flag.Bool("verbose", false, "enable debug logging")
		quiet        = flag.Bool("quiet", false, "log errors only")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("eml2pdf %s\n", version)
		return
	}

	setupLogger(*verbose, *quiet)

	if *editSettings {
		if err := settings.Run(*configPath); err != nil {
			slog.Error("settings editor failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *inputFolder == "" {
		fmt.Fprintln(os.Stderr, "eml2pdf: -input folder is required")
		flag.Usage()
		os.Exit(2)
	}
	if info, err := os.Stat(*inputFolder); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "eml2pdf: input folder %s does not exist\n", *inputFolder)
		os.Exit(2)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	applyFlags(&cfg, *pageSize, *extractAtts, *addressBook, *noOrganize, *noChrome, *historyDB)

	// Probe for a browser once; the renderer falls back when none is found.
	engine := render.DetectChrome()
	if cfg.UseChrome && !engine.Available() {
		slog.Warn("no Chrome or Chromium binary found, using built-in renderer")
	}

	var hist *store.Store
	if cfg.HistoryDB != "" {
		hist, err = store.New(cfg.HistoryDB)
		if err != nil {
			slog.Error("opening history database", "path", cfg.HistoryDB, "error", err)
			os.Exit(1)
		}
		defer hist.Close()
	}

	batch := &convert.Batch{
		Converter: convert.NewConverter(render.NewRenderer(engine, nil), nil),
		History:   hist,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, cancelling after current file", "signal", sig)
		cancel()
	}()

	result, err := runBatch(ctx, batch, *inputFolder, *outputFolder, cfg, *useTUI)
	if err != nil {
		slog.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	printSummary(result)

	if result.Cancelled || result.Failed > 0 {
		os.Exit(1)
	}
}

// runBatch drives the batch either under the interactive view or with
// plain log output.
func runBatch(
	ctx context.Context,
	batch *convert.Batch,
	inputFolder string,
	outputFolder string,
	cfg model.ConversionConfig,
	useTUI bool,
) (model.BatchResult, error) {
	if useTUI {
		return progress.Run(ctx, batch, inputFolder, outputFolder, cfg)
	}

	result := batch.Run(ctx, inputFolder, outputFolder, cfg,
		func(current, total int, filename string) bool {
			if current < total {
				slog.Info("converting", "file", filename, "position", current+1, "total", total)
			}
			return true
		})
	return result, nil
}

// applyFlags overlays command line overrides onto the loaded config.
func applyFlags(
	cfg *model.ConversionConfig,
	pageSize string,
	extractAtts, addressBook, noOrganize, noChrome bool,
	historyDB string,
) {
	if pageSize != "" {
		cfg.PageSize = pageSize
	}
	if extractAtts {
		cfg.ExtractAttachments = true
	}
	if addressBook {
		cfg.GenerateAddressBook = true
	}
	if noOrganize {
		cfg.OrganizeByDate = false
	}
	if noChrome {
		cfg.UseChrome = false
	}
	if historyDB != "" {
		cfg.HistoryDB = historyDB
	}
}

// printSummary reports the run outcome on stdout.
func printSummary(result model.BatchResult) {
	if result.Cancelled {
		fmt.Printf("Cancelled: %d of %d files converted\n", result.Successful, result.TotalFiles)
	} else {
		fmt.Printf("Done: %d of %d files converted\n", result.Successful, result.TotalFiles)
	}
	fmt.Printf("Output: %s\n", result.OutputFolder)
	if result.Failed > 0 {
		fmt.Printf("Failed: %d (see %s)\n", result.Failed, result.ReportPath)
	}
	if result.AddressBookPath != "" {
		fmt.Printf("Address book: %s\n", result.AddressBookPath)
	}
}

// setupLogger configures the global slog logger with text output.
func setupLogger(verbose, quiet bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
