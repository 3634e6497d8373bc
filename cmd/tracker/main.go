package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/williampepple1/price-tracker/internal/clock"
	"github.com/williampepple1/price-tracker/internal/config"
	"github.com/williampepple1/price-tracker/internal/history"
	"github.com/williampepple1/price-tracker/internal/io"
	"github.com/williampepple1/price-tracker/internal/logger"
	"github.com/williampepple1/price-tracker/internal/report"
	"github.com/williampepple1/price-tracker/internal/scraper"
	"github.com/williampepple1/price-tracker/internal/tracker"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	historyFile := flag.String("history", "", "History file to append prices to (default data.json)")
	inputFile := flag.String("input", "", "File containing product URLs (one per line) instead of the URLS variable")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	enableProxy := flag.Bool("proxy", false, "Enable proxy support")
	enableBrowser := flag.Bool("browser", false, "Render pages in headless Chrome")
	showReport := flag.Bool("report", false, "Print the tracked products table after the run")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	appConfig := config.CreateDefault()
	if *configFile != "" {
		var err error
		appConfig, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			return 1
		}
	}

	// Override config with command-line flags if provided
	if *historyFile != "" {
		appConfig.IO.HistoryFile = *historyFile
	}
	if *inputFile != "" {
		appConfig.IO.InputFile = *inputFile
	}
	if *logLevel != "" {
		appConfig.Logging.Level = *logLevel
	}
	if *enableProxy {
		appConfig.Proxies.Enabled = true
	}
	if *enableBrowser {
		appConfig.Browser.Enabled = true
	}

	if err := appConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	log := logger.NewLogger(appConfig.Logging.Level)

	urls, err := io.NewURLReader(&appConfig.IO).GetURLs()
	if err != nil {
		log.Error("cannot read product URLs", "error", err, "env", appConfig.IO.URLsEnv)
		return 1
	}

	policy, err := history.ParseCorruptPolicy(appConfig.History.OnCorrupt)
	if err != nil {
		log.Error("invalid history policy", "error", err)
		return 1
	}
	store := history.NewStore(appConfig.IO.HistoryFile, policy, clock.NewRealClock(), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := tracker.New(appConfig, scraper.New(appConfig), store, log)
	summary, err := t.Run(ctx, urls)
	if err != nil {
		log.Error("run aborted", "error", err)
		return 1
	}

	if *showReport {
		doc, err := store.Load()
		if err != nil {
			log.Error("cannot load history for report", "error", err)
			return 1
		}
		if err := report.Write(os.Stdout, doc); err != nil {
			log.Error("cannot write report", "error", err)
			return 1
		}
	}

	if summary.Failed > 0 {
		return 1
	}
	return 0
}
