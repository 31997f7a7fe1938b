package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"osrs-flipper/internal/config"
	"osrs-flipper/internal/db"
	"osrs-flipper/internal/engine"
	"osrs-flipper/internal/logger"
	"osrs-flipper/internal/report"
)

var version = "dev"

func main() {
	godotenv.Load()

	cfgPath := flag.String("config", "", "path to YAML config file")
	window := flag.Int("window", 0, "minutes to look back (0 = prompt)")
	top := flag.Int("top", 0, "how many top flips to show (0 = prompt)")
	minSamples := flag.Int("min-samples", 0, "per-item sample floor for the windowed strategy (0 = config default)")
	strategy := flag.String("strategy", "", "windowed_quantile or snapshot (default from config)")
	noSave := flag.Bool("no-save", false, "do not record this scan in the database")
	history := flag.Int("history", 0, "list the last N saved scans and exit")
	show := flag.Int64("show", 0, "re-render a saved scan by ID and exit")
	flag.Parse()

	logger.Banner(version)

	cfg := loadConfig(*cfgPath)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	if *history > 0 {
		printHistory(database, *history)
		return
	}
	if *show > 0 {
		if !showScan(database, *show) {
			os.Exit(1)
		}
		return
	}

	in := bufio.NewReader(os.Stdin)
	windowMinutes := *window
	if windowMinutes <= 0 {
		windowMinutes = promptInt(in, "Minutes to look back", cfg.WindowMinutes)
	}
	topN := *top
	if topN <= 0 {
		topN = promptInt(in, "How many top flips to show?", cfg.TopN)
	}
	floor := *minSamples
	if floor <= 0 {
		floor = cfg.MinSamples
	}
	strat := *strategy
	if strat == "" {
		strat = cfg.Strategy
	}

	params := engine.FlipParams{
		WindowMinutes: windowMinutes,
		MinSamples:    floor,
		Strategy:      engine.Strategy(strat),
		MaxResults:    topN,
	}

	finder := engine.NewFinder(database)
	start := time.Now()
	rows, err := finder.ComputeFlipTable(params)
	if err != nil {
		logger.Error("Flipper", err.Error())
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if len(rows) == 0 {
		fmt.Println("No data available in the selected window.")
		return
	}

	logger.Section(fmt.Sprintf("Top %d flip candidates over last %d minutes", len(rows), windowMinutes))
	fmt.Println(report.FormatTable(rows))
	logger.Stats("strategy", strat)
	logger.Stats("window", fmt.Sprintf("%d min", windowMinutes))
	logger.Stats("computed in", elapsed.Round(time.Millisecond))

	if !*noSave {
		if scanID := database.InsertScan(strat, windowMinutes, rows, elapsed.Milliseconds()); scanID > 0 {
			logger.Info("DB", fmt.Sprintf("Saved as scan #%d", scanID))
		}
	}
}

// printHistory lists the most recent saved scans.
func printHistory(database *db.DB, limit int) {
	scans := database.GetScans(limit)
	if len(scans) == 0 {
		fmt.Println("No saved scans yet.")
		return
	}
	logger.Section(fmt.Sprintf("Last %d saved scans", len(scans)))
	fmt.Println(report.FormatHistory(scans))
}

// showScan re-renders one saved flip table by scan ID.
func showScan(database *db.DB, scanID int64) bool {
	rows := database.GetFlipResults(scanID)
	if len(rows) == 0 {
		fmt.Printf("No saved results for scan #%d.\n", scanID)
		return false
	}
	logger.Section(fmt.Sprintf("Saved scan #%d", scanID))
	fmt.Println(report.FormatTable(rows))
	return true
}

// promptInt asks for a number on stdin, falling back to def on empty or
// invalid input.
func promptInt(in *bufio.Reader, label string, def int) int {
	fmt.Printf("%s (default %d): ", label, def)
	line, err := in.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		fmt.Printf("Invalid number; using %d.\n", def)
		return def
	}
	return n
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadAndValidate(path)
	if err != nil {
		logger.Error("Config", err.Error())
		os.Exit(1)
	}
	return cfg
}
