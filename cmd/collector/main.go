package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"osrs-flipper/internal/collector"
	"osrs-flipper/internal/config"
	"osrs-flipper/internal/db"
	"osrs-flipper/internal/logger"
	"osrs-flipper/internal/wiki"
)

var version = "dev"

func main() {
	godotenv.Load()

	cfgPath := flag.String("config", "", "path to YAML config file")
	every := flag.Duration("every", 0, "poll interval (0 = run once, for cron)")
	flag.Parse()

	logger.Banner(version)

	cfg := loadConfig(*cfgPath)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	client := wiki.NewClient(cfg.MappingURL, cfg.LatestURL, cfg.UserAgent, cfg.FetchTimeout())
	col := collector.New(database, client)

	if *every <= 0 {
		if err := col.RunOnce(); err != nil {
			logger.Error("Collector", err.Error())
			os.Exit(1)
		}
		return
	}

	logger.Info("Collector", fmt.Sprintf("Polling every %s", *every))
	ticker := time.NewTicker(*every)
	defer ticker.Stop()
	for {
		if err := col.RunOnce(); err != nil {
			// Transient fetch failures are expected from a polled feed.
			logger.Warn("Collector", err.Error())
		}
		<-ticker.C
	}
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
