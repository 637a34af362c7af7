package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Vodeneev/ticketbet/internal/pkg/cache"
	"github.com/Vodeneev/ticketbet/internal/pkg/config"
)

func main() {
	var (
		configPath = flag.String("config", "configs/production.yaml", "Path to config file")
		action     = flag.String("action", "status", "Action: status, prune")
		keepDays   = flag.Int("keep-days", 30, "Days of snapshots to keep")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store := cache.New(cfg.Cache.Dir)
	cutoff := time.Now().AddDate(0, 0, -*keepDays)

	switch *action {
	case "status":
		showStatus(store, cutoff)
	case "prune":
		prune(store, cutoff)
	default:
		log.Fatalf("Unknown action: %s. Use: status, prune", *action)
	}
}

func showStatus(store *cache.Store, cutoff time.Time) {
	days, err := store.Days()
	if err != nil {
		log.Fatalf("Failed to list cache days: %v", err)
	}
	if len(days) == 0 {
		fmt.Println("Cache is empty")
		return
	}

	expired := 0
	for _, d := range days {
		marker := ""
		if d.Before(cutoff) {
			marker = "  (past retention)"
			expired++
		}
		fmt.Printf("%s%s\n", d.Format("2006-01-02"), marker)
	}
	fmt.Printf("%d day(s) cached, %d past retention\n", len(days), expired)
}

func prune(store *cache.Store, cutoff time.Time) {
	removed, err := store.Prune(cutoff)
	if err != nil {
		log.Fatalf("Failed to prune cache: %v", err)
	}
	fmt.Printf("Removed %d day(s) older than %s\n", removed, cutoff.Format("2006-01-02"))
}
