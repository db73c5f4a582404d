package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sslv_watcher/config"
	"sslv_watcher/logging"
	"sslv_watcher/notify"
	"sslv_watcher/scheduler"
	"sslv_watcher/scraper"
	"sslv_watcher/server"
	"sslv_watcher/storage"
	"sslv_watcher/workers"
)

var (
	crawlNow   = flag.Bool("crawl", false, "Run one crawl job and exit")
	cleanupNow = flag.Bool("cleanup", false, "Run the retention sweep and exit")
	showStatus = flag.Bool("status", false, "Print recent crawl runs and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting sslv_watcher...")
	log.Printf("Site: %s, %d regions, %d categories",
		cfg.Site.BaseURL, len(cfg.Site.Regions), len(cfg.Site.Categories))

	runs, err := storage.NewRunLog(cfg.RunLogPath)
	if err != nil {
		log.Fatalf("Failed to open run log: %v", err)
	}
	defer runs.Close()

	if *showStatus {
		printStatus(runs)
		return
	}

	ctx := context.Background()

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer store.Close()

	notifier, err := notify.NewWebPush(cfg.VAPID)
	if err != nil {
		log.Fatalf("Failed to set up push notifier: %v", err)
	}

	crawler := scraper.NewCrawler(cfg.Site, cfg.Browser)
	orchestrator := scraper.NewOrchestrator(store, crawler, notifier, runs)
	cleanup := workers.NewCleanupWorker(store, cfg.Retention.MaxAge)

	if *crawlNow {
		summary := orchestrator.Run(ctx)
		log.Printf("Crawl finished: %s", summary.Message)
		if !summary.Success {
			os.Exit(1)
		}
		return
	}

	if *cleanupNow {
		summary := cleanup.RunOnce(ctx)
		log.Printf("Cleanup finished: %s", summary.Message)
		if !summary.Success {
			os.Exit(1)
		}
		return
	}

	// Daemon mode: cron schedules plus HTTP trigger endpoints.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(cfg.Scheduler, scheduler.Jobs{
		Crawl:   orchestrator.Run,
		Cleanup: cleanup.RunOnce,
	})
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := server.New(orchestrator.Run, cleanup.RunOnce)
	go func() {
		if err := srv.ListenAndServe(cfg.Port); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

func printStatus(runs *storage.RunLog) {
	recent, err := runs.RecentRuns(10)
	if err != nil {
		log.Fatalf("Failed to read crawl runs: %v", err)
	}
	if len(recent) == 0 {
		fmt.Println("No crawl runs recorded yet.")
		return
	}
	for _, run := range recent {
		finished := "running"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("#%d %s  %s → %s  criteria %d (failed %d)  listings %d (%d new)  %s\n",
			run.ID, run.Status,
			run.StartedAt.Format("2006-01-02 15:04:05"), finished,
			run.CriteriaTotal, run.CriteriaFailed,
			run.ListingsFound, run.ListingsNew,
			run.Message)
	}
}
