// Package scheduler wires cron schedules onto the crawl job and the
// retention sweep.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"sslv_watcher/config"
	"sslv_watcher/models"
)

// Jobs are the schedulable units; both return a summary rather than an
// error because a finished invocation is always reportable.
type Jobs struct {
	Crawl   func(ctx context.Context) models.CrawlSummary
	Cleanup func(ctx context.Context) models.CrawlSummary
}

type Scheduler struct {
	cfg    config.SchedulerConfig
	jobs   Jobs
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
}

func New(cfg config.SchedulerConfig, jobs Jobs) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		jobs:   jobs,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.CrawlCron != "" {
		log.Printf("Starting crawl schedule: %s", s.cfg.CrawlCron)
		_, err := s.cron.AddFunc(s.cfg.CrawlCron, func() {
			summary := s.jobs.Crawl(ctx)
			log.Printf("Scheduled crawl: %s", summary.Message)
		})
		if err != nil {
			return fmt.Errorf("invalid crawl cron expression: %w", err)
		}
	} else if s.cfg.Interval > 0 {
		log.Printf("Starting crawl schedule with interval: %s", s.cfg.Interval)
		s.ticker = time.NewTicker(s.cfg.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					summary := s.jobs.Crawl(ctx)
					log.Printf("Scheduled crawl: %s", summary.Message)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No crawl schedule configured, crawls run only via HTTP trigger")
	}

	if s.cfg.CleanupCron != "" && s.jobs.Cleanup != nil {
		log.Printf("Starting cleanup schedule: %s", s.cfg.CleanupCron)
		_, err := s.cron.AddFunc(s.cfg.CleanupCron, func() {
			summary := s.jobs.Cleanup(ctx)
			log.Printf("Scheduled cleanup: %s", summary.Message)
		})
		if err != nil {
			return fmt.Errorf("invalid cleanup cron expression: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}
