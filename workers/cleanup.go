// Package workers hosts the background housekeeping jobs that run
// alongside the crawler.
package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"sslv_watcher/models"
	"sslv_watcher/storage"
)

// CleanupWorker sweeps found listings past the retention window.
// Favorited listings survive the sweep.
type CleanupWorker struct {
	store  *storage.PostgresStore
	maxAge time.Duration
}

func NewCleanupWorker(store *storage.PostgresStore, maxAge time.Duration) *CleanupWorker {
	return &CleanupWorker{store: store, maxAge: maxAge}
}

// RunOnce performs one sweep and reports a summary in the same shape
// the crawl job uses.
func (w *CleanupWorker) RunOnce(ctx context.Context) models.CrawlSummary {
	deleted, err := w.store.DeleteOldListings(ctx, w.maxAge)
	if err != nil {
		log.Printf("Cleanup failed: %v", err)
		return models.CrawlSummary{Success: false, Message: fmt.Sprintf("cleanup: %v", err)}
	}

	log.Printf("Cleanup: deleted %d old listings", deleted)
	return models.CrawlSummary{
		Success: true,
		Count:   int(deleted),
		Message: fmt.Sprintf("Deleted %d old listings", deleted),
	}
}
