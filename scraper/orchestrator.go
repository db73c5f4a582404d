package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sslv_watcher/models"
	"sslv_watcher/notify"
	"sslv_watcher/storage"
)

// Store is the persistence surface the orchestrator consumes. Insertion
// is skip-on-conflict: InsertListingIfNew reports false for a source
// URL that is already known, which is the entire dedup mechanism.
type Store interface {
	FindActiveCriteria(ctx context.Context) ([]models.SearchCriteria, error)
	InsertListingIfNew(ctx context.Context, listing *models.FoundListing) (bool, error)
	UpdateLastChecked(ctx context.Context, criteriaID int64, t time.Time) error
	MarkNotified(ctx context.Context, listingIDs []int64) error
	FindPushSubscription(ctx context.Context, userID string) (*models.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, userID string) error
}

// Notifier delivers one push message. An expired or invalid
// subscription surfaces as notify.ErrSubscriptionGone.
type Notifier interface {
	Send(ctx context.Context, sub *models.PushSubscription, title, body string) error
}

// ListingSource abstracts the browser-driven crawl of one criteria.
type ListingSource interface {
	Start() error
	Close()
	Crawl(criteria *models.SearchCriteria) ([]models.ScrapedListing, error)
}

// Orchestrator drives one job invocation: sequentially crawl every
// active criteria, persist genuinely new listings, then fan out one
// aggregated notification per criteria that produced any.
type Orchestrator struct {
	store    Store
	source   ListingSource
	notifier Notifier
	runs     *storage.RunLog // optional operational bookkeeping
}

func NewOrchestrator(store Store, source ListingSource, notifier Notifier, runs *storage.RunLog) *Orchestrator {
	return &Orchestrator{
		store:    store,
		source:   source,
		notifier: notifier,
		runs:     runs,
	}
}

// criteriaBatch pairs a criteria with the listings newly inserted for
// it during this run.
type criteriaBatch struct {
	criteria models.SearchCriteria
	listings []models.FoundListing
}

// Run executes one job invocation and always returns a summary; the
// browser is released on every path. Per-criteria failures are logged
// and skipped, only failures outside the per-criteria cycle make the
// whole invocation report failure.
func (o *Orchestrator) Run(ctx context.Context) models.CrawlSummary {
	run := &models.CrawlRun{
		JobID:     uuid.New(),
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	if o.runs != nil {
		if err := o.runs.CreateRun(run); err != nil {
			log.Printf("Warning: could not record crawl run: %v", err)
		}
	}

	summary := o.crawlAll(ctx, run)

	now := time.Now()
	run.FinishedAt = &now
	run.Message = summary.Message
	if summary.Success {
		run.Status = models.RunStatusCompleted
	} else {
		run.Status = models.RunStatusFailed
	}
	if o.runs != nil {
		if err := o.runs.UpdateRun(run); err != nil {
			log.Printf("Warning: could not update crawl run: %v", err)
		}
	}
	return summary
}

func (o *Orchestrator) crawlAll(ctx context.Context, run *models.CrawlRun) models.CrawlSummary {
	criteria, err := o.store.FindActiveCriteria(ctx)
	if err != nil {
		return o.fail(run, fmt.Errorf("load active criteria: %w", err))
	}
	run.CriteriaTotal = len(criteria)
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Job %s: %d active criteria", run.JobID, len(criteria)), "")

	if len(criteria) == 0 {
		return models.CrawlSummary{Success: true, Count: 0, Message: "Found 0 new listings"}
	}

	if err := o.source.Start(); err != nil {
		return o.fail(run, fmt.Errorf("acquire browser: %w", err))
	}
	defer o.source.Close()

	var batches []criteriaBatch
	for i := range criteria {
		c := &criteria[i]
		if inserted, ok := o.crawlOne(ctx, run, c); ok && len(inserted) > 0 {
			batches = append(batches, criteriaBatch{criteria: *c, listings: inserted})
		}
	}

	o.notifyAll(ctx, run, batches)

	return models.CrawlSummary{
		Success: true,
		Count:   run.ListingsNew,
		Message: fmt.Sprintf("Found %d new listings", run.ListingsNew),
	}
}

// crawlOne runs navigate-fill-collect-persist for a single criteria.
// The bool result reports whether the cycle completed; a false means
// the criteria was skipped and its lastChecked left untouched.
func (o *Orchestrator) crawlOne(ctx context.Context, run *models.CrawlRun, c *models.SearchCriteria) ([]models.FoundListing, bool) {
	tag := fmt.Sprintf("criteria %d (%s/%s)", c.ID, c.Region, c.Category)
	o.log(run, models.LogLevelInfo, "Crawling "+tag, tag)

	listings, err := o.source.Crawl(c)
	if err != nil {
		o.log(run, models.LogLevelError, fmt.Sprintf("Skipping %s: %v", tag, err), tag)
		run.CriteriaFailed++
		return nil, false
	}
	run.ListingsFound += len(listings)

	var inserted []models.FoundListing
	for _, l := range listings {
		if l.Title == "" || l.SourceURL == "" {
			o.log(run, models.LogLevelWarn, "Skipping listing without source URL or title", tag)
			continue
		}

		found := &models.FoundListing{
			CriteriaID:  c.ID,
			SourceURL:   l.SourceURL,
			Title:       l.Title,
			Price:       l.Price,
			Rooms:       l.Rooms,
			Area:        l.Area,
			District:    l.District,
			Description: l.Description,
			ImageURL:    l.ImageURL,
			FoundAt:     time.Now(),
		}

		isNew, err := o.store.InsertListingIfNew(ctx, found)
		if err != nil {
			o.log(run, models.LogLevelError, fmt.Sprintf("Insert failed for %s: %v", l.SourceURL, err), tag)
			continue
		}
		if isNew {
			inserted = append(inserted, *found)
		}
	}
	run.ListingsNew += len(inserted)

	if err := o.store.UpdateLastChecked(ctx, c.ID, time.Now()); err != nil {
		o.log(run, models.LogLevelError, fmt.Sprintf("Update lastChecked failed for %s: %v", tag, err), tag)
	}

	o.log(run, models.LogLevelInfo, fmt.Sprintf("%s: %d listings, %d new", tag, len(listings), len(inserted)), tag)
	return inserted, true
}

// notifyAll sends one aggregated push per criteria with new listings.
// The owner's subscription is looked up and passed explicitly; a
// delivery failure for one user never blocks the others.
func (o *Orchestrator) notifyAll(ctx context.Context, run *models.CrawlRun, batches []criteriaBatch) {
	for _, b := range batches {
		tag := fmt.Sprintf("criteria %d", b.criteria.ID)

		sub, err := o.store.FindPushSubscription(ctx, b.criteria.UserID)
		if err != nil {
			o.log(run, models.LogLevelError, fmt.Sprintf("Subscription lookup failed for %s: %v", tag, err), tag)
			continue
		}
		if sub == nil {
			continue
		}

		title, body := notify.Digest(b.criteria.Region, b.listings)
		if err := o.notifier.Send(ctx, sub, title, body); err != nil {
			if errors.Is(err, notify.ErrSubscriptionGone) {
				o.log(run, models.LogLevelWarn, fmt.Sprintf("Subscription expired for user %s, removing", sub.UserID), tag)
				if err := o.store.DeletePushSubscription(ctx, sub.UserID); err != nil {
					o.log(run, models.LogLevelError, fmt.Sprintf("Subscription delete failed: %v", err), tag)
				}
			} else {
				o.log(run, models.LogLevelError, fmt.Sprintf("Push failed for %s: %v", tag, err), tag)
			}
			continue
		}

		ids := make([]int64, 0, len(b.listings))
		for _, l := range b.listings {
			ids = append(ids, l.ID)
		}
		if err := o.store.MarkNotified(ctx, ids); err != nil {
			o.log(run, models.LogLevelError, fmt.Sprintf("Mark notified failed for %s: %v", tag, err), tag)
		}
	}
}

func (o *Orchestrator) fail(run *models.CrawlRun, err error) models.CrawlSummary {
	o.log(run, models.LogLevelError, err.Error(), "")
	return models.CrawlSummary{Success: false, Count: 0, Message: err.Error()}
}

func (o *Orchestrator) log(run *models.CrawlRun, level models.LogLevel, message, tag string) {
	log.Printf("[%s] %s", level, message)
	if o.runs != nil {
		o.runs.Log(run.ID, level, message, tag)
	}
}
