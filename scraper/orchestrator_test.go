package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"sslv_watcher/models"
	"sslv_watcher/notify"
)

type fakeStore struct {
	criteria    []models.SearchCriteria
	criteriaErr error
	insertErr   error

	listings    map[string]models.FoundListing
	nextID      int64
	lastChecked map[int64]time.Time
	notified    map[int64]bool
	subs        map[string]models.PushSubscription
	deletedSubs []string
}

func newFakeStore(criteria ...models.SearchCriteria) *fakeStore {
	return &fakeStore{
		criteria:    criteria,
		listings:    make(map[string]models.FoundListing),
		lastChecked: make(map[int64]time.Time),
		notified:    make(map[int64]bool),
		subs:        make(map[string]models.PushSubscription),
	}
}

func (s *fakeStore) FindActiveCriteria(ctx context.Context) ([]models.SearchCriteria, error) {
	return s.criteria, s.criteriaErr
}

func (s *fakeStore) InsertListingIfNew(ctx context.Context, l *models.FoundListing) (bool, error) {
	if s.insertErr != nil {
		return false, s.insertErr
	}
	if _, exists := s.listings[l.SourceURL]; exists {
		return false, nil
	}
	s.nextID++
	l.ID = s.nextID
	s.listings[l.SourceURL] = *l
	return true, nil
}

func (s *fakeStore) UpdateLastChecked(ctx context.Context, criteriaID int64, t time.Time) error {
	s.lastChecked[criteriaID] = t
	return nil
}

func (s *fakeStore) MarkNotified(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		s.notified[id] = true
	}
	return nil
}

func (s *fakeStore) FindPushSubscription(ctx context.Context, userID string) (*models.PushSubscription, error) {
	sub, ok := s.subs[userID]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (s *fakeStore) DeletePushSubscription(ctx context.Context, userID string) error {
	delete(s.subs, userID)
	s.deletedSubs = append(s.deletedSubs, userID)
	return nil
}

type fakeSource struct {
	crawl   func(criteria *models.SearchCriteria) ([]models.ScrapedListing, error)
	started int
	closed  int
}

func (f *fakeSource) Start() error { f.started++; return nil }
func (f *fakeSource) Close()       { f.closed++ }
func (f *fakeSource) Crawl(criteria *models.SearchCriteria) ([]models.ScrapedListing, error) {
	return f.crawl(criteria)
}

type fakeNotifier struct {
	err  error
	sent []string // "user|title|body"
}

func (f *fakeNotifier) Send(ctx context.Context, sub *models.PushSubscription, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sub.UserID+"|"+title+"|"+body)
	return nil
}

func scraped(url string, price *int) models.ScrapedListing {
	return models.ScrapedListing{
		Title:     "Pārdod dzīvokli",
		SourceURL: url,
		Price:     price,
	}
}

func rigaCriteria(id int64, user string) models.SearchCriteria {
	return models.SearchCriteria{ID: id, UserID: user, Region: "Rīga", Category: "sell", IsActive: true}
}

func TestOrchestratorRun_InsertsAndNotifies(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))
	store.subs["u1"] = models.PushSubscription{UserID: "u1", Subscription: "{}"}

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{
			scraped("https://www.ss.lv/msg/a.html", intPtr(95000)),
			scraped("https://www.ss.lv/msg/b.html", nil),
			scraped("https://www.ss.lv/msg/c.html", intPtr(129000)),
		}, nil
	}}
	notifier := &fakeNotifier{}

	summary := NewOrchestrator(store, source, notifier, nil).Run(context.Background())

	if !summary.Success {
		t.Fatalf("expected success, got %+v", summary)
	}
	if summary.Count != 3 {
		t.Errorf("expected count 3, got %d", summary.Count)
	}
	if len(store.listings) != 3 {
		t.Errorf("expected 3 stored listings, got %d", len(store.listings))
	}
	if _, ok := store.lastChecked[1]; !ok {
		t.Error("lastChecked not updated")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one aggregated notification, got %d", len(notifier.sent))
	}
	if !strings.Contains(notifier.sent[0], "95000–129000 €") {
		t.Errorf("notification missing price range: %s", notifier.sent[0])
	}
	if len(store.notified) != 3 {
		t.Errorf("expected 3 listings marked notified, got %d", len(store.notified))
	}
	if source.started != 1 || source.closed != 1 {
		t.Errorf("browser must be acquired and released exactly once, got start=%d close=%d", source.started, source.closed)
	}
}

// Running twice against an unchanged page never creates a second
// listing for the same source URL, and the second run notifies nobody.
func TestOrchestratorRun_Idempotent(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))
	store.subs["u1"] = models.PushSubscription{UserID: "u1", Subscription: "{}"}

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{
			scraped("https://www.ss.lv/msg/a.html", intPtr(50000)),
			scraped("https://www.ss.lv/msg/b.html", intPtr(60000)),
		}, nil
	}}
	notifier := &fakeNotifier{}
	orch := NewOrchestrator(store, source, notifier, nil)

	first := orch.Run(context.Background())
	if first.Count != 2 {
		t.Fatalf("first run: expected 2 new, got %d", first.Count)
	}

	second := orch.Run(context.Background())
	if !second.Success {
		t.Fatalf("second run must still succeed, got %+v", second)
	}
	if second.Count != 0 {
		t.Errorf("second run: expected 0 new, got %d", second.Count)
	}
	if len(store.listings) != 2 {
		t.Errorf("expected 2 stored listings after both runs, got %d", len(store.listings))
	}
	if len(notifier.sent) != 1 {
		t.Errorf("second run must not notify, got %d sends total", len(notifier.sent))
	}
}

// A criteria with an unknown region is skipped with a logged error
// while the remaining criteria complete and get their lastChecked
// updated.
func TestOrchestratorRun_BadRegionSkipped(t *testing.T) {
	bad := models.SearchCriteria{ID: 1, UserID: "u1", Region: "Atlantis", Category: "sell", IsActive: true}
	good := rigaCriteria(2, "u2")
	store := newFakeStore(bad, good)

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		if c.Region == "Atlantis" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, c.Region)
		}
		return []models.ScrapedListing{scraped("https://www.ss.lv/msg/x.html", intPtr(70000))}, nil
	}}

	summary := NewOrchestrator(store, source, &fakeNotifier{}, nil).Run(context.Background())

	if !summary.Success {
		t.Fatalf("job must succeed despite the bad criteria, got %+v", summary)
	}
	if summary.Count != 1 {
		t.Errorf("expected 1 new listing from the valid criteria, got %d", summary.Count)
	}
	if _, ok := store.lastChecked[1]; ok {
		t.Error("failed criteria must not get lastChecked updated")
	}
	if _, ok := store.lastChecked[2]; !ok {
		t.Error("valid criteria must get lastChecked updated")
	}
}

func TestOrchestratorRun_ZeroNewNoNotification(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))
	store.subs["u1"] = models.PushSubscription{UserID: "u1", Subscription: "{}"}
	store.listings["https://www.ss.lv/msg/a.html"] = models.FoundListing{ID: 99}

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{scraped("https://www.ss.lv/msg/a.html", intPtr(50000))}, nil
	}}
	notifier := &fakeNotifier{}

	summary := NewOrchestrator(store, source, notifier, nil).Run(context.Background())

	if summary.Count != 0 {
		t.Errorf("expected 0 new listings, got %d", summary.Count)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("no notification expected, got %d", len(notifier.sent))
	}
	if len(store.notified) != 0 {
		t.Errorf("nothing may be marked notified, got %d", len(store.notified))
	}
}

func TestOrchestratorRun_ExpiredSubscriptionRemoved(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))
	store.subs["u1"] = models.PushSubscription{UserID: "u1", Subscription: "{}"}

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{scraped("https://www.ss.lv/msg/a.html", intPtr(50000))}, nil
	}}
	notifier := &fakeNotifier{err: notify.ErrSubscriptionGone}

	summary := NewOrchestrator(store, source, notifier, nil).Run(context.Background())

	if !summary.Success {
		t.Fatalf("delivery failure must not fail the job, got %+v", summary)
	}
	if len(store.deletedSubs) != 1 || store.deletedSubs[0] != "u1" {
		t.Errorf("expired subscription must be removed, deleted: %v", store.deletedSubs)
	}
	if len(store.notified) != 0 {
		t.Errorf("undelivered listings must stay unnotified, got %d marked", len(store.notified))
	}
}

func TestOrchestratorRun_NoSubscriptionNoSend(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{scraped("https://www.ss.lv/msg/a.html", intPtr(50000))}, nil
	}}
	notifier := &fakeNotifier{}

	summary := NewOrchestrator(store, source, notifier, nil).Run(context.Background())

	if summary.Count != 1 {
		t.Errorf("expected the listing to be inserted, got count %d", summary.Count)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("no subscription means no send, got %d", len(notifier.sent))
	}
}

func TestOrchestratorRun_SkipsListingsWithoutTitleOrURL(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{
			{Title: "", SourceURL: "https://www.ss.lv/msg/a.html"},
			{Title: "Dzīvoklis", SourceURL: ""},
			scraped("https://www.ss.lv/msg/ok.html", nil),
		}, nil
	}}

	summary := NewOrchestrator(store, source, &fakeNotifier{}, nil).Run(context.Background())
	if summary.Count != 1 {
		t.Errorf("expected 1 insert, got %d", summary.Count)
	}
}

// A failing insert is logged and skipped without aborting the criteria
// cycle: the run still succeeds and lastChecked is still updated.
func TestOrchestratorRun_InsertFailureSkipsListing(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))
	store.subs["u1"] = models.PushSubscription{UserID: "u1", Subscription: "{}"}
	store.insertErr = errors.New("deadlock detected")

	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return []models.ScrapedListing{
			scraped("https://www.ss.lv/msg/a.html", intPtr(50000)),
			scraped("https://www.ss.lv/msg/b.html", intPtr(60000)),
		}, nil
	}}
	notifier := &fakeNotifier{}

	summary := NewOrchestrator(store, source, notifier, nil).Run(context.Background())

	if !summary.Success {
		t.Fatalf("insert failures must not fail the job, got %+v", summary)
	}
	if summary.Count != 0 {
		t.Errorf("expected 0 new listings, got %d", summary.Count)
	}
	if _, ok := store.lastChecked[1]; !ok {
		t.Error("criteria cycle completed, lastChecked must be updated")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("nothing was inserted, no notification expected, got %d", len(notifier.sent))
	}
}

func TestOrchestratorRun_CriteriaLoadFailure(t *testing.T) {
	store := newFakeStore()
	store.criteriaErr = errors.New("connection refused")

	summary := NewOrchestrator(store, &fakeSource{}, &fakeNotifier{}, nil).Run(context.Background())
	if summary.Success {
		t.Fatalf("expected failure summary, got %+v", summary)
	}
	if !strings.Contains(summary.Message, "connection refused") {
		t.Errorf("failure message must carry the error, got %q", summary.Message)
	}
}

func TestOrchestratorRun_BrowserReleasedOnCrawlFailure(t *testing.T) {
	store := newFakeStore(rigaCriteria(1, "u1"))
	source := &fakeSource{crawl: func(c *models.SearchCriteria) ([]models.ScrapedListing, error) {
		return nil, errors.New("navigation timeout")
	}}

	summary := NewOrchestrator(store, source, &fakeNotifier{}, nil).Run(context.Background())
	if !summary.Success {
		t.Fatalf("per-criteria failure must not fail the job, got %+v", summary)
	}
	if source.closed != 1 {
		t.Errorf("browser must be released, closed=%d", source.closed)
	}
}
