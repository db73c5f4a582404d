package scraper

import (
	"sslv_watcher/config"
	"sslv_watcher/models"
)

// Crawler runs one full navigate-fill-submit-collect cycle per
// criteria against a browser it owns for the duration of a job.
type Crawler struct {
	site *config.SiteConfig
	nav  *Navigator
}

func NewCrawler(site *config.SiteConfig, browser config.BrowserConfig) *Crawler {
	return &Crawler{
		site: site,
		nav:  NewNavigator(site, browser),
	}
}

func (c *Crawler) Start() error {
	return c.nav.Start()
}

func (c *Crawler) Close() {
	c.nav.Close()
}

// Crawl scrapes the first results page for one criteria. Navigation and
// submit failures propagate; form-fill trouble does not, each field is
// filled best-effort.
func (c *Crawler) Crawl(criteria *models.SearchCriteria) ([]models.ScrapedListing, error) {
	page, err := c.nav.Open(criteria)
	if err != nil {
		return nil, err
	}
	defer page.Context().Close()

	FillForm(page, criteria)

	if err := c.nav.Submit(page); err != nil {
		return nil, err
	}

	return CollectListings(page, c.site.BaseURL)
}
