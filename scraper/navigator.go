package scraper

import (
	"errors"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"

	"sslv_watcher/config"
	"sslv_watcher/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	actionDelayMS = 1000
	filterWaitMS  = 10000
)

var (
	ErrUnknownRegion   = errors.New("unknown region")
	ErrUnknownCategory = errors.New("unknown category")
)

// Navigator owns the browser for one job invocation. Start acquires it,
// Close releases it; Close is safe on every exit path.
type Navigator struct {
	site    *config.SiteConfig
	browser config.BrowserConfig
	pw      *playwright.Playwright
	chrome  playwright.Browser
}

func NewNavigator(site *config.SiteConfig, browser config.BrowserConfig) *Navigator {
	return &Navigator{site: site, browser: browser}
}

func (n *Navigator) Start() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	n.pw = pw

	chrome, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(n.browser.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		n.pw.Stop()
		n.pw = nil
		return fmt.Errorf("launch browser: %w", err)
	}
	n.chrome = chrome
	return nil
}

func (n *Navigator) Close() {
	if n.chrome != nil {
		n.chrome.Close()
		n.chrome = nil
	}
	if n.pw != nil {
		n.pw.Stop()
		n.pw = nil
	}
}

// SearchURL resolves the category/region listing URL for a criteria.
// Unknown region or category values are configuration errors, fatal for
// that criteria only.
func (n *Navigator) SearchURL(criteria *models.SearchCriteria) (string, error) {
	region, ok := n.site.Region(criteria.Region)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, criteria.Region)
	}
	category, ok := n.site.Category(criteria.Category)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, criteria.Category)
	}

	url := n.site.BaseURL + n.site.ListingPath + region.URLPath + "/"
	if criteria.District != nil && *criteria.District != "" && *criteria.District != "all" {
		url += *criteria.District + "/"
	} else {
		url += "all/"
	}
	url += category.URLPath + "/"
	return url, nil
}

// Open navigates a fresh page to the criteria's search form and waits
// for it to become interactive. The filter table's absence after a
// bounded wait is tolerated; some region/category combinations render
// without it.
func (n *Navigator) Open(criteria *models.SearchCriteria) (playwright.Page, error) {
	url, err := n.SearchURL(criteria)
	if err != nil {
		return nil, err
	}

	context, err := n.chrome.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	page.SetDefaultTimeout(n.browser.TimeoutMS)

	log.Printf("Navigating to %s", url)
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		context.Close()
		return nil, fmt.Errorf("goto %s: %w", url, err)
	}

	if err := page.Locator(selFilterTable).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(filterWaitMS),
	}); err != nil {
		log.Printf("Filter table not immediately visible, proceeding anyway")
	}

	page.WaitForTimeout(actionDelayMS * 2)
	return page, nil
}

// Submit triggers the search and waits for the results table. A missing
// submit control or a results timeout is fatal for this criteria's run.
func (n *Navigator) Submit(page playwright.Page) error {
	button := page.Locator(selSearchButton)
	if err := button.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return fmt.Errorf("search button not found: %w", err)
	}

	if err := button.Click(); err != nil {
		return fmt.Errorf("click search: %w", err)
	}

	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("wait for results load: %w", err)
	}

	if err := page.Locator(selResultsRow).First().WaitFor(); err != nil {
		return fmt.Errorf("results rows not found: %w", err)
	}
	return nil
}
