package scraper

import (
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"

	"sslv_watcher/models"
)

// CollectListings walks every results row on the loaded page, in page
// order, and runs the extractor over each. Only the first results page
// is collected; pagination is out of scope.
func CollectListings(page playwright.Page, baseURL string) ([]models.ScrapedListing, error) {
	rows, err := page.Locator(selResultsRow).All()
	if err != nil {
		return nil, fmt.Errorf("select result rows: %w", err)
	}

	rowsHTML := make([]string, 0, len(rows))
	for _, row := range rows {
		html, err := row.Evaluate("el => el.outerHTML", nil)
		if err != nil {
			log.Printf("Could not read result row, skipping: %v", err)
			continue
		}
		if s, ok := html.(string); ok {
			rowsHTML = append(rowsHTML, s)
		}
	}

	listings := ExtractAll(baseURL, rowsHTML)
	log.Printf("Found %d listings in %d rows", len(listings), len(rowsHTML))
	return listings, nil
}
