package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sslv_watcher/models"
)

var (
	priceRe  = regexp.MustCompile(`(\d+(?:,\d+)?)`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// ExtractListing parses one results row into a ScrapedListing. It
// returns nil for rows that are not real listings: advertising banners,
// rows without a linked title, and priceless "wanted to buy/rent" rows.
// It never fails a page; malformed rows are simply excluded.
func ExtractListing(baseURL, rowHTML string) *models.ScrapedListing {
	// A bare <tr> fragment gets its table elements stripped by the HTML
	// parser, so re-wrap the row before parsing.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + rowHTML + "</table>"))
	if err != nil {
		return nil
	}

	row := doc.Find("tr").First()
	if row.Length() == 0 {
		return nil
	}
	if strings.Contains(row.AttrOr("id", ""), bannerIDMarker) {
		return nil
	}

	titleEl := row.Find(selRowTitle).First()
	title := strings.TrimSpace(titleEl.Text())
	href, hasHref := titleEl.Attr("href")
	if titleEl.Length() == 0 || title == "" || !hasHref || href == "" {
		return nil
	}

	priceText := strings.TrimSpace(row.Find(selRowPrice).First().Text())
	if priceText == placeholderBuying || priceText == placeholderRenting {
		return nil
	}

	listing := &models.ScrapedListing{
		Title:     title,
		SourceURL: baseURL + href,
		Price:     parsePrice(priceText),
		Rooms:     parseDigits(row.Find(selRowRooms).First().Text()),
		Area:      parseDigits(row.Find(selRowArea).First().Text()),
	}

	if district := strings.TrimSpace(row.Find(selRowLocation).First().Text()); district != "" {
		listing.District = &district
	}

	if src, ok := row.Find(selRowImage).First().Attr("src"); ok {
		if src != "" && !strings.Contains(src, noImageMarker) {
			large := strings.Replace(src, thumbSegment, largeSegment, 1)
			listing.ImageURL = &large
		}
	}

	return listing
}

// ExtractAll applies ExtractListing to every row and drops the nils,
// preserving page order.
func ExtractAll(baseURL string, rowsHTML []string) []models.ScrapedListing {
	var listings []models.ScrapedListing
	for _, html := range rowsHTML {
		if l := ExtractListing(baseURL, html); l != nil {
			listings = append(listings, *l)
		}
	}
	return listings
}

// parsePrice takes the first integer-like token, tolerating a thousands
// comma ("129,000" -> 129000). No token means no price, not a rejection.
func parsePrice(text string) *int {
	match := priceRe.FindString(text)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// parseDigits takes the first run of digits ("3 istabas" -> 3).
func parseDigits(text string) *int {
	match := digitsRe.FindString(strings.TrimSpace(text))
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}
