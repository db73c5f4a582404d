package notify

import (
	"fmt"

	"sslv_watcher/models"
)

// Digest builds one aggregated notification for a criteria's newly
// found listings: the count plus the min–max price range when any of
// the listings carries a price.
func Digest(region string, listings []models.FoundListing) (title, body string) {
	n := len(listings)
	if n == 1 {
		title = "🏠 Jauns dzīvoklis!"
		body = fmt.Sprintf("%s: atrasts 1 jauns sludinājums", region)
	} else {
		title = "🏠 Jauni dzīvokļi!"
		body = fmt.Sprintf("%s: atrasti %d jauni sludinājumi", region, n)
	}

	if min, max, ok := priceRange(listings); ok {
		if min == max {
			body += fmt.Sprintf(" (%d €)", min)
		} else {
			body += fmt.Sprintf(" (%d–%d €)", min, max)
		}
	}
	return title, body
}

func priceRange(listings []models.FoundListing) (min, max int, ok bool) {
	for _, l := range listings {
		if l.Price == nil {
			continue
		}
		if !ok {
			min, max, ok = *l.Price, *l.Price, true
			continue
		}
		if *l.Price < min {
			min = *l.Price
		}
		if *l.Price > max {
			max = *l.Price
		}
	}
	return min, max, ok
}
