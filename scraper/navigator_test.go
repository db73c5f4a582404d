package scraper

import (
	"errors"
	"testing"

	"sslv_watcher/config"
	"sslv_watcher/models"
)

func testNavigator() *Navigator {
	return NewNavigator(config.DefaultSite(), config.BrowserConfig{Headless: true, TimeoutMS: 30000})
}

func TestSearchURL(t *testing.T) {
	nav := testNavigator()
	centre := "centre"

	tests := []struct {
		name     string
		criteria models.SearchCriteria
		want     string
	}{
		{
			name:     "region and category, no district",
			criteria: models.SearchCriteria{Region: "Rīga", Category: "sell"},
			want:     "https://www.ss.lv/lv/real-estate/flats/riga/all/sell/",
		},
		{
			name:     "with district",
			criteria: models.SearchCriteria{Region: "Rīga", Category: "rent-out", District: &centre},
			want:     "https://www.ss.lv/lv/real-estate/flats/riga/centre/hand_over/",
		},
		{
			name:     "regional area",
			criteria: models.SearchCriteria{Region: "Liepāja", Category: "rent-in"},
			want:     "https://www.ss.lv/lv/real-estate/flats/liepaja-and-reg/all/rent/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nav.SearchURL(&tt.criteria)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSearchURL_DistrictAll(t *testing.T) {
	nav := testNavigator()
	all := "all"
	criteria := models.SearchCriteria{Region: "Rīga", Category: "sell", District: &all}

	got, err := nav.SearchURL(&criteria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://www.ss.lv/lv/real-estate/flats/riga/all/sell/" {
		t.Errorf("district \"all\" must fall back to the all segment, got %s", got)
	}
}

func TestSearchURL_UnknownRegion(t *testing.T) {
	nav := testNavigator()
	_, err := nav.SearchURL(&models.SearchCriteria{Region: "Atlantis", Category: "sell"})
	if !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
}

func TestSearchURL_UnknownCategory(t *testing.T) {
	nav := testNavigator()
	_, err := nav.SearchURL(&models.SearchCriteria{Region: "Rīga", Category: "swap"})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
