package models

import "time"

// ScrapedListing is the extractor's output for one results row, before
// deduplication and persistence. Description is always nil in the list
// view; it only exists on the detail page.
type ScrapedListing struct {
	Title       string  `json:"title"`
	SourceURL   string  `json:"source_url"`
	Price       *int    `json:"price"`
	Rooms       *int    `json:"rooms"`
	Area        *int    `json:"area"`
	District    *string `json:"district"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

// FoundListing is a persisted listing. SourceURL is globally unique and
// serves as the dedup key: a listing is created once, on first sighting.
type FoundListing struct {
	ID          int64     `json:"id" db:"id"`
	CriteriaID  int64     `json:"criteria_id" db:"criteria_id"`
	SourceURL   string    `json:"source_url" db:"source_url"`
	Title       string    `json:"title" db:"title"`
	Price       *int      `json:"price" db:"price"`
	Rooms       *int      `json:"rooms" db:"rooms"`
	Area        *int      `json:"area" db:"area"`
	District    *string   `json:"district" db:"district"`
	Description *string   `json:"description" db:"description"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	FoundAt     time.Time `json:"found_at" db:"found_at"`
	Notified    bool      `json:"notified" db:"notified"`
	IsFavorite  bool      `json:"is_favorite" db:"is_favorite"`
}
