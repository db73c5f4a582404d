package models

import "time"

// SearchCriteria is a user-saved apartment search filter. Nil bounds mean
// unbounded on that side.
type SearchCriteria struct {
	ID          int64      `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Region      string     `json:"region" db:"region"`
	District    *string    `json:"district" db:"district"`
	Category    string     `json:"category" db:"category"` // sell, rent-out, buy, rent-in
	MinPrice    *int       `json:"min_price" db:"min_price"`
	MaxPrice    *int       `json:"max_price" db:"max_price"`
	MinRooms    *int       `json:"min_rooms" db:"min_rooms"`
	MaxRooms    *int       `json:"max_rooms" db:"max_rooms"`
	MinArea     *int       `json:"min_area" db:"min_area"`
	MaxArea     *int       `json:"max_area" db:"max_area"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastChecked *time.Time `json:"last_checked" db:"last_checked"`
}
