package models

import "time"

// PushSubscription holds one user's browser push endpoint. Subscription
// is the serialized endpoint+keys bundle as handed over by the browser.
type PushSubscription struct {
	UserID       string    `json:"user_id" db:"user_id"`
	Subscription string    `json:"subscription" db:"subscription"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
