package models

import "time"

// Admin is the session principal and the record managed on the admini page.
type Admin struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
