package models

import "time"

type Discount struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
