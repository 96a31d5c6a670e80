package domain

import "time"

// Series groups figures, e.g. a product wave or franchise.
type Series struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        *string   `json:"slug,omitempty"`
	FigureCount int64     `json:"figureCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
