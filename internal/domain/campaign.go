package domain

import "time"

// Campaign groups generated artifacts and jobs under one named container.
type Campaign struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
