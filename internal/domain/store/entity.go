package store

import (
	"time"
)

// Store is a retail location with its registered coordinates. Store
// management owns these rows; this service only reads them to resolve
// assignments and geofences.
type Store struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
