package store

import (
	"context"
)

// StoreRepository is the read-only store directory. Store CRUD lives in the
// store-management service; the clock engine only resolves assignments and
// looks up coordinates.
type StoreRepository interface {
	// GetAssignedStore resolves the store an employee works at, returning
	// ErrNotAssigned when the employee has none.
	GetAssignedStore(ctx context.Context, employeeID string) (Store, error)

	// GetByID retrieves a store by its ID
	GetByID(ctx context.Context, id string) (Store, error)

	// List retrieves all stores
	List(ctx context.Context) ([]Store, error)
}
