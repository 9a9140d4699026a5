package store

import "errors"

// Store domain errors
var (
	ErrStoreNotFound = errors.New("store not found")
	ErrNotAssigned   = errors.New("employee is not assigned to a store")
)
