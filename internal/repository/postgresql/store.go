package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/storelink/storeops-backend-go/internal/domain/store"
	"github.com/storelink/storeops-backend-go/internal/pkg/database"
)

type storeRepository struct {
	db *database.DB
}

// GetAssignedStore implements store.StoreRepository.
func (s *storeRepository) GetAssignedStore(ctx context.Context, employeeID string) (store.Store, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT s.id, s.name, s.address, s.latitude, s.longitude, s.created_at, s.updated_at
		FROM employees e
		JOIN stores s ON s.id = e.store_id
		WHERE e.id = $1
	`

	var st store.Store
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&st.ID, &st.Name, &st.Address, &st.Latitude, &st.Longitude, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.Store{}, store.ErrNotAssigned
		}
		return store.Store{}, fmt.Errorf("failed to get assigned store: %w", err)
	}

	return st, nil
}

// GetByID implements store.StoreRepository.
func (s *storeRepository) GetByID(ctx context.Context, id string) (store.Store, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, name, address, latitude, longitude, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var st store.Store
	err := q.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.Name, &st.Address, &st.Latitude, &st.Longitude, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.Store{}, store.ErrStoreNotFound
		}
		return store.Store{}, fmt.Errorf("failed to get store by ID: %w", err)
	}

	return st, nil
}

// List implements store.StoreRepository.
func (s *storeRepository) List(ctx context.Context) ([]store.Store, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, name, address, latitude, longitude, created_at, updated_at
		FROM stores
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []store.Store
	for rows.Next() {
		var st store.Store
		if err := rows.Scan(&st.ID, &st.Name, &st.Address, &st.Latitude, &st.Longitude, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, st)
	}

	return stores, nil
}

func NewStoreRepository(db *database.DB) store.StoreRepository {
	return &storeRepository{db: db}
}
