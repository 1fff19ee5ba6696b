package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
)

// storeColumns is the ordered list of columns selected in store queries.
// Must match the scan order in scanStore.
const storeColumns = `id, created_at, updated_at, name`

// scanStore scans a sql.Row (or sql.Rows via its Scan method) into a domain.Store.
func scanStore(scanner interface{ Scan(dest ...any) error }) (*domain.Store, error) {
	var st domain.Store

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&st.ID, &createdAt, &updatedAt, &st.Name)
	if err != nil {
		return nil, err
	}

	st.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	st.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

// CreateStore inserts a new store.
// Returns store.ErrAlreadyExists if the name is taken.
func (s *Store) CreateStore(ctx context.Context, st *domain.Store) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stores (id, created_at, updated_at, name)
		VALUES (?, ?, ?, ?)`,
		st.ID,
		formatTime(st.CreatedAt),
		formatTime(st.UpdatedAt),
		st.Name,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetStore retrieves a store by ID.
// Returns store.ErrNotFound if the store does not exist.
func (s *Store) GetStore(ctx context.Context, id string) (*domain.Store, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM stores WHERE id = ?`, id)

	st, err := scanStore(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListStores returns all stores ordered by creation time.
func (s *Store) ListStores(ctx context.Context) ([]*domain.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+storeColumns+` FROM stores ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*domain.Store
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stores, nil
}

// DeleteStore removes a store. Items and tags belonging to the store,
// and their links, are removed by the ON DELETE CASCADE constraints.
// Returns store.ErrNotFound if the store does not exist.
func (s *Store) DeleteStore(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
