package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
)

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, created_at, updated_at, store_id, name, description, price`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Item.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var it domain.Item

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&it.ID, &createdAt, &updatedAt, &it.StoreID, &it.Name, &it.Description, &it.Price)
	if err != nil {
		return nil, err
	}

	it.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	it.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &it, nil
}

// CreateItem inserts a new item.
// Returns store.ErrAlreadyExists if an item with that name already
// exists, and store.ErrNotFound if the parent store does not exist.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, created_at, updated_at, store_id, name, description, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
		item.StoreID,
		item.Name,
		item.Description,
		item.Price,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// GetItem retrieves an item by ID.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListItems returns all items across all stores, ordered by creation time.
func (s *Store) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at ASC`)
}

// ListItemsByStore returns all items belonging to a store.
func (s *Store) ListItemsByStore(ctx context.Context, storeID string) ([]*domain.Item, error) {
	return s.queryItems(ctx,
		`SELECT `+itemColumns+` FROM items WHERE store_id = ? ORDER BY created_at ASC`, storeID)
}

// ListItemsByTag returns all items linked to a tag.
func (s *Store) ListItemsByTag(ctx context.Context, tagID string) ([]*domain.Item, error) {
	return s.queryItems(ctx, `
		SELECT i.id, i.created_at, i.updated_at, i.store_id, i.name, i.description, i.price
		FROM items i
		JOIN items_tags it ON it.item_id = i.id
		WHERE it.tag_id = ?
		ORDER BY i.created_at ASC`, tagID)
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem performs a full row update on an existing item.
// Returns store.ErrAlreadyExists if the new name collides with another
// item, and store.ErrNotFound if the item does not exist.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET updated_at = ?, store_id = ?, name = ?, description = ?, price = ?
		WHERE id = ?`,
		formatTime(item.UpdatedAt),
		item.StoreID,
		item.Name,
		item.Description,
		item.Price,
		item.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// DeleteItem removes an item. Tag links are removed by cascade.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
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
