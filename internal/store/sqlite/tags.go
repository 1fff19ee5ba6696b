package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/storekeeperapp/storekeeper-server/internal/domain"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, created_at, updated_at, store_id, name`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var tg domain.Tag

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&tg.ID, &createdAt, &updatedAt, &tg.StoreID, &tg.Name)
	if err != nil {
		return nil, err
	}

	tg.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	tg.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &tg, nil
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists if a tag with that name already
// exists, and store.ErrNotFound if the parent store does not exist.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, created_at, updated_at, store_id, name)
		VALUES (?, ?, ?, ?, ?)`,
		tag.ID,
		formatTime(tag.CreatedAt),
		formatTime(tag.UpdatedAt),
		tag.StoreID,
		tag.Name,
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

// GetTag retrieves a tag by ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	tg, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tg, nil
}

// ListTagsByStore returns all tags belonging to a store.
func (s *Store) ListTagsByStore(ctx context.Context, storeID string) ([]*domain.Tag, error) {
	return s.queryTags(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE store_id = ? ORDER BY created_at ASC`, storeID)
}

// ListTagsByItem returns all tags linked to an item.
func (s *Store) ListTagsByItem(ctx context.Context, itemID string) ([]*domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT t.id, t.created_at, t.updated_at, t.store_id, t.name
		FROM tags t
		JOIN items_tags it ON it.tag_id = t.id
		WHERE it.item_id = ?
		ORDER BY t.created_at ASC`, itemID)
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		tg, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteTag removes a tag. Links are removed by cascade; callers are
// expected to have checked CountItemsWithTag first.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
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

// CountItemsWithTag returns how many items currently carry the tag.
func (s *Store) CountItemsWithTag(ctx context.Context, tagID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items_tags WHERE tag_id = ?`, tagID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LinkTag attaches a tag to an item. Linking an already-linked pair is
// a no-op thanks to INSERT OR IGNORE on the composite primary key.
func (s *Store) LinkTag(ctx context.Context, itemID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO items_tags (item_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		itemID, tagID, formatTime(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

// UnlinkTag detaches a tag from an item.
// Returns store.ErrNotFound if the pair is not linked.
func (s *Store) UnlinkTag(ctx context.Context, itemID, tagID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM items_tags WHERE item_id = ? AND tag_id = ?`, itemID, tagID)
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
