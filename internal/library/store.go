package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spinwheel/spinwheel/internal/media"
)

// Store provides access to the media_items table.
type Store struct {
	db *sql.DB
}

// NewStore creates a new media item store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// newItemID generates a uuid-hex identifier without dashes.
func newItemID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

const itemColumns = "id, type, title, platform, cover_url, tags, status, added_at, created_at, updated_at"

// Insert creates a new media item from validated input and returns it.
func (s *Store) Insert(ctx context.Context, in media.CreateInput) (*media.Item, error) {
	now := time.Now().UTC()
	item := &media.Item{
		ID:        newItemID(),
		Type:      in.Type,
		Title:     in.Title,
		Platform:  in.Platform,
		CoverURL:  in.CoverURL,
		Tags:      in.Tags,
		Status:    media.StatusActive,
		AddedAt:   now.Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	tagsJSON, err := json.Marshal(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO media_items (id, type, title, platform, cover_url, tags, status, added_at, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		item.ID, string(item.Type), item.Title,
		nullString(item.Platform), nullString(item.CoverURL),
		string(tagsJSON), string(item.Status), item.AddedAt,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert media item: %w", err)
	}

	return item, nil
}

// Get retrieves a non-deleted media item by ID.
func (s *Store) Get(ctx context.Context, id string) (*media.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM media_items
		WHERE id = ? AND is_deleted = 0`, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}
	return item, nil
}

// ListAll returns the current catalog snapshot: every non-deleted item,
// newest first with ID as tiebreak so the order is stable across calls.
func (s *Store) ListAll(ctx context.Context) ([]*media.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM media_items
		WHERE is_deleted = 0
		ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	defer rows.Close()

	var items []*media.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media items: %w", err)
	}
	return items, nil
}

// Update applies a validated partial update and returns the updated item.
func (s *Store) Update(ctx context.Context, id string, in media.UpdateInput) (*media.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Type != nil {
		item.Type = *in.Type
	}
	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Platform != nil {
		item.Platform = *in.Platform
	}
	if in.CoverURL != nil {
		item.CoverURL = *in.CoverURL
	}
	if in.Tags != nil {
		item.Tags = *in.Tags
	}
	if in.Status != nil {
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now().UTC()

	tagsJSON, err := json.Marshal(item.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE media_items
		SET type = ?, title = ?, platform = ?, cover_url = ?, tags = ?, status = ?, updated_at = ?
		WHERE id = ? AND is_deleted = 0`,
		string(item.Type), item.Title,
		nullString(item.Platform), nullString(item.CoverURL),
		string(tagsJSON), string(item.Status), item.UpdatedAt, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update media item: %w", err)
	}

	return item, nil
}

// SoftDelete marks a media item as deleted without removing the row.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE media_items
		SET is_deleted = 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete media item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// CountTotal returns the number of non-deleted items.
func (s *Store) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media_items WHERE is_deleted = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count media items: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of non-deleted items with the given status.
func (s *Store) CountByStatus(ctx context.Context, status media.Status) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media_items WHERE is_deleted = 0 AND status = ?`,
		string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count media items by status: %w", err)
	}
	return count, nil
}

// CountByType returns the number of non-deleted items with the given type.
func (s *Store) CountByType(ctx context.Context, t media.Type) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media_items WHERE is_deleted = 0 AND type = ?`,
		string(t)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count media items by type: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*media.Item, error) {
	var (
		item     media.Item
		itemType string
		status   string
		platform sql.NullString
		coverURL sql.NullString
		tagsJSON string
	)

	err := row.Scan(
		&item.ID, &itemType, &item.Title, &platform, &coverURL,
		&tagsJSON, &status, &item.AddedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Type = media.Type(itemType)
	item.Status = media.Status(status)
	item.Platform = platform.String
	item.CoverURL = coverURL.String

	item.Tags = []string{}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &item.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for item %s: %w", item.ID, err)
		}
	}

	return &item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
