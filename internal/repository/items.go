package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by pgx connections, pools and transactions alike.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries exposes the catalog's database operations over a DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Item is one catalog entry.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateItemParams carries the caller-supplied fields of a new item.
type CreateItemParams struct {
	Name        string
	Description string
}

const createItem = `
INSERT INTO items (id, name, description)
VALUES ($1, $2, $3)
RETURNING id, name, description, created_at
`

func (q *Queries) CreateItem(ctx context.Context, params CreateItemParams) (Item, error) {
	var item Item
	err := q.db.QueryRow(ctx, createItem, uuid.New(), params.Name, params.Description).
		Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt)
	if err != nil {
		return Item{}, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

const listItems = `
SELECT id, name, description, created_at
FROM items
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2
`

// ListItems returns one page of items in newest-first order.
func (q *Queries) ListItems(ctx context.Context, limit, offset int) ([]Item, error) {
	rows, err := q.db.Query(ctx, listItems, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	return items, nil
}

const countItems = `SELECT COUNT(*) FROM items`

// CountItems returns the total number of catalog entries.
func (q *Queries) CountItems(ctx context.Context) (int64, error) {
	var total int64
	if err := q.db.QueryRow(ctx, countItems).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return total, nil
}
