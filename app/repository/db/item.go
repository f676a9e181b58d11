package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"inventory-platform/app/domain"
	"log/slog"
)

type itemRepository struct {
	conn   *sql.DB
	driver string
}

func NewItemRepository(db *sql.DB, driver string) domain.ItemRepository {
	return &itemRepository{db, driver}
}

func (r *itemRepository) q(query string) string {
	return rebind(r.driver, query)
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := r.q(`INSERT INTO items (name, quantity, category_id) VALUES (?, ?, ?) RETURNING id`)

	err := r.conn.QueryRowContext(ctx, query, item.Name, item.Quantity, item.CategoryID).Scan(&item.ID)
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] Create", "queryRowContext", err)
		return err
	}

	slog.InfoContext(ctx, "[itemRepository] Create", "itemID", item.ID)
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	query := r.q(`SELECT id, name, quantity, category_id FROM items WHERE id = ?`)

	var item domain.Item
	err := r.conn.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.Quantity, &item.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
		}
		slog.ErrorContext(ctx, "[itemRepository] GetByID", "queryRowContext", err)
		return item, err
	}

	return item, nil
}

func (r *itemRepository) GetList(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	query := `SELECT id, name, quantity, category_id FROM items`
	args := []any{}

	if filter.CategoryID != 0 {
		query += ` WHERE category_id = ?`
		args = append(args, filter.CategoryID)
	}
	query += ` ORDER BY id`

	rows, err := r.conn.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] GetList", "queryContext", err)
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.CategoryID); err != nil {
			slog.ErrorContext(ctx, "[itemRepository] GetList", "scan", err)
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[itemRepository] GetList", "rowError", err)
		return nil, err
	}

	return items, nil
}

// LockForUpdate reads the row inside tx. Postgres takes a row lock; sqlite
// already serializes writers through its single connection.
func (r *itemRepository) LockForUpdate(ctx context.Context, id int64, tx *sql.Tx) (domain.Item, error) {
	query := `SELECT id, name, quantity, category_id FROM items WHERE id = ?`
	if r.driver == DriverPostgres {
		query += ` FOR UPDATE`
	}

	var item domain.Item
	err := tx.QueryRowContext(ctx, r.q(query), id).Scan(&item.ID, &item.Name, &item.Quantity, &item.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
		}
		slog.ErrorContext(ctx, "[itemRepository] LockForUpdate", "queryRowContext", err)
		return item, err
	}

	return item, nil
}

func (r *itemRepository) UpdateQuantity(ctx context.Context, id, quantity int64, tx *sql.Tx) error {
	query := r.q(`UPDATE items SET quantity = ? WHERE id = ?`)
	res, err := tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] UpdateQuantity", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] UpdateQuantity", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	query := r.q(`DELETE FROM items WHERE id = ?`)
	res, err := r.conn.ExecContext(ctx, query, id)
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] Delete", "execContext", err)
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] Delete", "rowsAffected", err)
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}

	slog.InfoContext(ctx, "[itemRepository] Delete", "itemID", id)
	return nil
}

func (r *itemRepository) WithTransaction(ctx context.Context, fn func(context.Context, *sql.Tx) error) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "[itemRepository] WithTransaction", "beginTx", err)
		return err
	}

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.ErrorContext(ctx, "[itemRepository] WithTransaction", "rollback", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "[itemRepository] WithTransaction", "commit", err)
		return err
	}

	return nil
}
