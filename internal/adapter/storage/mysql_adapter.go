package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/storefront-cart/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `
		SELECT storage_value FROM local_storage WHERE storage_key = ?`, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query item: %w", err)
	}

	return value, true, nil
}

func (m *MySQLAdapter) SetItem(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO local_storage (storage_key, storage_value, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE storage_value = VALUES(storage_value), updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	return nil
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *MySQLAdapter) Stock(ctx context.Context) ([]domain.StockEntry, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT product_id, stock FROM inventory ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	stock := []domain.StockEntry{}
	for rows.Next() {
		var entry domain.StockEntry
		if err := rows.Scan(&entry.ID, &entry.Amount); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		stock = append(stock, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}

	return stock, nil
}
