package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
)

const shopColumns = `id, owner_id, name, phone, address, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShop(row rowScanner) (*model.Shop, error) {
	var s model.Shop
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Phone, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateShop сохраняет новую точку.
func (r *PostgresRepository) CreateShop(ctx context.Context, s *model.Shop) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO shops (id, owner_id, name, phone, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, s.ID, s.OwnerID, s.Name, s.Phone, s.Address, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err, "insert shop")
	}
	return nil
}

// UpdateShop обновляет точку владельца.
func (r *PostgresRepository) UpdateShop(ctx context.Context, s *model.Shop) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE shops
		SET name = $3, phone = $4, address = $5, is_active = $6, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, s.OwnerID, s.ID, s.Name, s.Phone, s.Address, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err, "update shop")
	}
	return nil
}

// GetShop возвращает точку владельца.
func (r *PostgresRepository) GetShop(ctx context.Context, ownerID, id uuid.UUID) (*model.Shop, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE owner_id = $1 AND id = $2`, ownerID, id)
	s, err := scanShop(row)
	if err != nil {
		return nil, mapError(err, "select shop")
	}
	return s, nil
}

// ListShops возвращает точки владельца, упорядоченные по имени.
func (r *PostgresRepository) ListShops(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+shopColumns+` FROM shops WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select shops: %w", err)
	}
	defer rows.Close()

	var res []model.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		res = append(res, *s)
	}
	return res, rows.Err()
}

// DeleteShop удаляет точку. Точку с заказами удалить нельзя.
func (r *PostgresRepository) DeleteShop(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM shops WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete shop")
	}
	return expectOne(tag)
}
