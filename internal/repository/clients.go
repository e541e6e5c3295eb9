package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
)

const clientColumns = `id, owner_id, name, phone, email, notes, is_active, created_at, updated_at`

func scanClient(row rowScanner) (*model.Client, error) {
	var c model.Client
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient сохраняет нового клиента.
func (r *PostgresRepository) CreateClient(ctx context.Context, c *model.Client) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clients (id, owner_id, name, phone, email, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, c.ID, c.OwnerID, c.Name, c.Phone, c.Email, c.Notes, c.IsActive).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError(err, "insert client")
	}
	return nil
}

// UpdateClient обновляет клиента владельца.
func (r *PostgresRepository) UpdateClient(ctx context.Context, c *model.Client) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE clients
		SET name = $3, phone = $4, email = $5, notes = $6, is_active = $7, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, c.OwnerID, c.ID, c.Name, c.Phone, c.Email, c.Notes, c.IsActive).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapError(err, "update client")
	}
	return nil
}

// GetClient возвращает клиента владельца.
func (r *PostgresRepository) GetClient(ctx context.Context, ownerID, id uuid.UUID) (*model.Client, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = $1 AND id = $2`, ownerID, id)
	c, err := scanClient(row)
	if err != nil {
		return nil, mapError(err, "select client")
	}
	return c, nil
}

// ListClients возвращает клиентов владельца. Непустой query ищет по имени и телефону.
func (r *PostgresRepository) ListClients(ctx context.Context, ownerID uuid.UUID, query string) ([]model.Client, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE owner_id = $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR phone LIKE '%' || $2 || '%')
		ORDER BY name
	`, ownerID, query)
	if err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	defer rows.Close()

	var res []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

// DeleteClient удаляет клиента. Ссылки из заказов обнуляются, снимок имени и телефона остаётся.
func (r *PostgresRepository) DeleteClient(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM clients WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete client")
	}
	return expectOne(tag)
}
