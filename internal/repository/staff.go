package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
)

const (
	staffColumns      = `id, owner_id, name, phone, is_active, created_at, updated_at`
	membershipColumns = `id, owner_id, staff_id, shop_id, role, is_active, created_at, updated_at`
)

func scanStaff(row rowScanner) (*model.Staff, error) {
	var s model.Staff
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanMembership(row rowScanner) (*model.StaffMembership, error) {
	var m model.StaffMembership
	if err := row.Scan(&m.ID, &m.OwnerID, &m.StaffID, &m.ShopID, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateStaff сохраняет нового сотрудника.
func (r *PostgresRepository) CreateStaff(ctx context.Context, s *model.Staff) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO staff (id, owner_id, name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, s.ID, s.OwnerID, s.Name, s.Phone, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err, "insert staff")
	}
	return nil
}

// UpdateStaff обновляет сотрудника владельца.
func (r *PostgresRepository) UpdateStaff(ctx context.Context, s *model.Staff) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE staff
		SET name = $3, phone = $4, is_active = $5, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, s.OwnerID, s.ID, s.Name, s.Phone, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapError(err, "update staff")
	}
	return nil
}

// GetStaff возвращает сотрудника владельца.
func (r *PostgresRepository) GetStaff(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE owner_id = $1 AND id = $2`, ownerID, id)
	s, err := scanStaff(row)
	if err != nil {
		return nil, mapError(err, "select staff")
	}
	return s, nil
}

// ListStaff возвращает сотрудников владельца.
func (r *PostgresRepository) ListStaff(ctx context.Context, ownerID uuid.UUID) ([]model.Staff, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select staff: %w", err)
	}
	defer rows.Close()

	var res []model.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		res = append(res, *s)
	}
	return res, rows.Err()
}

// DeleteStaff удаляет сотрудника. Ссылки из заказов обнуляются.
func (r *PostgresRepository) DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete staff")
	}
	return expectOne(tag)
}

// CreateMembership сохраняет привязку сотрудника к точке.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *model.StaffMembership) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO staff_memberships (id, owner_id, staff_id, shop_id, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, m.ID, m.OwnerID, m.StaffID, m.ShopID, m.Role, m.IsActive).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapError(err, "insert membership")
	}
	return nil
}

// UpdateMembership обновляет привязку сотрудника к точке.
func (r *PostgresRepository) UpdateMembership(ctx context.Context, m *model.StaffMembership) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE staff_memberships
		SET staff_id = $3, shop_id = $4, role = $5, is_active = $6, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, m.OwnerID, m.ID, m.StaffID, m.ShopID, m.Role, m.IsActive).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return mapError(err, "update membership")
	}
	return nil
}

// GetMembership возвращает привязку владельца.
func (r *PostgresRepository) GetMembership(ctx context.Context, ownerID, id uuid.UUID) (*model.StaffMembership, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM staff_memberships WHERE owner_id = $1 AND id = $2`, ownerID, id)
	m, err := scanMembership(row)
	if err != nil {
		return nil, mapError(err, "select membership")
	}
	return m, nil
}

// ListMemberships возвращает привязки владельца, при shopID != nil только для этой точки.
func (r *PostgresRepository) ListMemberships(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) ([]model.StaffMembership, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+membershipColumns+` FROM staff_memberships
		WHERE owner_id = $1 AND ($2::uuid IS NULL OR shop_id = $2)
		ORDER BY created_at
	`, ownerID, shopID)
	if err != nil {
		return nil, fmt.Errorf("select memberships: %w", err)
	}
	defer rows.Close()

	var res []model.StaffMembership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		res = append(res, *m)
	}
	return res, rows.Err()
}

// DeleteMembership удаляет привязку.
func (r *PostgresRepository) DeleteMembership(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff_memberships WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete membership")
	}
	return expectOne(tag)
}
