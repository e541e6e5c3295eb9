package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
)

const (
	productColumns  = `id, owner_id, name, type, description, default_price, share_across_shops, is_active, created_at, updated_at`
	overrideColumns = `id, owner_id, product_id, shop_id, price, created_at, updated_at`
)

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Type, &p.Description, &p.DefaultPrice,
		&p.ShareAcrossShops, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanOverride(row rowScanner) (*model.PriceOverride, error) {
	var o model.PriceOverride
	if err := row.Scan(&o.ID, &o.OwnerID, &o.ProductID, &o.ShopID, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateProduct сохраняет новый продукт.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO products (id, owner_id, name, type, description, default_price, share_across_shops, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, p.ID, p.OwnerID, p.Name, p.Type, p.Description, p.DefaultPrice, p.ShareAcrossShops, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError(err, "insert product")
	}
	return nil
}

// UpdateProduct обновляет продукт владельца.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE products
		SET name = $3, type = $4, description = $5, default_price = $6,
		    share_across_shops = $7, is_active = $8, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, p.OwnerID, p.ID, p.Name, p.Type, p.Description, p.DefaultPrice, p.ShareAcrossShops, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return mapError(err, "update product")
	}
	return nil
}

// GetProduct возвращает продукт владельца.
func (r *PostgresRepository) GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE owner_id = $1 AND id = $2`, ownerID, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err, "select product")
	}
	return p, nil
}

// ListProducts возвращает продукты владельца по фильтру.
func (r *PostgresRepository) ListProducts(ctx context.Context, ownerID uuid.UUID, f model.ProductFilter) ([]model.Product, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE owner_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		  AND ($3::boolean IS NULL OR is_active = $3)
		ORDER BY name
	`, ownerID, f.Query, f.Active)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, *p)
	}
	return res, rows.Err()
}

// DeleteProduct удаляет продукт вместе с его переопределениями цен.
// Продукт, использованный в строках заказов, удалить нельзя.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM products WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete product")
	}
	return expectOne(tag)
}

// FindPriceOverride возвращает переопределение цены продукта для точки.
// Если его нет, возвращает model.ErrNotFound.
func (r *PostgresRepository) FindPriceOverride(ctx context.Context, ownerID, productID, shopID uuid.UUID) (*model.PriceOverride, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+overrideColumns+` FROM product_prices
		WHERE owner_id = $1 AND product_id = $2 AND shop_id = $3
	`, ownerID, productID, shopID)
	o, err := scanOverride(row)
	if err != nil {
		return nil, mapError(err, "select price override")
	}
	return o, nil
}

// CreatePriceOverride сохраняет цену продукта для точки.
func (r *PostgresRepository) CreatePriceOverride(ctx context.Context, o *model.PriceOverride) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO product_prices (id, owner_id, product_id, shop_id, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, o.ID, o.OwnerID, o.ProductID, o.ShopID, o.Price).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapError(err, "insert price override")
	}
	return nil
}

// UpdatePriceOverride обновляет цену продукта для точки.
func (r *PostgresRepository) UpdatePriceOverride(ctx context.Context, o *model.PriceOverride) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE product_prices
		SET product_id = $3, shop_id = $4, price = $5, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, o.OwnerID, o.ID, o.ProductID, o.ShopID, o.Price).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapError(err, "update price override")
	}
	return nil
}

// GetPriceOverride возвращает переопределение цены по идентификатору.
func (r *PostgresRepository) GetPriceOverride(ctx context.Context, ownerID, id uuid.UUID) (*model.PriceOverride, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+overrideColumns+` FROM product_prices WHERE owner_id = $1 AND id = $2`, ownerID, id)
	o, err := scanOverride(row)
	if err != nil {
		return nil, mapError(err, "select price override")
	}
	return o, nil
}

// ListPriceOverrides возвращает переопределения цен владельца по фильтру.
func (r *PostgresRepository) ListPriceOverrides(ctx context.Context, ownerID uuid.UUID, f model.PriceOverrideFilter) ([]model.PriceOverride, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+overrideColumns+` FROM product_prices
		WHERE owner_id = $1
		  AND ($2::uuid IS NULL OR shop_id = $2)
		  AND ($3::uuid IS NULL OR product_id = $3)
		ORDER BY created_at
	`, ownerID, f.ShopID, f.ProductID)
	if err != nil {
		return nil, fmt.Errorf("select price overrides: %w", err)
	}
	defer rows.Close()

	var res []model.PriceOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price override: %w", err)
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

// DeletePriceOverride удаляет переопределение цены.
func (r *PostgresRepository) DeletePriceOverride(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM product_prices WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete price override")
	}
	return expectOne(tag)
}
