package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/barberpos/internal/model"
)

const (
	orderColumns = `id, owner_id, shop_id, client_id, staff_id, customer_name, customer_phone,
		scheduled_for, started_at, finished_at, status, payment_method, amount_paid,
		discount_amount, subtotal, total_amount, notes, created_at, updated_at`
	itemColumns = `id, owner_id, order_id, product_id, qty, unit_price, created_at, updated_at`
)

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	if err := row.Scan(&o.ID, &o.OwnerID, &o.ShopID, &o.ClientID, &o.StaffID, &o.CustomerName, &o.CustomerPhone,
		&o.ScheduledFor, &o.StartedAt, &o.FinishedAt, &o.Status, &o.PaymentMethod, &o.AmountPaid,
		&o.Discount, &o.Subtotal, &o.Total, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func scanItem(row rowScanner) (*model.OrderItem, error) {
	var it model.OrderItem
	if err := row.Scan(&it.ID, &it.OwnerID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
		&it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// CreateOrder сохраняет заказ без строк.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *model.Order) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO service_orders (id, owner_id, shop_id, client_id, staff_id, customer_name, customer_phone,
			scheduled_for, started_at, finished_at, status, payment_method, amount_paid,
			discount_amount, subtotal, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`, o.ID, o.OwnerID, o.ShopID, o.ClientID, o.StaffID, o.CustomerName, o.CustomerPhone,
		o.ScheduledFor, o.StartedAt, o.FinishedAt, o.Status, o.PaymentMethod, o.AmountPaid,
		o.Discount, o.Subtotal, o.Total, o.Notes).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapError(err, "insert order")
	}
	return nil
}

// UpdateOrder сохраняет все поля заказа, включая итоги.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, o *model.Order) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE service_orders
		SET shop_id = $3, client_id = $4, staff_id = $5, customer_name = $6, customer_phone = $7,
		    scheduled_for = $8, started_at = $9, finished_at = $10, status = $11, payment_method = $12,
		    amount_paid = $13, discount_amount = $14, subtotal = $15, total_amount = $16, notes = $17,
		    updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING created_at, updated_at
	`, o.OwnerID, o.ID, o.ShopID, o.ClientID, o.StaffID, o.CustomerName, o.CustomerPhone,
		o.ScheduledFor, o.StartedAt, o.FinishedAt, o.Status, o.PaymentMethod,
		o.AmountPaid, o.Discount, o.Subtotal, o.Total, o.Notes).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapError(err, "update order")
	}
	return nil
}

// UpdateOrderTotals записывает только подытог и итог заказа.
func (r *PostgresRepository) UpdateOrderTotals(ctx context.Context, ownerID, orderID uuid.UUID, subtotal, total decimal.Decimal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE service_orders
		SET subtotal = $3, total_amount = $4, updated_at = now()
		WHERE owner_id = $1 AND id = $2
	`, ownerID, orderID, subtotal, total)
	if err != nil {
		return mapError(err, "update order totals")
	}
	return expectOne(tag)
}

// GetOrder возвращает заказ владельца без строк.
func (r *PostgresRepository) GetOrder(ctx context.Context, ownerID, id uuid.UUID) (*model.Order, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM service_orders WHERE owner_id = $1 AND id = $2`, ownerID, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError(err, "select order")
	}
	return o, nil
}

// ListOrders возвращает заказы владельца по фильтру, новые первыми.
func (r *PostgresRepository) ListOrders(ctx context.Context, ownerID uuid.UUID, f model.OrderFilter) ([]model.Order, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+orderColumns+` FROM service_orders
		WHERE owner_id = $1
		  AND ($2::uuid IS NULL OR shop_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4)
		  AND ($5::timestamptz IS NULL OR created_at < $5)
		ORDER BY created_at DESC
		LIMIT NULLIF($6::integer, 0)
	`, ownerID, f.ShopID, f.Status, f.CreatedFrom, f.CreatedTo, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var res []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		res = append(res, *o)
	}
	return res, rows.Err()
}

// DeleteOrder удаляет заказ вместе со строками.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM service_orders WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return mapDeleteError(err, "delete order")
	}
	return expectOne(tag)
}

// OrderStats возвращает выручку по выполненным заказам и количество
// запланированных и выполняемых заказов, созданных в [from, to).
func (r *PostgresRepository) OrderStats(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID, from, to time.Time) (decimal.Decimal, int, int, error) {
	var (
		revenue    decimal.Decimal
		scheduled  int
		inProgress int
	)
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'done'), 0),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'in_progress')
		FROM service_orders
		WHERE owner_id = $1
		  AND ($2::uuid IS NULL OR shop_id = $2)
		  AND created_at >= $3 AND created_at < $4
	`, ownerID, shopID, from, to).Scan(&revenue, &scheduled, &inProgress)
	if err != nil {
		return decimal.Zero, 0, 0, fmt.Errorf("select order stats: %w", err)
	}
	return revenue, scheduled, inProgress, nil
}

// CreateOrderItem сохраняет строку заказа.
func (r *PostgresRepository) CreateOrderItem(ctx context.Context, it *model.OrderItem) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO service_items (id, owner_id, order_id, product_id, qty, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, it.ID, it.OwnerID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return mapError(err, "insert order item")
	}
	return nil
}

// UpdateOrderItem обновляет строку заказа.
func (r *PostgresRepository) UpdateOrderItem(ctx context.Context, it *model.OrderItem) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE service_items
		SET product_id = $4, qty = $5, unit_price = $6, updated_at = now()
		WHERE owner_id = $1 AND order_id = $2 AND id = $3
		RETURNING created_at, updated_at
	`, it.OwnerID, it.OrderID, it.ID, it.ProductID, it.Quantity, it.UnitPrice).Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return mapError(err, "update order item")
	}
	return nil
}

// GetOrderItem возвращает строку заказа.
func (r *PostgresRepository) GetOrderItem(ctx context.Context, ownerID, orderID, id uuid.UUID) (*model.OrderItem, error) {
	row := r.conn(ctx).QueryRow(ctx, `
		SELECT `+itemColumns+` FROM service_items
		WHERE owner_id = $1 AND order_id = $2 AND id = $3
	`, ownerID, orderID, id)
	it, err := scanItem(row)
	if err != nil {
		return nil, mapError(err, "select order item")
	}
	return it, nil
}

// ListOrderItems возвращает все строки заказа в порядке добавления.
func (r *PostgresRepository) ListOrderItems(ctx context.Context, ownerID, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemColumns+` FROM service_items
		WHERE owner_id = $1 AND order_id = $2
		ORDER BY created_at, id
	`, ownerID, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var res []model.OrderItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		res = append(res, *it)
	}
	return res, rows.Err()
}

// DeleteOrderItem удаляет строку заказа.
func (r *PostgresRepository) DeleteOrderItem(ctx context.Context, ownerID, orderID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM service_items WHERE owner_id = $1 AND order_id = $2 AND id = $3`, ownerID, orderID, id)
	if err != nil {
		return mapDeleteError(err, "delete order item")
	}
	return expectOne(tag)
}

// DeleteOrderItems удаляет все строки заказа.
func (r *PostgresRepository) DeleteOrderItems(ctx context.Context, ownerID, orderID uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM service_items WHERE owner_id = $1 AND order_id = $2`, ownerID, orderID); err != nil {
		return mapDeleteError(err, "delete order items")
	}
	return nil
}
