// Package repository содержит реализацию доступа к данным в PostgreSQL.
// Все методы принимают идентификатор владельца и фильтруют по нему каждую выборку.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/barberpos/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// uniqueFields сопоставляет ограничения уникальности с полями формы.
var uniqueFields = map[string]string{
	"shops_owner_name_uniq":             "name",
	"products_owner_name_uniq":          "name",
	"product_prices_product_shop_uniq":  "shop",
	"staff_memberships_staff_shop_uniq": "shop",
	"clients_owner_phone_uniq":          "phone",
}

// foreignKeyFields сопоставляет внешние ключи с полями формы.
var foreignKeyFields = map[string]string{
	"staff_memberships_staff_fk": "staff",
	"staff_memberships_shop_fk":  "shop",
	"product_prices_product_fk":  "product",
	"product_prices_shop_fk":     "shop",
	"service_orders_shop_fk":     "shop",
	"service_orders_client_fk":   "client",
	"service_orders_staff_fk":    "staff",
	"service_items_order_fk":     "order",
	"service_items_product_fk":   "product",
}

// querier реализуется и *pgxpool.Pool, и pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Ping проверяет доступность БД.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// InTx выполняет fn в одной транзакции. Методы репозитория, вызванные
// с переданным в fn контекстом, работают внутри этой транзакции.
// При сбое сериализации или взаимной блокировке транзакция повторяется целиком.
func (r *PostgresRepository) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if i == len(delays) || !isRetryable(err) {
			break
		}

		timer := time.NewTimer(delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// mapError переводит ошибки pgx в доменные ошибки model.
func mapError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			if field, ok := uniqueFields[pgErr.ConstraintName]; ok {
				return model.NewFieldError(field, model.ErrDuplicate)
			}
			return fmt.Errorf("%w: %s", model.ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			if field, ok := foreignKeyFields[pgErr.ConstraintName]; ok {
				return model.NewFieldError(field, model.ErrTenantMismatch)
			}
			return fmt.Errorf("%w: %s", model.ErrTenantMismatch, pgErr.ConstraintName)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%w: %s", model.ErrInvalidAmount, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// mapDeleteError переводит ошибки удаления. Нарушение внешнего ключа при DELETE
// означает, что на запись ссылаются строки с ON DELETE RESTRICT.
func mapDeleteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation, pgerrcode.RestrictViolation:
			return fmt.Errorf("%w: %s", model.ErrInUse, pgErr.ConstraintName)
		}
	}
	return mapError(err, op)
}

// expectOne возвращает model.ErrNotFound, если команда не затронула строк.
func expectOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
