// Package service реализует бизнес-логику бэк-офиса barberpos.
package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/validation"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
// Все методы ограничены владельцем ownerID.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateShop(ctx context.Context, s *model.Shop) error
	UpdateShop(ctx context.Context, s *model.Shop) error
	GetShop(ctx context.Context, ownerID, id uuid.UUID) (*model.Shop, error)
	ListShops(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error)
	DeleteShop(ctx context.Context, ownerID, id uuid.UUID) error

	CreateStaff(ctx context.Context, s *model.Staff) error
	UpdateStaff(ctx context.Context, s *model.Staff) error
	GetStaff(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error)
	ListStaff(ctx context.Context, ownerID uuid.UUID) ([]model.Staff, error)
	DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error

	CreateMembership(ctx context.Context, m *model.StaffMembership) error
	UpdateMembership(ctx context.Context, m *model.StaffMembership) error
	GetMembership(ctx context.Context, ownerID, id uuid.UUID) (*model.StaffMembership, error)
	ListMemberships(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) ([]model.StaffMembership, error)
	DeleteMembership(ctx context.Context, ownerID, id uuid.UUID) error

	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID, f model.ProductFilter) ([]model.Product, error)
	DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error

	FindPriceOverride(ctx context.Context, ownerID, productID, shopID uuid.UUID) (*model.PriceOverride, error)
	CreatePriceOverride(ctx context.Context, o *model.PriceOverride) error
	UpdatePriceOverride(ctx context.Context, o *model.PriceOverride) error
	GetPriceOverride(ctx context.Context, ownerID, id uuid.UUID) (*model.PriceOverride, error)
	ListPriceOverrides(ctx context.Context, ownerID uuid.UUID, f model.PriceOverrideFilter) ([]model.PriceOverride, error)
	DeletePriceOverride(ctx context.Context, ownerID, id uuid.UUID) error

	CreateClient(ctx context.Context, c *model.Client) error
	UpdateClient(ctx context.Context, c *model.Client) error
	GetClient(ctx context.Context, ownerID, id uuid.UUID) (*model.Client, error)
	ListClients(ctx context.Context, ownerID uuid.UUID, query string) ([]model.Client, error)
	DeleteClient(ctx context.Context, ownerID, id uuid.UUID) error

	CreateOrder(ctx context.Context, o *model.Order) error
	UpdateOrder(ctx context.Context, o *model.Order) error
	UpdateOrderTotals(ctx context.Context, ownerID, orderID uuid.UUID, subtotal, total decimal.Decimal) error
	GetOrder(ctx context.Context, ownerID, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, ownerID uuid.UUID, f model.OrderFilter) ([]model.Order, error)
	DeleteOrder(ctx context.Context, ownerID, id uuid.UUID) error
	OrderStats(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID, from, to time.Time) (decimal.Decimal, int, int, error)

	CreateOrderItem(ctx context.Context, it *model.OrderItem) error
	UpdateOrderItem(ctx context.Context, it *model.OrderItem) error
	GetOrderItem(ctx context.Context, ownerID, orderID, id uuid.UUID) (*model.OrderItem, error)
	ListOrderItems(ctx context.Context, ownerID, orderID uuid.UUID) ([]model.OrderItem, error)
	DeleteOrderItem(ctx context.Context, ownerID, orderID, id uuid.UUID) error
	DeleteOrderItems(ctx context.Context, ownerID, orderID uuid.UUID) error
}

// Service содержит бизнес-логику бэк-офиса.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func newID() uuid.UUID {
	// UUIDv7 упорядочены по времени создания.
	return uuid.Must(uuid.NewV7())
}

// requireName обрезает пробелы и проверяет обязательное имя длиной не более max символов.
func requireName(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || utf8.RuneCountInString(v) > max {
		return "", model.NewFieldError(field, model.ErrValidation)
	}
	return v, nil
}

// cleanPhone нормализует необязательный телефон.
func cleanPhone(field, v string) (string, error) {
	v = validation.NormalizePhone(v)
	if v == "" {
		return "", nil
	}
	if !validation.IsValidPhone(v) {
		return "", model.NewFieldError(field, model.ErrValidation)
	}
	return v, nil
}

func checkMoney(field string, d decimal.Decimal) error {
	if err := validation.CheckMoney(d); err != nil {
		return model.NewFieldError(field, err)
	}
	return nil
}

// foreignRef переводит отсутствие связанной записи в области владельца в ошибку поля.
// Запись другого владельца для репозитория не существует.
func foreignRef(field string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.NewFieldError(field, model.ErrTenantMismatch)
	}
	return err
}
