// Package model содержит доменные сущности бэк-офиса barberpos.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shop описывает точку (барбершоп), принадлежащую владельцу.
type Shop struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Staff описывает сотрудника владельца.
type Staff struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipRole описывает роль сотрудника в точке.
type MembershipRole string

const (
	RoleOwner   MembershipRole = "owner"
	RoleManager MembershipRole = "manager"
	RoleStaff   MembershipRole = "staff"
)

// Valid сообщает, является ли роль допустимой.
func (r MembershipRole) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// StaffMembership связывает сотрудника с точкой.
type StaffMembership struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	StaffID   uuid.UUID
	ShopID    uuid.UUID
	Role      MembershipRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductType различает услуги и товары.
type ProductType string

const (
	ProductTypeService ProductType = "service"
	ProductTypeRetail  ProductType = "retail"
)

// Valid сообщает, является ли тип продукта допустимым.
func (t ProductType) Valid() bool {
	return t == ProductTypeService || t == ProductTypeRetail
}

// Product описывает услугу или товар с ценой по умолчанию.
type Product struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Type         ProductType
	Description  string
	DefaultPrice decimal.Decimal
	// Если false, ожидается переопределение цены в каждой точке.
	ShareAcrossShops bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PriceOverride задаёт цену продукта для конкретной точки.
type PriceOverride struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	ProductID uuid.UUID
	ShopID    uuid.UUID
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client описывает клиента владельца.
type Client struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Phone     string
	Email     string
	Notes     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentNone     PaymentMethod = ""
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentPix      PaymentMethod = "pix"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOther    PaymentMethod = "other"
)

// Valid сообщает, является ли способ оплаты допустимым.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentNone, PaymentCash, PaymentCard, PaymentPix, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

// Order описывает сервисный заказ точки.
type Order struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	ShopID  uuid.UUID
	// ClientID и StaffID необязательны.
	ClientID      *uuid.UUID
	StaffID       *uuid.UUID
	CustomerName  string
	CustomerPhone string
	ScheduledFor  *time.Time
	StartedAt     *time.Time
	FinishedAt    *time.Time
	Status        OrderStatus
	PaymentMethod PaymentMethod
	AmountPaid    decimal.Decimal
	Discount      decimal.Decimal
	// Subtotal и Total только пересчитываются, пользователь их не задаёт.
	Subtotal  decimal.Decimal
	Total     decimal.Decimal
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem
}

// OrderItem описывает строку заказа.
type OrderItem struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineTotal возвращает стоимость строки.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderFilter ограничивает выборку заказов.
type OrderFilter struct {
	ShopID *uuid.UUID
	Status *OrderStatus
	// CreatedFrom и CreatedTo задают полуинтервал [from, to).
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
}

// Dashboard содержит показатели главной страницы за день.
type Dashboard struct {
	RevenueToday   decimal.Decimal
	ScheduledToday int
	InProgress     int
	Scheduled      []Order
	InProgressList []Order
}

// ProductFilter ограничивает выборку продуктов.
type ProductFilter struct {
	Query  string
	Active *bool
}

// PriceOverrideFilter ограничивает выборку переопределений цен.
type PriceOverrideFilter struct {
	ShopID    *uuid.UUID
	ProductID *uuid.UUID
}
