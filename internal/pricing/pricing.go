// Package pricing реализует определение цены строки заказа и пересчёт итогов заказа.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/barberpos/internal/model"
)

// MaxQuantity ограничивает количество в одной строке заказа.
const MaxQuantity = 10000

// OverrideLookup ищет переопределение цены продукта для точки в области владельца.
// Если переопределения нет, возвращает model.ErrNotFound.
type OverrideLookup interface {
	FindPriceOverride(ctx context.Context, ownerID, productID, shopID uuid.UUID) (*model.PriceOverride, error)
}

// Ref описывает ссылку на запись другого владельца для проверки CheckTenant.
type Ref struct {
	Field   string
	OwnerID uuid.UUID
}

// CheckTenant проверяет, что все ссылки принадлежат владельцу ownerID.
// Возвращает model.FieldError с model.ErrTenantMismatch для первой расходящейся ссылки.
func CheckTenant(ownerID uuid.UUID, refs ...Ref) error {
	for _, ref := range refs {
		if ref.OwnerID != ownerID {
			return model.NewFieldError(ref.Field, model.ErrTenantMismatch)
		}
	}
	return nil
}

// ResolveUnitPrice определяет цену за единицу для строки item заказа order.
//
// Явно заданная положительная цена строки возвращается без изменений.
// Иначе используется переопределение для пары (продукт, точка заказа),
// а при его отсутствии цена продукта по умолчанию.
// Строка не изменяется, сохранение цены остаётся за вызывающим.
func ResolveUnitPrice(ctx context.Context, lookup OverrideLookup, item *model.OrderItem, order *model.Order, product *model.Product) (decimal.Decimal, error) {
	if item.Quantity <= 0 || item.Quantity > MaxQuantity {
		return decimal.Zero, model.NewFieldError("quantity", model.ErrInvalidQuantity)
	}

	if err := CheckTenant(order.OwnerID,
		Ref{Field: "order", OwnerID: item.OwnerID},
		Ref{Field: "product", OwnerID: product.OwnerID},
	); err != nil {
		return decimal.Zero, err
	}

	if item.UnitPrice.IsPositive() {
		return item.UnitPrice, nil
	}

	override, err := lookup.FindPriceOverride(ctx, order.OwnerID, product.ID, order.ShopID)
	switch {
	case err == nil:
		if err := CheckTenant(order.OwnerID, Ref{Field: "shop", OwnerID: override.OwnerID}); err != nil {
			return decimal.Zero, err
		}
		return override.Price, nil
	case errors.Is(err, model.ErrNotFound):
	default:
		return decimal.Zero, fmt.Errorf("find price override: %w", err)
	}

	// Нулевое значение decimal соответствует 0.00 для продукта без цены.
	return product.DefaultPrice, nil
}

// RecalcTotals вычисляет подытог и итог заказа по полному списку его строк.
// Итог равен max(подытог - скидка, 0). Функция не имеет побочных эффектов.
func RecalcTotals(order *model.Order, items []model.OrderItem) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	total = subtotal.Sub(order.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return subtotal, total
}

// ApplyTotals пересчитывает итоги и записывает их в order.
func ApplyTotals(order *model.Order, items []model.OrderItem) {
	order.Subtotal, order.Total = RecalcTotals(order, items)
}
