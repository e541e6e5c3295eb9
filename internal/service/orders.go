package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/pricing"
	"github.com/mmeshcher/barberpos/internal/validation"
)

const maxCustomerNameLen = 120

// ItemInput описывает строку заказа во входных данных.
// Нулевая цена означает, что цену нужно определить автоматически.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// prepareOrder проверяет поля заказа и ссылки на точку, клиента и сотрудника.
// Данные клиента копируются в заказ при каждом сохранении.
func (s *Service) prepareOrder(ctx context.Context, o *model.Order, checkShopActive bool) error {
	if err := checkMoney("discount_amount", o.Discount); err != nil {
		return err
	}
	if err := checkMoney("amount_paid", o.AmountPaid); err != nil {
		return err
	}
	if !o.PaymentMethod.Valid() {
		return model.NewFieldError("payment_method", model.ErrValidation)
	}

	shop, err := s.repo.GetShop(ctx, o.OwnerID, o.ShopID)
	if err != nil {
		return foreignRef("shop", err)
	}
	if checkShopActive && !shop.IsActive {
		return model.NewFieldError("shop", model.ErrInactive)
	}
	refs := []pricing.Ref{{Field: "shop", OwnerID: shop.OwnerID}}

	if o.ClientID != nil {
		client, err := s.repo.GetClient(ctx, o.OwnerID, *o.ClientID)
		if err != nil {
			return foreignRef("client", err)
		}
		refs = append(refs, pricing.Ref{Field: "client", OwnerID: client.OwnerID})
		o.CustomerName = client.Name
		o.CustomerPhone = client.Phone
	} else {
		o.CustomerName = strings.TrimSpace(o.CustomerName)
		if utf8.RuneCountInString(o.CustomerName) > maxCustomerNameLen {
			return model.NewFieldError("customer_name", model.ErrValidation)
		}
		if o.CustomerPhone, err = cleanPhone("customer_phone", o.CustomerPhone); err != nil {
			return err
		}
	}

	if o.StaffID != nil {
		staff, err := s.repo.GetStaff(ctx, o.OwnerID, *o.StaffID)
		if err != nil {
			return foreignRef("staff", err)
		}
		refs = append(refs, pricing.Ref{Field: "staff", OwnerID: staff.OwnerID})
	}

	return pricing.CheckTenant(o.OwnerID, refs...)
}

// stampStatus выставляет статус и отметки времени начала и завершения.
func stampStatus(o *model.Order, status model.OrderStatus, now time.Time) {
	o.Status = status
	switch status {
	case model.OrderStatusInProgress:
		if o.StartedAt == nil {
			o.StartedAt = &now
		}
	case model.OrderStatusDone:
		if o.StartedAt == nil {
			o.StartedAt = &now
		}
		o.FinishedAt = &now
	}
}

// transition переводит заказ в статус next по графу переходов.
func (s *Service) transition(o *model.Order, next model.OrderStatus) error {
	if !next.Valid() {
		return model.NewFieldError("status", model.ErrInvalidStatus)
	}
	if o.Status == next {
		return nil
	}
	if !o.Status.CanTransitionTo(next) {
		return model.NewFieldError("status", model.ErrInvalidTransition)
	}
	stampStatus(o, next, s.now())
	return nil
}

// saveItem определяет цену строки и сохраняет её.
// Неактивный продукт допускается только в уже сохранённой строке с тем же продуктом.
func (s *Service) saveItem(ctx context.Context, order *model.Order, item *model.OrderItem, create, checkActive bool) error {
	if err := checkMoney("unit_price", item.UnitPrice); err != nil {
		return err
	}

	product, err := s.repo.GetProduct(ctx, order.OwnerID, item.ProductID)
	if err != nil {
		return foreignRef("product", err)
	}
	if checkActive && !product.IsActive {
		return model.NewFieldError("product", model.ErrInactive)
	}

	price, err := pricing.ResolveUnitPrice(ctx, s.repo, item, order, product)
	if err != nil {
		return err
	}
	item.UnitPrice = price

	if create {
		return s.repo.CreateOrderItem(ctx, item)
	}
	return s.repo.UpdateOrderItem(ctx, item)
}

func (s *Service) createItems(ctx context.Context, order *model.Order, items []ItemInput) error {
	for i, in := range items {
		item := &model.OrderItem{
			ID:        newID(),
			OwnerID:   order.OwnerID,
			OrderID:   order.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
		if err := s.saveItem(ctx, order, item, true, true); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

// recalc пересчитывает итоги заказа по всем его строкам и сохраняет их.
func (s *Service) recalc(ctx context.Context, o *model.Order) error {
	items, err := s.repo.ListOrderItems(ctx, o.OwnerID, o.ID)
	if err != nil {
		return err
	}

	pricing.ApplyTotals(o, items)
	if err := validation.CheckMoney(o.Subtotal); err != nil {
		return model.NewFieldError("items", model.ErrInvalidAmount)
	}
	if err := s.repo.UpdateOrderTotals(ctx, o.OwnerID, o.ID, o.Subtotal, o.Total); err != nil {
		return err
	}
	o.Items = items

	s.logger.Debug("order totals recalculated",
		zap.String("order", o.ID.String()),
		zap.Int("items", len(items)),
		zap.String("subtotal", validation.FormatMoney(o.Subtotal)),
		zap.String("total", validation.FormatMoney(o.Total)),
	)
	return nil
}

// CreateOrder создаёт заказ с хотя бы одной строкой и рассчитывает его итоги.
func (s *Service) CreateOrder(ctx context.Context, ownerID uuid.UUID, o *model.Order, items []ItemInput) (*model.Order, error) {
	if len(items) == 0 {
		return nil, model.NewFieldError("items", model.ErrValidation)
	}

	o.ID = newID()
	o.OwnerID = ownerID
	status := o.Status
	if status == "" {
		status = model.OrderStatusInProgress
	}
	if !status.Valid() {
		return nil, model.NewFieldError("status", model.ErrInvalidStatus)
	}

	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		if err := s.prepareOrder(ctx, o, true); err != nil {
			return err
		}

		o.StartedAt, o.FinishedAt = nil, nil
		stampStatus(o, status, s.now())
		o.Subtotal, o.Total = decimal.Zero, decimal.Zero

		if err := s.repo.CreateOrder(ctx, o); err != nil {
			return err
		}
		if err := s.createItems(ctx, o, items); err != nil {
			return err
		}
		return s.recalc(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrder обновляет поля заказа. Если items не nil, строки заказа заменяются целиком.
// Итоги пересчитываются в той же транзакции.
func (s *Service) UpdateOrder(ctx context.Context, ownerID uuid.UUID, o *model.Order, items []ItemInput) (*model.Order, error) {
	if items != nil && len(items) == 0 {
		return nil, model.NewFieldError("items", model.ErrValidation)
	}
	o.OwnerID = ownerID

	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetOrder(ctx, ownerID, o.ID)
		if err != nil {
			return err
		}

		next := o.Status
		if next == "" {
			next = cur.Status
		}
		o.Status = cur.Status
		o.StartedAt = cur.StartedAt
		o.FinishedAt = cur.FinishedAt
		o.Subtotal = cur.Subtotal
		o.Total = cur.Total

		if err := s.prepareOrder(ctx, o, o.ShopID != cur.ShopID); err != nil {
			return err
		}
		if err := s.transition(o, next); err != nil {
			return err
		}
		if err := s.repo.UpdateOrder(ctx, o); err != nil {
			return err
		}

		if items != nil {
			if err := s.repo.DeleteOrderItems(ctx, ownerID, o.ID); err != nil {
				return err
			}
			if err := s.createItems(ctx, o, items); err != nil {
				return err
			}
		}
		return s.recalc(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ChangeOrderStatus переводит заказ в новый статус.
// Повторная запись текущего статуса ничего не меняет.
func (s *Service) ChangeOrderStatus(ctx context.Context, ownerID, id uuid.UUID, next model.OrderStatus) (*model.Order, error) {
	var order *model.Order
	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetOrder(ctx, ownerID, id)
		if err != nil {
			return err
		}

		prev := o.Status
		if err := s.transition(o, next); err != nil {
			return err
		}
		if o.Status != prev {
			if err := s.repo.UpdateOrder(ctx, o); err != nil {
				return err
			}
			s.logger.Debug("order status changed",
				zap.String("order", o.ID.String()),
				zap.String("from", string(prev)),
				zap.String("to", string(o.Status)),
			)
		}

		if o.Items, err = s.repo.ListOrderItems(ctx, ownerID, id); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder возвращает заказ владельца со строками.
func (s *Service) GetOrder(ctx context.Context, ownerID, id uuid.UUID) (*model.Order, error) {
	o, err := s.repo.GetOrder(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if o.Items, err = s.repo.ListOrderItems(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders возвращает заказы владельца по фильтру без строк.
func (s *Service) ListOrders(ctx context.Context, ownerID uuid.UUID, f model.OrderFilter) ([]model.Order, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, model.NewFieldError("status", model.ErrInvalidStatus)
	}
	return s.repo.ListOrders(ctx, ownerID, f)
}

// DeleteOrder удаляет заказ вместе со строками.
func (s *Service) DeleteOrder(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteOrder(ctx, ownerID, id)
}

// AddOrderItem добавляет строку в заказ и пересчитывает его итоги.
func (s *Service) AddOrderItem(ctx context.Context, ownerID, orderID uuid.UUID, in ItemInput) (*model.Order, error) {
	var order *model.Order
	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetOrder(ctx, ownerID, orderID)
		if err != nil {
			return err
		}

		item := &model.OrderItem{
			ID:        newID(),
			OwnerID:   ownerID,
			OrderID:   o.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
		}
		if err := s.saveItem(ctx, o, item, true, true); err != nil {
			return err
		}
		if err := s.recalc(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderItem изменяет строку заказа и пересчитывает его итоги.
// Цена определяется заново, только если во входных данных она нулевая.
func (s *Service) UpdateOrderItem(ctx context.Context, ownerID, orderID, itemID uuid.UUID, in ItemInput) (*model.Order, error) {
	var order *model.Order
	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetOrder(ctx, ownerID, orderID)
		if err != nil {
			return err
		}
		item, err := s.repo.GetOrderItem(ctx, ownerID, orderID, itemID)
		if err != nil {
			return err
		}

		productChanged := item.ProductID != in.ProductID
		item.ProductID = in.ProductID
		item.Quantity = in.Quantity
		item.UnitPrice = in.UnitPrice

		if err := s.saveItem(ctx, o, item, false, productChanged); err != nil {
			return err
		}
		if err := s.recalc(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrderItem удаляет строку заказа и пересчитывает его итоги.
func (s *Service) DeleteOrderItem(ctx context.Context, ownerID, orderID, itemID uuid.UUID) (*model.Order, error) {
	var order *model.Order
	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		o, err := s.repo.GetOrder(ctx, ownerID, orderID)
		if err != nil {
			return err
		}
		if err := s.repo.DeleteOrderItem(ctx, ownerID, orderID, itemID); err != nil {
			return err
		}
		if err := s.recalc(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
