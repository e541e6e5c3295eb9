package service

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/barberpos/internal/model"
)

// memRepo хранит данные в памяти и откатывает изменения при ошибке в InTx.
type memRepo struct {
	now time.Time

	shops     map[uuid.UUID]model.Shop
	staff     map[uuid.UUID]model.Staff
	members   map[uuid.UUID]model.StaffMembership
	products  map[uuid.UUID]model.Product
	overrides map[uuid.UUID]model.PriceOverride
	clients   map[uuid.UUID]model.Client
	orders    map[uuid.UUID]model.Order
	items     map[uuid.UUID]model.OrderItem

	lookupErr error
	txCount   int
}

func newMemRepo() *memRepo {
	return &memRepo{
		now:       time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		shops:     map[uuid.UUID]model.Shop{},
		staff:     map[uuid.UUID]model.Staff{},
		members:   map[uuid.UUID]model.StaffMembership{},
		products:  map[uuid.UUID]model.Product{},
		overrides: map[uuid.UUID]model.PriceOverride{},
		clients:   map[uuid.UUID]model.Client{},
		orders:    map[uuid.UUID]model.Order{},
		items:     map[uuid.UUID]model.OrderItem{},
	}
}

func (r *memRepo) Close() error                   { return nil }
func (r *memRepo) Ping(ctx context.Context) error { return nil }

func (r *memRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txCount++
	shops, staff, members := maps.Clone(r.shops), maps.Clone(r.staff), maps.Clone(r.members)
	products, overrides, clients := maps.Clone(r.products), maps.Clone(r.overrides), maps.Clone(r.clients)
	orders, items := maps.Clone(r.orders), maps.Clone(r.items)

	if err := fn(ctx); err != nil {
		r.shops, r.staff, r.members = shops, staff, members
		r.products, r.overrides, r.clients = products, overrides, clients
		r.orders, r.items = orders, items
		return err
	}
	return nil
}

func (r *memRepo) CreateShop(ctx context.Context, s *model.Shop) error {
	for _, v := range r.shops {
		if v.OwnerID == s.OwnerID && v.Name == s.Name {
			return model.NewFieldError("name", model.ErrDuplicate)
		}
	}
	r.shops[s.ID] = *s
	return nil
}

func (r *memRepo) UpdateShop(ctx context.Context, s *model.Shop) error {
	if _, err := r.GetShop(ctx, s.OwnerID, s.ID); err != nil {
		return err
	}
	r.shops[s.ID] = *s
	return nil
}

func (r *memRepo) GetShop(ctx context.Context, ownerID, id uuid.UUID) (*model.Shop, error) {
	v, ok := r.shops[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListShops(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error) {
	var res []model.Shop
	for _, v := range r.shops {
		if v.OwnerID == ownerID {
			res = append(res, v)
		}
	}
	return res, nil
}

func (r *memRepo) DeleteShop(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetShop(ctx, ownerID, id); err != nil {
		return err
	}
	for _, o := range r.orders {
		if o.ShopID == id {
			return model.ErrInUse
		}
	}
	delete(r.shops, id)
	return nil
}

func (r *memRepo) CreateStaff(ctx context.Context, s *model.Staff) error {
	r.staff[s.ID] = *s
	return nil
}

func (r *memRepo) UpdateStaff(ctx context.Context, s *model.Staff) error {
	if _, err := r.GetStaff(ctx, s.OwnerID, s.ID); err != nil {
		return err
	}
	r.staff[s.ID] = *s
	return nil
}

func (r *memRepo) GetStaff(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error) {
	v, ok := r.staff[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListStaff(ctx context.Context, ownerID uuid.UUID) ([]model.Staff, error) {
	var res []model.Staff
	for _, v := range r.staff {
		if v.OwnerID == ownerID {
			res = append(res, v)
		}
	}
	return res, nil
}

func (r *memRepo) DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetStaff(ctx, ownerID, id); err != nil {
		return err
	}
	delete(r.staff, id)
	return nil
}

func (r *memRepo) CreateMembership(ctx context.Context, m *model.StaffMembership) error {
	for _, v := range r.members {
		if v.StaffID == m.StaffID && v.ShopID == m.ShopID {
			return model.NewFieldError("shop", model.ErrDuplicate)
		}
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memRepo) UpdateMembership(ctx context.Context, m *model.StaffMembership) error {
	if _, err := r.GetMembership(ctx, m.OwnerID, m.ID); err != nil {
		return err
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memRepo) GetMembership(ctx context.Context, ownerID, id uuid.UUID) (*model.StaffMembership, error) {
	v, ok := r.members[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListMemberships(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) ([]model.StaffMembership, error) {
	var res []model.StaffMembership
	for _, v := range r.members {
		if v.OwnerID == ownerID && (shopID == nil || v.ShopID == *shopID) {
			res = append(res, v)
		}
	}
	return res, nil
}

func (r *memRepo) DeleteMembership(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetMembership(ctx, ownerID, id); err != nil {
		return err
	}
	delete(r.members, id)
	return nil
}

func (r *memRepo) CreateProduct(ctx context.Context, p *model.Product) error {
	for _, v := range r.products {
		if v.OwnerID == p.OwnerID && v.Name == p.Name {
			return model.NewFieldError("name", model.ErrDuplicate)
		}
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memRepo) UpdateProduct(ctx context.Context, p *model.Product) error {
	if _, err := r.GetProduct(ctx, p.OwnerID, p.ID); err != nil {
		return err
	}
	r.products[p.ID] = *p
	return nil
}

func (r *memRepo) GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	v, ok := r.products[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListProducts(ctx context.Context, ownerID uuid.UUID, f model.ProductFilter) ([]model.Product, error) {
	var res []model.Product
	for _, v := range r.products {
		if v.OwnerID != ownerID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(f.Query)) {
			continue
		}
		if f.Active != nil && v.IsActive != *f.Active {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

func (r *memRepo) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetProduct(ctx, ownerID, id); err != nil {
		return err
	}
	for _, it := range r.items {
		if it.ProductID == id {
			return model.ErrInUse
		}
	}
	delete(r.products, id)
	return nil
}

func (r *memRepo) FindPriceOverride(ctx context.Context, ownerID, productID, shopID uuid.UUID) (*model.PriceOverride, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, v := range r.overrides {
		if v.OwnerID == ownerID && v.ProductID == productID && v.ShopID == shopID {
			return &v, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *memRepo) CreatePriceOverride(ctx context.Context, o *model.PriceOverride) error {
	for _, v := range r.overrides {
		if v.ProductID == o.ProductID && v.ShopID == o.ShopID {
			return model.NewFieldError("shop", model.ErrDuplicate)
		}
	}
	r.overrides[o.ID] = *o
	return nil
}

func (r *memRepo) UpdatePriceOverride(ctx context.Context, o *model.PriceOverride) error {
	if _, err := r.GetPriceOverride(ctx, o.OwnerID, o.ID); err != nil {
		return err
	}
	r.overrides[o.ID] = *o
	return nil
}

func (r *memRepo) GetPriceOverride(ctx context.Context, ownerID, id uuid.UUID) (*model.PriceOverride, error) {
	v, ok := r.overrides[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListPriceOverrides(ctx context.Context, ownerID uuid.UUID, f model.PriceOverrideFilter) ([]model.PriceOverride, error) {
	var res []model.PriceOverride
	for _, v := range r.overrides {
		if v.OwnerID != ownerID {
			continue
		}
		if f.ShopID != nil && v.ShopID != *f.ShopID {
			continue
		}
		if f.ProductID != nil && v.ProductID != *f.ProductID {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

func (r *memRepo) DeletePriceOverride(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetPriceOverride(ctx, ownerID, id); err != nil {
		return err
	}
	delete(r.overrides, id)
	return nil
}

func (r *memRepo) CreateClient(ctx context.Context, c *model.Client) error {
	for _, v := range r.clients {
		if v.OwnerID == c.OwnerID && c.Phone != "" && v.Phone == c.Phone {
			return model.NewFieldError("phone", model.ErrDuplicate)
		}
	}
	r.clients[c.ID] = *c
	return nil
}

func (r *memRepo) UpdateClient(ctx context.Context, c *model.Client) error {
	if _, err := r.GetClient(ctx, c.OwnerID, c.ID); err != nil {
		return err
	}
	r.clients[c.ID] = *c
	return nil
}

func (r *memRepo) GetClient(ctx context.Context, ownerID, id uuid.UUID) (*model.Client, error) {
	v, ok := r.clients[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListClients(ctx context.Context, ownerID uuid.UUID, query string) ([]model.Client, error) {
	var res []model.Client
	for _, v := range r.clients {
		if v.OwnerID == ownerID && (query == "" || strings.Contains(v.Name, query) || strings.Contains(v.Phone, query)) {
			res = append(res, v)
		}
	}
	return res, nil
}

func (r *memRepo) DeleteClient(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetClient(ctx, ownerID, id); err != nil {
		return err
	}
	delete(r.clients, id)
	return nil
}

func (r *memRepo) CreateOrder(ctx context.Context, o *model.Order) error {
	o.CreatedAt = r.now
	o.UpdatedAt = r.now
	stored := *o
	stored.Items = nil
	r.orders[o.ID] = stored
	return nil
}

func (r *memRepo) UpdateOrder(ctx context.Context, o *model.Order) error {
	cur, err := r.GetOrder(ctx, o.OwnerID, o.ID)
	if err != nil {
		return err
	}
	stored := *o
	stored.Items = nil
	stored.CreatedAt = cur.CreatedAt
	r.orders[o.ID] = stored
	return nil
}

func (r *memRepo) UpdateOrderTotals(ctx context.Context, ownerID, orderID uuid.UUID, subtotal, total decimal.Decimal) error {
	o, err := r.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return err
	}
	o.Subtotal, o.Total = subtotal, total
	r.orders[orderID] = *o
	return nil
}

func (r *memRepo) GetOrder(ctx context.Context, ownerID, id uuid.UUID) (*model.Order, error) {
	v, ok := r.orders[id]
	if !ok || v.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListOrders(ctx context.Context, ownerID uuid.UUID, f model.OrderFilter) ([]model.Order, error) {
	var res []model.Order
	for _, v := range r.orders {
		if v.OwnerID != ownerID {
			continue
		}
		if f.ShopID != nil && v.ShopID != *f.ShopID {
			continue
		}
		if f.Status != nil && v.Status != *f.Status {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

func (r *memRepo) DeleteOrder(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := r.GetOrder(ctx, ownerID, id); err != nil {
		return err
	}
	delete(r.orders, id)
	for itemID, it := range r.items {
		if it.OrderID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *memRepo) OrderStats(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID, from, to time.Time) (decimal.Decimal, int, int, error) {
	revenue := decimal.Zero
	var scheduled, inProgress int
	for _, o := range r.orders {
		if o.OwnerID != ownerID || (shopID != nil && o.ShopID != *shopID) {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		switch o.Status {
		case model.OrderStatusDone:
			revenue = revenue.Add(o.Total)
		case model.OrderStatusScheduled:
			scheduled++
		case model.OrderStatusInProgress:
			inProgress++
		}
	}
	return revenue, scheduled, inProgress, nil
}

func (r *memRepo) CreateOrderItem(ctx context.Context, it *model.OrderItem) error {
	if _, ok := r.orders[it.OrderID]; !ok {
		return model.NewFieldError("order", model.ErrTenantMismatch)
	}
	r.items[it.ID] = *it
	return nil
}

func (r *memRepo) UpdateOrderItem(ctx context.Context, it *model.OrderItem) error {
	if _, err := r.GetOrderItem(ctx, it.OwnerID, it.OrderID, it.ID); err != nil {
		return err
	}
	r.items[it.ID] = *it
	return nil
}

func (r *memRepo) GetOrderItem(ctx context.Context, ownerID, orderID, id uuid.UUID) (*model.OrderItem, error) {
	v, ok := r.items[id]
	if !ok || v.OwnerID != ownerID || v.OrderID != orderID {
		return nil, model.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo) ListOrderItems(ctx context.Context, ownerID, orderID uuid.UUID) ([]model.OrderItem, error) {
	var res []model.OrderItem
	for _, v := range r.items {
		if v.OwnerID == ownerID && v.OrderID == orderID {
			res = append(res, v)
		}
	}
	slices.SortFunc(res, func(a, b model.OrderItem) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return res, nil
}

func (r *memRepo) DeleteOrderItem(ctx context.Context, ownerID, orderID, id uuid.UUID) error {
	if _, err := r.GetOrderItem(ctx, ownerID, orderID, id); err != nil {
		return err
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) DeleteOrderItems(ctx context.Context, ownerID, orderID uuid.UUID) error {
	for id, it := range r.items {
		if it.OwnerID == ownerID && it.OrderID == orderID {
			delete(r.items, id)
		}
	}
	return nil
}
