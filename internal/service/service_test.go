package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/pricing"
)

type env struct {
	repo    *memRepo
	svc     *Service
	owner   uuid.UUID
	shop    model.Shop
	product model.Product
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := newMemRepo()
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return repo.now }

	e := &env{repo: repo, svc: svc, owner: uuid.New()}

	e.shop = model.Shop{Name: "Centro", IsActive: true}
	require.NoError(t, svc.CreateShop(context.Background(), e.owner, &e.shop))

	e.product = model.Product{Name: "Corte", DefaultPrice: decimal.RequireFromString("25.00"), IsActive: true}
	require.NoError(t, svc.CreateProduct(context.Background(), e.owner, &e.product))

	return e
}

func (e *env) order() *model.Order {
	return &model.Order{ShopID: e.shop.ID}
}

func (e *env) item(qty int, price string) ItemInput {
	return ItemInput{ProductID: e.product.ID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func TestCreateOrder_ResolvesDefaultPrice(t *testing.T) {
	e := newEnv(t)

	o, err := e.svc.CreateOrder(context.Background(), e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "25.00", money(o.Items[0].UnitPrice))
	assert.Equal(t, "25.00", money(o.Subtotal))
	assert.Equal(t, "25.00", money(o.Total))
	assert.Equal(t, model.OrderStatusInProgress, o.Status)
	assert.NotNil(t, o.StartedAt)

	stored := e.repo.orders[o.ID]
	assert.Equal(t, "25.00", money(stored.Subtotal))
	assert.Equal(t, "25.00", money(stored.Total))
}

func TestCreateOrder_ShopOverride(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	override := model.PriceOverride{ProductID: e.product.ID, ShopID: e.shop.ID, Price: decimal.RequireFromString("30.00")}
	require.NoError(t, e.svc.CreatePriceOverride(ctx, e.owner, &override))

	o, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(2, "0")})
	require.NoError(t, err)

	assert.Equal(t, "30.00", money(o.Items[0].UnitPrice))
	assert.Equal(t, "60.00", money(o.Subtotal))
}

func TestCreateOrder_ManualPriceWins(t *testing.T) {
	e := newEnv(t)

	o, err := e.svc.CreateOrder(context.Background(), e.owner, e.order(), []ItemInput{e.item(1, "10.00")})
	require.NoError(t, err)

	assert.Equal(t, "10.00", money(o.Items[0].UnitPrice))
	assert.Equal(t, "10.00", money(o.Total))
}

func TestCreateOrder_Discount(t *testing.T) {
	tests := []struct {
		name      string
		discount  string
		wantTotal string
	}{
		{name: "partial discount", discount: "5.00", wantTotal: "20.00"},
		{name: "discount above subtotal", discount: "100.00", wantTotal: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			o := e.order()
			o.Discount = decimal.RequireFromString(tt.discount)

			got, err := e.svc.CreateOrder(context.Background(), e.owner, o, []ItemInput{e.item(1, "0")})
			require.NoError(t, err)
			assert.Equal(t, "25.00", money(got.Subtotal))
			assert.Equal(t, tt.wantTotal, money(got.Total))
		})
	}
}

func TestCreateOrder_RejectedWritesNothing(t *testing.T) {
	foreignProduct := func(e *env) ItemInput {
		p := model.Product{Name: "Barba", DefaultPrice: decimal.NewFromInt(20), IsActive: true}
		require.NoError(t, e.svc.CreateProduct(context.Background(), uuid.New(), &p))
		return ItemInput{ProductID: p.ID, Quantity: 1}
	}

	tests := []struct {
		name    string
		items   func(e *env) []ItemInput
		order   func(e *env) *model.Order
		wantErr error
	}{
		{
			name:    "product of another tenant",
			items:   func(e *env) []ItemInput { return []ItemInput{e.item(1, "0"), foreignProduct(e)} },
			order:   func(e *env) *model.Order { return e.order() },
			wantErr: model.ErrTenantMismatch,
		},
		{
			name:    "shop of another tenant",
			items:   func(e *env) []ItemInput { return []ItemInput{e.item(1, "0")} },
			order:   func(e *env) *model.Order { return &model.Order{ShopID: uuid.New()} },
			wantErr: model.ErrTenantMismatch,
		},
		{
			name:    "zero quantity",
			items:   func(e *env) []ItemInput { return []ItemInput{e.item(0, "0")} },
			order:   func(e *env) *model.Order { return e.order() },
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "quantity above limit",
			items:   func(e *env) []ItemInput { return []ItemInput{e.item(pricing.MaxQuantity+1, "0")} },
			order:   func(e *env) *model.Order { return e.order() },
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name: "subtotal does not fit",
			items: func(e *env) []ItemInput {
				return []ItemInput{e.item(1000, "99999999.99"), e.item(1, "1.00")}
			},
			order:   func(e *env) *model.Order { return e.order() },
			wantErr: model.ErrInvalidAmount,
		},
		{
			name:    "negative unit price",
			items:   func(e *env) []ItemInput { return []ItemInput{e.item(1, "-1.00")} },
			order:   func(e *env) *model.Order { return e.order() },
			wantErr: model.ErrInvalidAmount,
		},
		{
			name:  "negative discount",
			items: func(e *env) []ItemInput { return []ItemInput{e.item(1, "0")} },
			order: func(e *env) *model.Order {
				o := e.order()
				o.Discount = decimal.NewFromInt(-1)
				return o
			},
			wantErr: model.ErrInvalidAmount,
		},
		{
			name:    "no items",
			items:   func(e *env) []ItemInput { return nil },
			order:   func(e *env) *model.Order { return e.order() },
			wantErr: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			items := tt.items(e)

			_, err := e.svc.CreateOrder(context.Background(), e.owner, tt.order(e), items)
			require.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, e.repo.orders)
			assert.Empty(t, e.repo.items)
		})
	}
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.product.IsActive = false
	require.NoError(t, e.svc.UpdateProduct(ctx, e.owner, &e.product))

	_, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.ErrorIs(t, err, model.ErrInactive)

	var fe *model.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "product", fe.Field)
}

func TestCreateOrder_LookupFailure(t *testing.T) {
	e := newEnv(t)
	lookupErr := errors.New("connection reset by peer")
	e.repo.lookupErr = lookupErr

	_, err := e.svc.CreateOrder(context.Background(), e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.ErrorIs(t, err, lookupErr)
	assert.Empty(t, e.repo.orders)
}

func TestCreateOrder_CopiesClientData(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	client := model.Client{Name: "Ana", Phone: "+55 (11) 98765-4321", IsActive: true}
	require.NoError(t, e.svc.CreateClient(ctx, e.owner, &client))
	assert.Equal(t, "+5511987654321", client.Phone)

	o := e.order()
	o.ClientID = &client.ID
	o.CustomerName = "ignored"

	got, err := e.svc.CreateOrder(ctx, e.owner, o, []ItemInput{e.item(1, "0")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.CustomerName)
	assert.Equal(t, "+5511987654321", got.CustomerPhone)
}

func TestOrderItems_KeepTotalsConsistent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	o, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.NoError(t, err)

	o, err = e.svc.AddOrderItem(ctx, e.owner, o.ID, e.item(2, "7.50"))
	require.NoError(t, err)
	assert.Equal(t, "40.00", money(o.Subtotal))
	require.Len(t, o.Items, 2)

	added := o.Items[1]
	o, err = e.svc.UpdateOrderItem(ctx, e.owner, o.ID, added.ID, e.item(3, "7.50"))
	require.NoError(t, err)
	assert.Equal(t, "47.50", money(o.Subtotal))

	o, err = e.svc.DeleteOrderItem(ctx, e.owner, o.ID, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", money(o.Subtotal))
	assert.Equal(t, "25.00", money(e.repo.orders[o.ID].Total))

	o, err = e.svc.DeleteOrderItem(ctx, e.owner, o.ID, o.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", money(o.Subtotal))
	assert.Equal(t, "0.00", money(o.Total))
}

func TestUpdateOrderItem_KeepsResolvedPrice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	o, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.NoError(t, err)
	item := o.Items[0]

	e.product.DefaultPrice = decimal.RequireFromString("40.00")
	require.NoError(t, e.svc.UpdateProduct(ctx, e.owner, &e.product))

	got, err := e.svc.GetOrder(ctx, e.owner, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", money(got.Items[0].UnitPrice))

	in := ItemInput{ProductID: item.ProductID, Quantity: 2, UnitPrice: item.UnitPrice}
	got, err = e.svc.UpdateOrderItem(ctx, e.owner, o.ID, item.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "25.00", money(got.Items[0].UnitPrice))
	assert.Equal(t, "50.00", money(got.Subtotal))
}

func TestAddOrderItem_RejectedKeepsTotals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	o, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.NoError(t, err)

	_, err = e.svc.AddOrderItem(ctx, e.owner, o.ID, e.item(-1, "0"))
	require.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = e.svc.AddOrderItem(ctx, uuid.New(), o.ID, e.item(1, "0"))
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = e.svc.AddOrderItem(ctx, e.owner, o.ID, e.item(pricing.MaxQuantity, "99999999.99"))
	var fe *model.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "items", fe.Field)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	assert.Len(t, e.repo.items, 1)
	assert.Equal(t, "25.00", money(e.repo.orders[o.ID].Total))
}

func TestUpdateOrder_ReplacesItemsAndRecalculates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	o, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.NoError(t, err)

	upd := &model.Order{ID: o.ID, ShopID: e.shop.ID, Discount: decimal.RequireFromString("10.00")}
	got, err := e.svc.UpdateOrder(ctx, e.owner, upd, nil)
	require.NoError(t, err)
	assert.Equal(t, "25.00", money(got.Subtotal))
	assert.Equal(t, "15.00", money(got.Total))
	assert.Equal(t, model.OrderStatusInProgress, got.Status)

	upd = &model.Order{ID: o.ID, ShopID: e.shop.ID}
	got, err = e.svc.UpdateOrder(ctx, e.owner, upd, []ItemInput{e.item(2, "0"), e.item(1, "5.00")})
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Len(t, e.repo.items, 2)
	assert.Equal(t, "55.00", money(got.Total))

	_, err = e.svc.UpdateOrder(ctx, e.owner, &model.Order{ID: o.ID, ShopID: e.shop.ID}, []ItemInput{})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestChangeOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    model.OrderStatus
		to      model.OrderStatus
		wantErr error
	}{
		{name: "start scheduled", from: model.OrderStatusScheduled, to: model.OrderStatusInProgress},
		{name: "finish", from: model.OrderStatusInProgress, to: model.OrderStatusDone},
		{name: "cancel scheduled", from: model.OrderStatusScheduled, to: model.OrderStatusCanceled},
		{name: "same status", from: model.OrderStatusScheduled, to: model.OrderStatusScheduled},
		{name: "skip progress", from: model.OrderStatusScheduled, to: model.OrderStatusDone, wantErr: model.ErrInvalidTransition},
		{name: "reopen done", from: model.OrderStatusDone, to: model.OrderStatusInProgress, wantErr: model.ErrInvalidTransition},
		{name: "unknown", from: model.OrderStatusScheduled, to: "paid", wantErr: model.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()

			o := e.order()
			o.Status = tt.from
			created, err := e.svc.CreateOrder(ctx, e.owner, o, []ItemInput{e.item(1, "0")})
			require.NoError(t, err)

			got, err := e.svc.ChangeOrderStatus(ctx, e.owner, created.ID, tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, e.repo.orders[created.ID].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
			assert.Equal(t, tt.to, e.repo.orders[created.ID].Status)
			assert.Len(t, got.Items, 1)

			switch tt.to {
			case model.OrderStatusInProgress:
				assert.NotNil(t, got.StartedAt)
			case model.OrderStatusDone:
				assert.NotNil(t, got.FinishedAt)
			case model.OrderStatusScheduled:
				assert.Nil(t, got.StartedAt)
			}
		})
	}
}

func TestPriceOverride_TenantChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	foreignShop := model.Shop{Name: "Outra", IsActive: true}
	require.NoError(t, e.svc.CreateShop(ctx, uuid.New(), &foreignShop))

	err := e.svc.CreatePriceOverride(ctx, e.owner, &model.PriceOverride{
		ProductID: e.product.ID,
		ShopID:    foreignShop.ID,
		Price:     decimal.NewFromInt(30),
	})
	require.ErrorIs(t, err, model.ErrTenantMismatch)
	assert.Empty(t, e.repo.overrides)

	err = e.svc.CreatePriceOverride(ctx, e.owner, &model.PriceOverride{
		ProductID: e.product.ID,
		ShopID:    e.shop.ID,
		Price:     decimal.RequireFromString("30.001"),
	})
	require.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestMembership_Defaults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	staff := model.Staff{Name: "João", IsActive: true}
	require.NoError(t, e.svc.CreateStaff(ctx, e.owner, &staff))

	m := model.StaffMembership{StaffID: staff.ID, ShopID: e.shop.ID, IsActive: true}
	require.NoError(t, e.svc.CreateMembership(ctx, e.owner, &m))
	assert.Equal(t, model.RoleStaff, m.Role)

	dup := model.StaffMembership{StaffID: staff.ID, ShopID: e.shop.ID, Role: model.RoleManager}
	require.ErrorIs(t, e.svc.CreateMembership(ctx, e.owner, &dup), model.ErrDuplicate)

	bad := model.StaffMembership{StaffID: staff.ID, ShopID: e.shop.ID, Role: "boss"}
	require.ErrorIs(t, e.svc.CreateMembership(ctx, e.owner, &bad), model.ErrValidation)
}

func TestCatalogValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.ErrorIs(t, e.svc.CreateShop(ctx, e.owner, &model.Shop{Name: "   "}), model.ErrValidation)
	require.ErrorIs(t, e.svc.CreateShop(ctx, e.owner, &model.Shop{Name: "Centro"}), model.ErrDuplicate)
	require.ErrorIs(t, e.svc.CreateClient(ctx, e.owner, &model.Client{Name: "Ana", Phone: "abc"}), model.ErrValidation)
	require.ErrorIs(t, e.svc.CreateProduct(ctx, e.owner, &model.Product{Name: "Pomada", Type: "gift"}), model.ErrValidation)

	p := model.Product{Name: "Pomada", Type: model.ProductTypeRetail, DefaultPrice: decimal.RequireFromString("1.5")}
	require.NoError(t, e.svc.CreateProduct(ctx, e.owner, &p))

	c := model.Client{Name: "Ana", Phone: "11 98765-4321"}
	require.NoError(t, e.svc.CreateClient(ctx, e.owner, &c))
	require.ErrorIs(t, e.svc.CreateClient(ctx, e.owner, &model.Client{Name: "Bia", Phone: "11987654321"}), model.ErrDuplicate)
	require.NoError(t, e.svc.CreateClient(ctx, uuid.New(), &model.Client{Name: "Bia", Phone: "11987654321"}))
}

func TestDeleteShop_InUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateOrder(ctx, e.owner, e.order(), []ItemInput{e.item(1, "0")})
	require.NoError(t, err)

	require.ErrorIs(t, e.svc.DeleteShop(ctx, e.owner, e.shop.ID), model.ErrInUse)
	require.ErrorIs(t, e.svc.DeleteProduct(ctx, e.owner, e.product.ID), model.ErrInUse)
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	other := model.Shop{Name: "Bairro", IsActive: true}
	require.NoError(t, e.svc.CreateShop(ctx, e.owner, &other))

	create := func(shopID uuid.UUID, status model.OrderStatus) *model.Order {
		o, err := e.svc.CreateOrder(ctx, e.owner, &model.Order{ShopID: shopID, Status: status}, []ItemInput{e.item(1, "0")})
		require.NoError(t, err)
		return o
	}

	create(e.shop.ID, model.OrderStatusDone)
	create(e.shop.ID, model.OrderStatusDone)
	create(e.shop.ID, model.OrderStatusScheduled)
	create(e.shop.ID, model.OrderStatusInProgress)
	create(other.ID, model.OrderStatusDone)

	old := create(e.shop.ID, model.OrderStatusScheduled)
	stale := e.repo.orders[old.ID]
	stale.CreatedAt = e.repo.now.AddDate(0, 0, -2)
	e.repo.orders[old.ID] = stale

	d, err := e.svc.Dashboard(ctx, e.owner, nil)
	require.NoError(t, err)
	assert.Equal(t, "75.00", money(d.RevenueToday))
	assert.Equal(t, 1, d.ScheduledToday)
	assert.Equal(t, 1, d.InProgress)
	assert.Len(t, d.Scheduled, 2)
	assert.Len(t, d.InProgressList, 1)

	d, err = e.svc.Dashboard(ctx, e.owner, &other.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", money(d.RevenueToday))
	assert.Zero(t, d.ScheduledToday)
	assert.Empty(t, d.Scheduled)
}
