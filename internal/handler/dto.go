package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/service"
	"github.com/mmeshcher/barberpos/internal/validation"
)

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	d, err := validation.ParseMoney(s)
	if err != nil {
		return d, model.NewFieldError(field, err)
	}
	return d, nil
}

type shopRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"max=32"`
	Address  string `json:"address" validate:"max=255"`
	IsActive *bool  `json:"is_active"`
}

func (req shopRequest) toModel(id uuid.UUID) *model.Shop {
	return &model.Shop{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: boolOr(req.IsActive, true),
	}
}

type shopResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newShopResponse(s *model.Shop) shopResponse {
	return shopResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Address:   s.Address,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type staffRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"max=32"`
	IsActive *bool  `json:"is_active"`
}

func (req staffRequest) toModel(id uuid.UUID) *model.Staff {
	return &model.Staff{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		IsActive: boolOr(req.IsActive, true),
	}
}

type staffResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newStaffResponse(s *model.Staff) staffResponse {
	return staffResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type membershipRequest struct {
	StaffID  string `json:"staff_id" validate:"required,uuid"`
	ShopID   string `json:"shop_id" validate:"required,uuid"`
	Role     string `json:"role" validate:"omitempty,oneof=owner manager staff"`
	IsActive *bool  `json:"is_active"`
}

func (req membershipRequest) toModel(id uuid.UUID) *model.StaffMembership {
	return &model.StaffMembership{
		ID:       id,
		StaffID:  uuid.MustParse(req.StaffID),
		ShopID:   uuid.MustParse(req.ShopID),
		Role:     model.MembershipRole(req.Role),
		IsActive: boolOr(req.IsActive, true),
	}
}

type membershipResponse struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	ShopID    uuid.UUID `json:"shop_id"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newMembershipResponse(m *model.StaffMembership) membershipResponse {
	return membershipResponse{
		ID:        m.ID,
		StaffID:   m.StaffID,
		ShopID:    m.ShopID,
		Role:      string(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type productRequest struct {
	Name             string `json:"name" validate:"required,max=140"`
	Type             string `json:"type" validate:"omitempty,oneof=service retail"`
	Description      string `json:"description"`
	DefaultPrice     string `json:"default_price"`
	ShareAcrossShops *bool  `json:"share_across_shops"`
	IsActive         *bool  `json:"is_active"`
}

func (req productRequest) toModel(id uuid.UUID) (*model.Product, error) {
	price, err := parseMoney("default_price", req.DefaultPrice)
	if err != nil {
		return nil, err
	}
	return &model.Product{
		ID:               id,
		Name:             req.Name,
		Type:             model.ProductType(req.Type),
		Description:      req.Description,
		DefaultPrice:     price,
		ShareAcrossShops: boolOr(req.ShareAcrossShops, true),
		IsActive:         boolOr(req.IsActive, true),
	}, nil
}

type productResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Description      string    `json:"description"`
	DefaultPrice     string    `json:"default_price"`
	ShareAcrossShops bool      `json:"share_across_shops"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:               p.ID,
		Name:             p.Name,
		Type:             string(p.Type),
		Description:      p.Description,
		DefaultPrice:     validation.FormatMoney(p.DefaultPrice),
		ShareAcrossShops: p.ShareAcrossShops,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type priceOverrideRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	ShopID    string `json:"shop_id" validate:"required,uuid"`
	Price     string `json:"price" validate:"required"`
}

func (req priceOverrideRequest) toModel(id uuid.UUID) (*model.PriceOverride, error) {
	price, err := parseMoney("price", req.Price)
	if err != nil {
		return nil, err
	}
	return &model.PriceOverride{
		ID:        id,
		ProductID: uuid.MustParse(req.ProductID),
		ShopID:    uuid.MustParse(req.ShopID),
		Price:     price,
	}, nil
}

type priceOverrideResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	ShopID    uuid.UUID `json:"shop_id"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPriceOverrideResponse(o *model.PriceOverride) priceOverrideResponse {
	return priceOverrideResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		ShopID:    o.ShopID,
		Price:     validation.FormatMoney(o.Price),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type clientRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"max=32"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Notes    string `json:"notes"`
	IsActive *bool  `json:"is_active"`
}

func (req clientRequest) toModel(id uuid.UUID) *model.Client {
	return &model.Client{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
		IsActive: boolOr(req.IsActive, true),
	}
}

type clientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newClientResponse(c *model.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type itemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"qty" validate:"lte=10000"`
	UnitPrice string `json:"unit_price"`
}

func (req itemRequest) toInput() (service.ItemInput, error) {
	price, err := parseMoney("unit_price", req.UnitPrice)
	if err != nil {
		return service.ItemInput{}, err
	}
	return service.ItemInput{
		ProductID: uuid.MustParse(req.ProductID),
		Quantity:  req.Quantity,
		UnitPrice: price,
	}, nil
}

type orderRequest struct {
	ShopID        string        `json:"shop_id" validate:"required,uuid"`
	ClientID      string        `json:"client_id" validate:"omitempty,uuid"`
	StaffID       string        `json:"staff_id" validate:"omitempty,uuid"`
	CustomerName  string        `json:"customer_name" validate:"max=120"`
	CustomerPhone string        `json:"customer_phone" validate:"max=32"`
	ScheduledFor  *time.Time    `json:"scheduled_for"`
	Status        string        `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	AmountPaid    string        `json:"amount_paid"`
	Discount      string        `json:"discount_amount"`
	Notes         string        `json:"notes"`
	Items         []itemRequest `json:"items" validate:"omitempty,dive"`
}

// toModel возвращает заказ и строки. Строки равны nil, если поле items отсутствует.
func (req orderRequest) toModel(id uuid.UUID) (*model.Order, []service.ItemInput, error) {
	clientID, err := optionalUUID("client_id", req.ClientID)
	if err != nil {
		return nil, nil, err
	}
	staffID, err := optionalUUID("staff_id", req.StaffID)
	if err != nil {
		return nil, nil, err
	}
	amountPaid, err := parseMoney("amount_paid", req.AmountPaid)
	if err != nil {
		return nil, nil, err
	}
	discount, err := parseMoney("discount_amount", req.Discount)
	if err != nil {
		return nil, nil, err
	}

	var items []service.ItemInput
	if req.Items != nil {
		items = make([]service.ItemInput, 0, len(req.Items))
		for _, it := range req.Items {
			in, err := it.toInput()
			if err != nil {
				return nil, nil, err
			}
			items = append(items, in)
		}
	}

	return &model.Order{
		ID:            id,
		ShopID:        uuid.MustParse(req.ShopID),
		ClientID:      clientID,
		StaffID:       staffID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ScheduledFor:  req.ScheduledFor,
		Status:        model.OrderStatus(req.Status),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		AmountPaid:    amountPaid,
		Discount:      discount,
		Notes:         req.Notes,
	}, items, nil
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type itemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"qty"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

type orderResponse struct {
	ID            uuid.UUID      `json:"id"`
	ShopID        uuid.UUID      `json:"shop_id"`
	ClientID      *uuid.UUID     `json:"client_id,omitempty"`
	StaffID       *uuid.UUID     `json:"staff_id,omitempty"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	ScheduledFor  *time.Time     `json:"scheduled_for,omitempty"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	FinishedAt    *time.Time     `json:"finished_at,omitempty"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"payment_method"`
	AmountPaid    string         `json:"amount_paid"`
	Discount      string         `json:"discount_amount"`
	Subtotal      string         `json:"subtotal"`
	Total         string         `json:"total_amount"`
	Notes         string         `json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Items         []itemResponse `json:"items,omitempty"`
}

func newOrderResponse(o *model.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		ShopID:        o.ShopID,
		ClientID:      o.ClientID,
		StaffID:       o.StaffID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		ScheduledFor:  o.ScheduledFor,
		StartedAt:     o.StartedAt,
		FinishedAt:    o.FinishedAt,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		AmountPaid:    validation.FormatMoney(o.AmountPaid),
		Discount:      validation.FormatMoney(o.Discount),
		Subtotal:      validation.FormatMoney(o.Subtotal),
		Total:         validation.FormatMoney(o.Total),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, itemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: validation.FormatMoney(it.UnitPrice),
			LineTotal: validation.FormatMoney(it.LineTotal()),
		})
	}
	return resp
}

func newOrderList(orders []model.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	return resp
}

type dashboardResponse struct {
	RevenueToday   string          `json:"revenue_today"`
	ScheduledToday int             `json:"scheduled_today"`
	InProgress     int             `json:"in_progress"`
	Scheduled      []orderResponse `json:"scheduled"`
	InProgressList []orderResponse `json:"in_progress_orders"`
}
