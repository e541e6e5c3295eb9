package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/pricing"
)

const (
	maxShopNameLen    = 120
	maxStaffNameLen   = 120
	maxProductNameLen = 140
	maxClientNameLen  = 120
)

func (s *Service) prepareShop(sh *model.Shop) error {
	var err error
	if sh.Name, err = requireName("name", sh.Name, maxShopNameLen); err != nil {
		return err
	}
	if sh.Phone, err = cleanPhone("phone", sh.Phone); err != nil {
		return err
	}
	return nil
}

// CreateShop создаёт точку владельца.
func (s *Service) CreateShop(ctx context.Context, ownerID uuid.UUID, sh *model.Shop) error {
	sh.ID = newID()
	sh.OwnerID = ownerID
	if err := s.prepareShop(sh); err != nil {
		return err
	}
	return s.repo.CreateShop(ctx, sh)
}

// UpdateShop обновляет точку владельца.
func (s *Service) UpdateShop(ctx context.Context, ownerID uuid.UUID, sh *model.Shop) error {
	sh.OwnerID = ownerID
	if err := s.prepareShop(sh); err != nil {
		return err
	}
	return s.repo.UpdateShop(ctx, sh)
}

// GetShop возвращает точку владельца.
func (s *Service) GetShop(ctx context.Context, ownerID, id uuid.UUID) (*model.Shop, error) {
	return s.repo.GetShop(ctx, ownerID, id)
}

// ListShops возвращает точки владельца.
func (s *Service) ListShops(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error) {
	return s.repo.ListShops(ctx, ownerID)
}

// DeleteShop удаляет точку владельца.
func (s *Service) DeleteShop(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteShop(ctx, ownerID, id)
}

func (s *Service) prepareStaff(st *model.Staff) error {
	var err error
	if st.Name, err = requireName("name", st.Name, maxStaffNameLen); err != nil {
		return err
	}
	if st.Phone, err = cleanPhone("phone", st.Phone); err != nil {
		return err
	}
	return nil
}

// CreateStaff создаёт сотрудника владельца.
func (s *Service) CreateStaff(ctx context.Context, ownerID uuid.UUID, st *model.Staff) error {
	st.ID = newID()
	st.OwnerID = ownerID
	if err := s.prepareStaff(st); err != nil {
		return err
	}
	return s.repo.CreateStaff(ctx, st)
}

// UpdateStaff обновляет сотрудника владельца.
func (s *Service) UpdateStaff(ctx context.Context, ownerID uuid.UUID, st *model.Staff) error {
	st.OwnerID = ownerID
	if err := s.prepareStaff(st); err != nil {
		return err
	}
	return s.repo.UpdateStaff(ctx, st)
}

// GetStaff возвращает сотрудника владельца.
func (s *Service) GetStaff(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error) {
	return s.repo.GetStaff(ctx, ownerID, id)
}

// ListStaff возвращает сотрудников владельца.
func (s *Service) ListStaff(ctx context.Context, ownerID uuid.UUID) ([]model.Staff, error) {
	return s.repo.ListStaff(ctx, ownerID)
}

// DeleteStaff удаляет сотрудника владельца.
func (s *Service) DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteStaff(ctx, ownerID, id)
}

// checkMembershipRefs проверяет, что сотрудник и точка принадлежат владельцу привязки.
func (s *Service) checkMembershipRefs(ctx context.Context, m *model.StaffMembership) error {
	if m.Role == "" {
		m.Role = model.RoleStaff
	}
	if !m.Role.Valid() {
		return model.NewFieldError("role", model.ErrValidation)
	}

	staff, err := s.repo.GetStaff(ctx, m.OwnerID, m.StaffID)
	if err != nil {
		return foreignRef("staff", err)
	}
	shop, err := s.repo.GetShop(ctx, m.OwnerID, m.ShopID)
	if err != nil {
		return foreignRef("shop", err)
	}

	return pricing.CheckTenant(m.OwnerID,
		pricing.Ref{Field: "staff", OwnerID: staff.OwnerID},
		pricing.Ref{Field: "shop", OwnerID: shop.OwnerID},
	)
}

// CreateMembership привязывает сотрудника к точке.
func (s *Service) CreateMembership(ctx context.Context, ownerID uuid.UUID, m *model.StaffMembership) error {
	m.ID = newID()
	m.OwnerID = ownerID
	if err := s.checkMembershipRefs(ctx, m); err != nil {
		return err
	}
	return s.repo.CreateMembership(ctx, m)
}

// UpdateMembership обновляет привязку сотрудника к точке.
func (s *Service) UpdateMembership(ctx context.Context, ownerID uuid.UUID, m *model.StaffMembership) error {
	m.OwnerID = ownerID
	if err := s.checkMembershipRefs(ctx, m); err != nil {
		return err
	}
	return s.repo.UpdateMembership(ctx, m)
}

// GetMembership возвращает привязку владельца.
func (s *Service) GetMembership(ctx context.Context, ownerID, id uuid.UUID) (*model.StaffMembership, error) {
	return s.repo.GetMembership(ctx, ownerID, id)
}

// ListMemberships возвращает привязки владельца.
func (s *Service) ListMemberships(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) ([]model.StaffMembership, error) {
	return s.repo.ListMemberships(ctx, ownerID, shopID)
}

// DeleteMembership удаляет привязку владельца.
func (s *Service) DeleteMembership(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteMembership(ctx, ownerID, id)
}

func (s *Service) prepareProduct(p *model.Product) error {
	var err error
	if p.Name, err = requireName("name", p.Name, maxProductNameLen); err != nil {
		return err
	}
	if p.Type == "" {
		p.Type = model.ProductTypeService
	}
	if !p.Type.Valid() {
		return model.NewFieldError("type", model.ErrValidation)
	}
	return checkMoney("default_price", p.DefaultPrice)
}

// CreateProduct создаёт продукт владельца.
func (s *Service) CreateProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) error {
	p.ID = newID()
	p.OwnerID = ownerID
	if err := s.prepareProduct(p); err != nil {
		return err
	}
	return s.repo.CreateProduct(ctx, p)
}

// UpdateProduct обновляет продукт владельца.
// Цены уже сохранённых строк заказов не меняются.
func (s *Service) UpdateProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) error {
	p.OwnerID = ownerID
	if err := s.prepareProduct(p); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, p)
}

// GetProduct возвращает продукт владельца.
func (s *Service) GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error) {
	return s.repo.GetProduct(ctx, ownerID, id)
}

// ListProducts возвращает продукты владельца по фильтру.
func (s *Service) ListProducts(ctx context.Context, ownerID uuid.UUID, f model.ProductFilter) ([]model.Product, error) {
	return s.repo.ListProducts(ctx, ownerID, f)
}

// DeleteProduct удаляет продукт владельца.
func (s *Service) DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, ownerID, id)
}

func (s *Service) checkOverride(ctx context.Context, o *model.PriceOverride) error {
	if err := checkMoney("price", o.Price); err != nil {
		return err
	}

	product, err := s.repo.GetProduct(ctx, o.OwnerID, o.ProductID)
	if err != nil {
		return foreignRef("product", err)
	}
	shop, err := s.repo.GetShop(ctx, o.OwnerID, o.ShopID)
	if err != nil {
		return foreignRef("shop", err)
	}

	return pricing.CheckTenant(o.OwnerID,
		pricing.Ref{Field: "product", OwnerID: product.OwnerID},
		pricing.Ref{Field: "shop", OwnerID: shop.OwnerID},
	)
}

// CreatePriceOverride задаёт цену продукта для точки.
func (s *Service) CreatePriceOverride(ctx context.Context, ownerID uuid.UUID, o *model.PriceOverride) error {
	o.ID = newID()
	o.OwnerID = ownerID
	if err := s.checkOverride(ctx, o); err != nil {
		return err
	}
	return s.repo.CreatePriceOverride(ctx, o)
}

// UpdatePriceOverride обновляет цену продукта для точки.
func (s *Service) UpdatePriceOverride(ctx context.Context, ownerID uuid.UUID, o *model.PriceOverride) error {
	o.OwnerID = ownerID
	if err := s.checkOverride(ctx, o); err != nil {
		return err
	}
	return s.repo.UpdatePriceOverride(ctx, o)
}

// GetPriceOverride возвращает переопределение цены владельца.
func (s *Service) GetPriceOverride(ctx context.Context, ownerID, id uuid.UUID) (*model.PriceOverride, error) {
	return s.repo.GetPriceOverride(ctx, ownerID, id)
}

// ListPriceOverrides возвращает переопределения цен владельца.
func (s *Service) ListPriceOverrides(ctx context.Context, ownerID uuid.UUID, f model.PriceOverrideFilter) ([]model.PriceOverride, error) {
	return s.repo.ListPriceOverrides(ctx, ownerID, f)
}

// DeletePriceOverride удаляет переопределение цены.
func (s *Service) DeletePriceOverride(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeletePriceOverride(ctx, ownerID, id)
}

func (s *Service) prepareClient(c *model.Client) error {
	var err error
	if c.Name, err = requireName("name", c.Name, maxClientNameLen); err != nil {
		return err
	}
	if c.Phone, err = cleanPhone("phone", c.Phone); err != nil {
		return err
	}
	return nil
}

// CreateClient создаёт клиента владельца. Телефон уникален в пределах владельца.
func (s *Service) CreateClient(ctx context.Context, ownerID uuid.UUID, c *model.Client) error {
	c.ID = newID()
	c.OwnerID = ownerID
	if err := s.prepareClient(c); err != nil {
		return err
	}
	return s.repo.CreateClient(ctx, c)
}

// UpdateClient обновляет клиента владельца.
func (s *Service) UpdateClient(ctx context.Context, ownerID uuid.UUID, c *model.Client) error {
	c.OwnerID = ownerID
	if err := s.prepareClient(c); err != nil {
		return err
	}
	return s.repo.UpdateClient(ctx, c)
}

// GetClient возвращает клиента владельца.
func (s *Service) GetClient(ctx context.Context, ownerID, id uuid.UUID) (*model.Client, error) {
	return s.repo.GetClient(ctx, ownerID, id)
}

// ListClients возвращает клиентов владельца.
func (s *Service) ListClients(ctx context.Context, ownerID uuid.UUID, query string) ([]model.Client, error) {
	return s.repo.ListClients(ctx, ownerID, query)
}

// DeleteClient удаляет клиента владельца.
func (s *Service) DeleteClient(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, ownerID, id)
}
