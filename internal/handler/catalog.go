package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
)

// ListShops возвращает точки текущего владельца.
func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	shops, err := h.service.ListShops(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err, "list shops")
		return
	}

	resp := make([]shopResponse, 0, len(shops))
	for i := range shops {
		resp = append(resp, newShopResponse(&shops[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateShop создаёт точку.
func (h *Handler) CreateShop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req shopRequest
	if !h.decode(w, r, &req) {
		return
	}

	shop := req.toModel(uuid.Nil)
	if err := h.service.CreateShop(r.Context(), ownerID, shop); err != nil {
		h.writeError(w, err, "create shop")
		return
	}
	writeJSON(w, http.StatusCreated, newShopResponse(shop))
}

// GetShop возвращает точку.
func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	shop, err := h.service.GetShop(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get shop")
		return
	}
	writeJSON(w, http.StatusOK, newShopResponse(shop))
}

// UpdateShop обновляет точку.
func (h *Handler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req shopRequest
	if !h.decode(w, r, &req) {
		return
	}

	shop := req.toModel(id)
	if err := h.service.UpdateShop(r.Context(), ownerID, shop); err != nil {
		h.writeError(w, err, "update shop")
		return
	}
	writeJSON(w, http.StatusOK, newShopResponse(shop))
}

// DeleteShop удаляет точку.
func (h *Handler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteShop(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete shop")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStaff возвращает сотрудников.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	staff, err := h.service.ListStaff(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err, "list staff")
		return
	}

	resp := make([]staffResponse, 0, len(staff))
	for i := range staff {
		resp = append(resp, newStaffResponse(&staff[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateStaff создаёт сотрудника.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req staffRequest
	if !h.decode(w, r, &req) {
		return
	}

	staff := req.toModel(uuid.Nil)
	if err := h.service.CreateStaff(r.Context(), ownerID, staff); err != nil {
		h.writeError(w, err, "create staff")
		return
	}
	writeJSON(w, http.StatusCreated, newStaffResponse(staff))
}

// GetStaff возвращает сотрудника.
func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	staff, err := h.service.GetStaff(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get staff")
		return
	}
	writeJSON(w, http.StatusOK, newStaffResponse(staff))
}

// UpdateStaff обновляет сотрудника.
func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req staffRequest
	if !h.decode(w, r, &req) {
		return
	}

	staff := req.toModel(id)
	if err := h.service.UpdateStaff(r.Context(), ownerID, staff); err != nil {
		h.writeError(w, err, "update staff")
		return
	}
	writeJSON(w, http.StatusOK, newStaffResponse(staff))
}

// DeleteStaff удаляет сотрудника.
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteStaff(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete staff")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMemberships возвращает привязки сотрудников, с фильтром shop_id.
func (h *Handler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	shopID, err := optionalUUID("shop_id", r.URL.Query().Get("shop_id"))
	if err != nil {
		h.writeError(w, err, "list memberships")
		return
	}

	list, err := h.service.ListMemberships(r.Context(), ownerID, shopID)
	if err != nil {
		h.writeError(w, err, "list memberships")
		return
	}

	resp := make([]membershipResponse, 0, len(list))
	for i := range list {
		resp = append(resp, newMembershipResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateMembership привязывает сотрудника к точке.
func (h *Handler) CreateMembership(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req membershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	m := req.toModel(uuid.Nil)
	if err := h.service.CreateMembership(r.Context(), ownerID, m); err != nil {
		h.writeError(w, err, "create membership")
		return
	}
	writeJSON(w, http.StatusCreated, newMembershipResponse(m))
}

// GetMembership возвращает привязку.
func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	m, err := h.service.GetMembership(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get membership")
		return
	}
	writeJSON(w, http.StatusOK, newMembershipResponse(m))
}

// UpdateMembership обновляет привязку.
func (h *Handler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req membershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	m := req.toModel(id)
	if err := h.service.UpdateMembership(r.Context(), ownerID, m); err != nil {
		h.writeError(w, err, "update membership")
		return
	}
	writeJSON(w, http.StatusOK, newMembershipResponse(m))
}

// DeleteMembership удаляет привязку.
func (h *Handler) DeleteMembership(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMembership(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete membership")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts возвращает продукты с фильтрами q и active.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := model.ProductFilter{Query: strings.TrimSpace(q.Get("q"))}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, model.NewFieldError("active", model.ErrValidation), "list products")
			return
		}
		f.Active = &active
	}

	products, err := h.service.ListProducts(r.Context(), ownerID, f)
	if err != nil {
		h.writeError(w, err, "list products")
		return
	}

	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateProduct создаёт продукт.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req productRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := req.toModel(uuid.Nil)
	if err != nil {
		h.writeError(w, err, "create product")
		return
	}
	if err := h.service.CreateProduct(r.Context(), ownerID, p); err != nil {
		h.writeError(w, err, "create product")
		return
	}
	writeJSON(w, http.StatusCreated, newProductResponse(p))
}

// GetProduct возвращает продукт.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.GetProduct(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get product")
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(p))
}

// UpdateProduct обновляет продукт.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req productRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := req.toModel(id)
	if err != nil {
		h.writeError(w, err, "update product")
		return
	}
	if err := h.service.UpdateProduct(r.Context(), ownerID, p); err != nil {
		h.writeError(w, err, "update product")
		return
	}
	writeJSON(w, http.StatusOK, newProductResponse(p))
}

// DeleteProduct удаляет продукт.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPriceOverrides возвращает цены продуктов по точкам с фильтрами shop_id и product_id.
func (h *Handler) ListPriceOverrides(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	shopID, err := optionalUUID("shop_id", q.Get("shop_id"))
	if err != nil {
		h.writeError(w, err, "list price overrides")
		return
	}
	productID, err := optionalUUID("product_id", q.Get("product_id"))
	if err != nil {
		h.writeError(w, err, "list price overrides")
		return
	}

	list, err := h.service.ListPriceOverrides(r.Context(), ownerID, model.PriceOverrideFilter{ShopID: shopID, ProductID: productID})
	if err != nil {
		h.writeError(w, err, "list price overrides")
		return
	}

	resp := make([]priceOverrideResponse, 0, len(list))
	for i := range list {
		resp = append(resp, newPriceOverrideResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePriceOverride задаёт цену продукта для точки.
func (h *Handler) CreatePriceOverride(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req priceOverrideRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, err := req.toModel(uuid.Nil)
	if err != nil {
		h.writeError(w, err, "create price override")
		return
	}
	if err := h.service.CreatePriceOverride(r.Context(), ownerID, o); err != nil {
		h.writeError(w, err, "create price override")
		return
	}
	writeJSON(w, http.StatusCreated, newPriceOverrideResponse(o))
}

// GetPriceOverride возвращает цену продукта для точки.
func (h *Handler) GetPriceOverride(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.GetPriceOverride(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get price override")
		return
	}
	writeJSON(w, http.StatusOK, newPriceOverrideResponse(o))
}

// UpdatePriceOverride обновляет цену продукта для точки.
func (h *Handler) UpdatePriceOverride(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req priceOverrideRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, err := req.toModel(id)
	if err != nil {
		h.writeError(w, err, "update price override")
		return
	}
	if err := h.service.UpdatePriceOverride(r.Context(), ownerID, o); err != nil {
		h.writeError(w, err, "update price override")
		return
	}
	writeJSON(w, http.StatusOK, newPriceOverrideResponse(o))
}

// DeletePriceOverride удаляет цену продукта для точки.
func (h *Handler) DeletePriceOverride(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePriceOverride(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete price override")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListClients возвращает клиентов, параметр q ищет по имени и телефону.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	clients, err := h.service.ListClients(r.Context(), ownerID, strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		h.writeError(w, err, "list clients")
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, newClientResponse(&clients[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateClient создаёт клиента.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req clientRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := req.toModel(uuid.Nil)
	if err := h.service.CreateClient(r.Context(), ownerID, c); err != nil {
		h.writeError(w, err, "create client")
		return
	}
	writeJSON(w, http.StatusCreated, newClientResponse(c))
}

// GetClient возвращает клиента.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.GetClient(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get client")
		return
	}
	writeJSON(w, http.StatusOK, newClientResponse(c))
}

// UpdateClient обновляет клиента.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req clientRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := req.toModel(id)
	if err := h.service.UpdateClient(r.Context(), ownerID, c); err != nil {
		h.writeError(w, err, "update client")
		return
	}
	writeJSON(w, http.StatusOK, newClientResponse(c))
}

// DeleteClient удаляет клиента.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteClient(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
