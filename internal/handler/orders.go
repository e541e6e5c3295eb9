package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/validation"
)

const maxOrdersLimit = 500

// ListOrders возвращает заказы с фильтрами shop_id, status и limit.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	shopID, err := optionalUUID("shop_id", q.Get("shop_id"))
	if err != nil {
		h.writeError(w, err, "list orders")
		return
	}

	f := model.OrderFilter{ShopID: shopID, Limit: maxOrdersLimit}
	if v := q.Get("status"); v != "" {
		status := model.OrderStatus(v)
		f.Status = &status
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > maxOrdersLimit {
			h.writeError(w, model.NewFieldError("limit", model.ErrValidation), "list orders")
			return
		}
		f.Limit = limit
	}

	orders, err := h.service.ListOrders(r.Context(), ownerID, f)
	if err != nil {
		h.writeError(w, err, "list orders")
		return
	}
	writeJSON(w, http.StatusOK, newOrderList(orders))
}

// CreateOrder создаёт заказ со строками.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, items, err := req.toModel(uuid.Nil)
	if err != nil {
		h.writeError(w, err, "create order")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), ownerID, o, items)
	if err != nil {
		h.writeError(w, err, "create order")
		return
	}
	writeJSON(w, http.StatusCreated, newOrderResponse(order))
}

// GetOrder возвращает заказ со строками.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err, "get order")
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

// UpdateOrder обновляет заказ. Поле items, если передано, заменяет строки заказа.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req orderRequest
	if !h.decode(w, r, &req) {
		return
	}

	o, items, err := req.toModel(id)
	if err != nil {
		h.writeError(w, err, "update order")
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), ownerID, o, items)
	if err != nil {
		h.writeError(w, err, "update order")
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

// DeleteOrder удаляет заказ.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err, "delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeOrderStatus переводит заказ в новый статус.
func (h *Handler) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.service.ChangeOrderStatus(r.Context(), ownerID, id, model.OrderStatus(req.Status))
	if err != nil {
		h.writeError(w, err, "change order status")
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

// AddOrderItem добавляет строку в заказ и возвращает заказ с новыми итогами.
func (h *Handler) AddOrderItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req itemRequest
	if !h.decode(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		h.writeError(w, err, "add order item")
		return
	}

	order, err := h.service.AddOrderItem(r.Context(), ownerID, orderID, in)
	if err != nil {
		h.writeError(w, err, "add order item")
		return
	}
	writeJSON(w, http.StatusCreated, newOrderResponse(order))
}

// UpdateOrderItem изменяет строку заказа и возвращает заказ с новыми итогами.
func (h *Handler) UpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req itemRequest
	if !h.decode(w, r, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		h.writeError(w, err, "update order item")
		return
	}

	order, err := h.service.UpdateOrderItem(r.Context(), ownerID, orderID, itemID, in)
	if err != nil {
		h.writeError(w, err, "update order item")
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

// DeleteOrderItem удаляет строку заказа и возвращает заказ с новыми итогами.
func (h *Handler) DeleteOrderItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	order, err := h.service.DeleteOrderItem(r.Context(), ownerID, orderID, itemID)
	if err != nil {
		h.writeError(w, err, "delete order item")
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

// Dashboard возвращает показатели дня. Параметр shop_id выбирает текущую точку.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	shopID, err := optionalUUID("shop_id", r.URL.Query().Get("shop_id"))
	if err != nil {
		h.writeError(w, err, "dashboard")
		return
	}

	d, err := h.service.Dashboard(r.Context(), ownerID, shopID)
	if err != nil {
		h.writeError(w, err, "dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		RevenueToday:   validation.FormatMoney(d.RevenueToday),
		ScheduledToday: d.ScheduledToday,
		InProgress:     d.InProgress,
		Scheduled:      newOrderList(d.Scheduled),
		InProgressList: newOrderList(d.InProgressList),
	})
}
