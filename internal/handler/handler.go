// Package handler содержит HTTP-обработчики JSON API бэк-офиса barberpos.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mmeshcher/barberpos/internal/middleware"
	"github.com/mmeshcher/barberpos/internal/model"
	"github.com/mmeshcher/barberpos/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Ping(ctx context.Context) error

	CreateShop(ctx context.Context, ownerID uuid.UUID, s *model.Shop) error
	UpdateShop(ctx context.Context, ownerID uuid.UUID, s *model.Shop) error
	GetShop(ctx context.Context, ownerID, id uuid.UUID) (*model.Shop, error)
	ListShops(ctx context.Context, ownerID uuid.UUID) ([]model.Shop, error)
	DeleteShop(ctx context.Context, ownerID, id uuid.UUID) error

	CreateStaff(ctx context.Context, ownerID uuid.UUID, s *model.Staff) error
	UpdateStaff(ctx context.Context, ownerID uuid.UUID, s *model.Staff) error
	GetStaff(ctx context.Context, ownerID, id uuid.UUID) (*model.Staff, error)
	ListStaff(ctx context.Context, ownerID uuid.UUID) ([]model.Staff, error)
	DeleteStaff(ctx context.Context, ownerID, id uuid.UUID) error

	CreateMembership(ctx context.Context, ownerID uuid.UUID, m *model.StaffMembership) error
	UpdateMembership(ctx context.Context, ownerID uuid.UUID, m *model.StaffMembership) error
	GetMembership(ctx context.Context, ownerID, id uuid.UUID) (*model.StaffMembership, error)
	ListMemberships(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) ([]model.StaffMembership, error)
	DeleteMembership(ctx context.Context, ownerID, id uuid.UUID) error

	CreateProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) error
	UpdateProduct(ctx context.Context, ownerID uuid.UUID, p *model.Product) error
	GetProduct(ctx context.Context, ownerID, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID, f model.ProductFilter) ([]model.Product, error)
	DeleteProduct(ctx context.Context, ownerID, id uuid.UUID) error

	CreatePriceOverride(ctx context.Context, ownerID uuid.UUID, o *model.PriceOverride) error
	UpdatePriceOverride(ctx context.Context, ownerID uuid.UUID, o *model.PriceOverride) error
	GetPriceOverride(ctx context.Context, ownerID, id uuid.UUID) (*model.PriceOverride, error)
	ListPriceOverrides(ctx context.Context, ownerID uuid.UUID, f model.PriceOverrideFilter) ([]model.PriceOverride, error)
	DeletePriceOverride(ctx context.Context, ownerID, id uuid.UUID) error

	CreateClient(ctx context.Context, ownerID uuid.UUID, c *model.Client) error
	UpdateClient(ctx context.Context, ownerID uuid.UUID, c *model.Client) error
	GetClient(ctx context.Context, ownerID, id uuid.UUID) (*model.Client, error)
	ListClients(ctx context.Context, ownerID uuid.UUID, query string) ([]model.Client, error)
	DeleteClient(ctx context.Context, ownerID, id uuid.UUID) error

	CreateOrder(ctx context.Context, ownerID uuid.UUID, o *model.Order, items []service.ItemInput) (*model.Order, error)
	UpdateOrder(ctx context.Context, ownerID uuid.UUID, o *model.Order, items []service.ItemInput) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, ownerID, id uuid.UUID, next model.OrderStatus) (*model.Order, error)
	GetOrder(ctx context.Context, ownerID, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, ownerID uuid.UUID, f model.OrderFilter) ([]model.Order, error)
	DeleteOrder(ctx context.Context, ownerID, id uuid.UUID) error

	AddOrderItem(ctx context.Context, ownerID, orderID uuid.UUID, in service.ItemInput) (*model.Order, error)
	UpdateOrderItem(ctx context.Context, ownerID, orderID, itemID uuid.UUID, in service.ItemInput) (*model.Order, error)
	DeleteOrderItem(ctx context.Context, ownerID, orderID, itemID uuid.UUID) (*model.Order, error)

	Dashboard(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) (*model.Dashboard, error)
}

// Handler реализует HTTP-обработчики API бэк-офиса.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	metrics        *middleware.Metrics
	registry       *prometheus.Registry
	validate       *validator.Validate
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
// Метрики запросов регистрируются в reg, при nil создаётся отдельный реестр.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, reg *prometheus.Registry) *Handler {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		metrics:        middleware.NewMetrics(reg),
		registry:       reg,
		validate:       newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor сопоставляет доменную ошибку HTTP-статусу.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrDuplicate), errors.Is(err, model.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, model.ErrTenantMismatch),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInactive):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" error", zap.Error(err))
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	resp := errorResponse{Error: err.Error()}
	var fe *model.FieldError
	if errors.As(err, &fe) {
		resp.Field = fe.Field
	}
	writeJSON(w, status, resp)
}

// decode читает JSON-тело запроса в dst и проверяет его теги validate.
// При ошибке ответ уже записан.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: http.StatusText(http.StatusBadRequest)})
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := model.NewFieldError(verrs[0].Field(), model.ErrValidation)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: fe.Error(), Field: fe.Field})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: http.StatusText(http.StatusBadRequest)})
		return false
	}
	return true
}

func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return id, ok
}

// pathID разбирает UUID из параметра маршрута. Некорректный идентификатор даёт 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: model.ErrNotFound.Error()})
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID разбирает необязательный UUID. Пустая строка даёт nil.
func optionalUUID(field, s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, model.NewFieldError(field, model.ErrValidation)
	}
	return &id, nil
}

// Session обменивает токен из заголовка Authorization на cookie авторизации
// для браузерного клиента.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	if err := h.authMiddleware.SetAuthCookie(w, ownerID); err != nil {
		h.logger.Error("set auth cookie error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health проверяет доступность хранилища.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
