package model

// OrderStatus описывает статус сервисного заказа.
type OrderStatus string

const (
	OrderStatusScheduled  OrderStatus = "scheduled"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCanceled   OrderStatus = "canceled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusScheduled:  {OrderStatusInProgress, OrderStatusCanceled},
	OrderStatusInProgress: {OrderStatusDone, OrderStatusCanceled},
}

// Valid сообщает, является ли статус допустимым.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusScheduled, OrderStatusInProgress, OrderStatusDone, OrderStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo сообщает, разрешён ли переход в статус next.
// Запись того же статуса переходом не считается и разрешена.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Final сообщает, что заказ завершён или отменён.
func (s OrderStatus) Final() bool {
	return s == OrderStatusDone || s == OrderStatusCanceled
}
