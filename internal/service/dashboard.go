package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/model"
)

// Dashboard возвращает показатели за текущий день и списки запланированных
// и выполняемых заказов. Если shopID не nil, учитывается только эта точка.
func (s *Service) Dashboard(ctx context.Context, ownerID uuid.UUID, shopID *uuid.UUID) (*model.Dashboard, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	revenue, scheduled, inProgress, err := s.repo.OrderStats(ctx, ownerID, shopID, from, to)
	if err != nil {
		return nil, err
	}

	scheduledStatus := model.OrderStatusScheduled
	scheduledList, err := s.repo.ListOrders(ctx, ownerID, model.OrderFilter{ShopID: shopID, Status: &scheduledStatus})
	if err != nil {
		return nil, err
	}

	inProgressStatus := model.OrderStatusInProgress
	inProgressList, err := s.repo.ListOrders(ctx, ownerID, model.OrderFilter{ShopID: shopID, Status: &inProgressStatus})
	if err != nil {
		return nil, err
	}

	return &model.Dashboard{
		RevenueToday:   revenue,
		ScheduledToday: scheduled,
		InProgress:     inProgress,
		Scheduled:      scheduledList,
		InProgressList: inProgressList,
	}, nil
}
