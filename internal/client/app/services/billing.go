package services

import (
	"context"
	"fmt"

	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/invalidation"
	"subtrak/internal/client/ports/cache"
)

// BillingService - операции над способами оплаты, сводкой и журналом отмен.
type BillingService struct {
	base
}

// NewBillingService создает сервис биллинга.
func NewBillingService(api *rest.Client, c cache.Cache, graph *invalidation.Graph) *BillingService {
	return &BillingService{base: base{api: api, cache: c, graph: graph}}
}

// PaymentMethods возвращает список способов оплаты.
func (s *BillingService) PaymentMethods(ctx context.Context) ([]dto.PaymentMethod, error) {
	return readThrough(ctx, s.cache, invalidation.KeyPaymentMethods, func(ctx context.Context) ([]dto.PaymentMethod, error) {
		var out []dto.PaymentMethod
		if err := s.api.Get(ctx, "/payment-methods", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// CreatePaymentMethod создает способ оплаты.
func (s *BillingService) CreatePaymentMethod(ctx context.Context, req dto.PaymentMethodCreate) (dto.PaymentMethod, error) {
	var out dto.PaymentMethod
	err := s.commit(ctx, invalidation.PaymentMethodCreate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/payment-methods", req, &out)
	})
	return out, err
}

// UpdatePaymentMethod обновляет способ оплаты.
func (s *BillingService) UpdatePaymentMethod(ctx context.Context, id int64, req dto.PaymentMethodCreate) (dto.PaymentMethod, error) {
	var out dto.PaymentMethod
	err := s.commit(ctx, invalidation.PaymentMethodUpdate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Put(ctx, fmt.Sprintf("/payment-methods/%d", id), req, &out)
	})
	return out, err
}

// DeletePaymentMethod удаляет способ оплаты.
func (s *BillingService) DeletePaymentMethod(ctx context.Context, id int64) error {
	return s.commit(ctx, invalidation.PaymentMethodDelete, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/payment-methods/%d", id))
	})
}

// MigratePaymentMethod переносит подписки со старой карты на новую.
func (s *BillingService) MigratePaymentMethod(ctx context.Context, oldID, newID int64, req dto.PaymentMethodMigrate) error {
	return s.commit(ctx, invalidation.PaymentMethodMigrate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, fmt.Sprintf("/payment-methods/%d/migrate/%d", oldID, newID), req, nil)
	})
}

// Dashboard возвращает сводку панели управления.
func (s *BillingService) Dashboard(ctx context.Context) (dto.DashboardSummary, error) {
	return readThrough(ctx, s.cache, invalidation.KeyDashboard, func(ctx context.Context) (dto.DashboardSummary, error) {
		var out dto.DashboardSummary
		if err := s.api.Get(ctx, "/dashboard/summary", &out); err != nil {
			return dto.DashboardSummary{}, err
		}
		return out, nil
	})
}

// CancellationLogs возвращает журнал отмен.
func (s *BillingService) CancellationLogs(ctx context.Context) ([]dto.CancellationLog, error) {
	return readThrough(ctx, s.cache, invalidation.KeyCancellations, func(ctx context.Context) ([]dto.CancellationLog, error) {
		var out []dto.CancellationLog
		if err := s.api.Get(ctx, "/cancellation-logs", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}
