package services

import (
	"context"
	"fmt"

	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/invalidation"
	"subtrak/internal/client/ports/cache"
)

// SubscriptionsService - операции над подписками, участниками и категориями.
type SubscriptionsService struct {
	base
}

// NewSubscriptionsService создает сервис подписок.
func NewSubscriptionsService(api *rest.Client, c cache.Cache, graph *invalidation.Graph) *SubscriptionsService {
	return &SubscriptionsService{base: base{api: api, cache: c, graph: graph}}
}

// List возвращает список подписок.
func (s *SubscriptionsService) List(ctx context.Context) ([]dto.Subscription, error) {
	return readThrough(ctx, s.cache, invalidation.KeySubscriptions, func(ctx context.Context) ([]dto.Subscription, error) {
		var out []dto.Subscription
		if err := s.api.Get(ctx, "/subscriptions", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Get возвращает одну подписку.
func (s *SubscriptionsService) Get(ctx context.Context, id int64) (dto.Subscription, error) {
	key := fmt.Sprintf("%s:%d", invalidation.KeySubscriptions, id)
	return readThrough(ctx, s.cache, key, func(ctx context.Context) (dto.Subscription, error) {
		var out dto.Subscription
		if err := s.api.Get(ctx, fmt.Sprintf("/subscriptions/%d", id), &out); err != nil {
			return dto.Subscription{}, err
		}
		return out, nil
	})
}

// Create создает подписку.
func (s *SubscriptionsService) Create(ctx context.Context, req dto.SubscriptionCreate) (dto.Subscription, error) {
	var out dto.Subscription
	err := s.commit(ctx, invalidation.SubscriptionCreate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/subscriptions", req, &out)
	})
	return out, err
}

// Update обновляет подписку.
func (s *SubscriptionsService) Update(ctx context.Context, id int64, req dto.SubscriptionCreate) (dto.Subscription, error) {
	var out dto.Subscription
	err := s.commit(ctx, invalidation.SubscriptionUpdate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Put(ctx, fmt.Sprintf("/subscriptions/%d", id), req, &out)
	})
	return out, err
}

// Delete удаляет подписку.
func (s *SubscriptionsService) Delete(ctx context.Context, id int64) error {
	return s.commit(ctx, invalidation.SubscriptionDelete, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/subscriptions/%d", id))
	})
}

// Cancel отменяет подписку.
func (s *SubscriptionsService) Cancel(ctx context.Context, id int64, req dto.SubscriptionCancel) error {
	return s.commit(ctx, invalidation.SubscriptionCancel, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, fmt.Sprintf("/subscriptions/%d/cancel", id), req, nil)
	})
}

// AddMember добавляет участника подписки.
func (s *SubscriptionsService) AddMember(ctx context.Context, subscriptionID int64, req dto.SubscriptionMemberAdd) error {
	scope := invalidation.Scope{SubscriptionID: subscriptionID}
	return s.commit(ctx, invalidation.SubscriptionMemberAdd, scope, func(ctx context.Context) error {
		return s.api.Post(ctx, fmt.Sprintf("/subscriptions/%d/members", subscriptionID), req, nil)
	})
}

// RemoveMember удаляет участника подписки.
func (s *SubscriptionsService) RemoveMember(ctx context.Context, subscriptionID, memberID int64) error {
	scope := invalidation.Scope{SubscriptionID: subscriptionID}
	return s.commit(ctx, invalidation.SubscriptionMemberRemove, scope, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/subscriptions/%d/members/%d", subscriptionID, memberID))
	})
}

// CreateCategory создает категорию.
func (s *SubscriptionsService) CreateCategory(ctx context.Context, req dto.CategoryCreate) error {
	return s.commit(ctx, invalidation.CategoryCreate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/categories", req, nil)
	})
}
