package services

import (
	"context"
	"fmt"

	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/invalidation"
	"subtrak/internal/client/ports/cache"
)

// SharingService - операции над совместными подписками и организациями.
type SharingService struct {
	base
}

// NewSharingService создает сервис совместного использования.
func NewSharingService(api *rest.Client, c cache.Cache, graph *invalidation.Graph) *SharingService {
	return &SharingService{base: base{api: api, cache: c, graph: graph}}
}

// SharedSubscriptions возвращает список совместных подписок.
func (s *SharingService) SharedSubscriptions(ctx context.Context) ([]dto.SharedSubscription, error) {
	return readThrough(ctx, s.cache, invalidation.KeySharedSubscriptions, func(ctx context.Context) ([]dto.SharedSubscription, error) {
		var out []dto.SharedSubscription
		if err := s.api.Get(ctx, "/shared-subscriptions", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// CreateSharedSubscription создает совместную подписку.
func (s *SharingService) CreateSharedSubscription(ctx context.Context, req dto.SharedSubscriptionCreate) (dto.SharedSubscription, error) {
	var out dto.SharedSubscription
	err := s.commit(ctx, invalidation.SharedSubscriptionCreate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/shared-subscriptions", req, &out)
	})
	return out, err
}

// DeleteSharedSubscription удаляет совместную подписку.
func (s *SharingService) DeleteSharedSubscription(ctx context.Context, id int64) error {
	return s.commit(ctx, invalidation.SharedSubscriptionDelete, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/shared-subscriptions/%d", id))
	})
}

// Organizations возвращает список организаций.
func (s *SharingService) Organizations(ctx context.Context) ([]dto.Organization, error) {
	return readThrough(ctx, s.cache, invalidation.KeyOrganizations, func(ctx context.Context) ([]dto.Organization, error) {
		var out []dto.Organization
		if err := s.api.Get(ctx, "/organizations", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Organization возвращает одну организацию с участниками.
func (s *SharingService) Organization(ctx context.Context, id int64) (dto.Organization, error) {
	key := fmt.Sprintf("%s:%d", invalidation.KeyOrganization, id)
	return readThrough(ctx, s.cache, key, func(ctx context.Context) (dto.Organization, error) {
		var out dto.Organization
		if err := s.api.Get(ctx, fmt.Sprintf("/organizations/%d", id), &out); err != nil {
			return dto.Organization{}, err
		}
		return out, nil
	})
}

// CreateOrganization создает организацию.
func (s *SharingService) CreateOrganization(ctx context.Context, req dto.OrganizationCreate) (dto.Organization, error) {
	var out dto.Organization
	err := s.commit(ctx, invalidation.OrganizationCreate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/organizations", req, &out)
	})
	return out, err
}

// DeleteOrganization удаляет организацию.
func (s *SharingService) DeleteOrganization(ctx context.Context, id int64) error {
	return s.commit(ctx, invalidation.OrganizationDelete, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/organizations/%d", id))
	})
}

// AddOrganizationMember добавляет участника организации.
func (s *SharingService) AddOrganizationMember(ctx context.Context, organizationID int64, req dto.OrganizationMemberAdd) error {
	scope := invalidation.Scope{OrganizationID: organizationID}
	return s.commit(ctx, invalidation.OrganizationMemberAdd, scope, func(ctx context.Context) error {
		return s.api.Post(ctx, fmt.Sprintf("/organizations/%d/members", organizationID), req, nil)
	})
}

// RemoveOrganizationMember удаляет участника организации.
func (s *SharingService) RemoveOrganizationMember(ctx context.Context, organizationID, memberID int64) error {
	scope := invalidation.Scope{OrganizationID: organizationID}
	return s.commit(ctx, invalidation.OrganizationMemberRemove, scope, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/organizations/%d/members/%d", organizationID, memberID))
	})
}
