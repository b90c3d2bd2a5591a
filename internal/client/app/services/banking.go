package services

import (
	"context"
	"fmt"

	"subtrak/internal/client/adapters/rest"
	"subtrak/internal/client/app/dto"
	"subtrak/internal/client/invalidation"
	"subtrak/internal/client/ports/cache"
)

// BankingService - операции над банковскими подключениями, Codef-сбором
// и импортом подписок.
type BankingService struct {
	base
}

// NewBankingService создает банковский сервис.
func NewBankingService(api *rest.Client, c cache.Cache, graph *invalidation.Graph) *BankingService {
	return &BankingService{base: base{api: api, cache: c, graph: graph}}
}

// BankConnections возвращает список подключений к банкам.
func (s *BankingService) BankConnections(ctx context.Context) ([]dto.BankConnection, error) {
	return readThrough(ctx, s.cache, invalidation.KeyBankConnections, func(ctx context.Context) ([]dto.BankConnection, error) {
		var out []dto.BankConnection
		if err := s.api.Get(ctx, "/bank-connections", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// CreateBankConnection создает подключение к банку.
func (s *BankingService) CreateBankConnection(ctx context.Context, req dto.BankConnectionCreate) (dto.BankConnection, error) {
	var out dto.BankConnection
	err := s.commit(ctx, invalidation.BankConnectionCreate, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/bank-connections", req, &out)
	})
	return out, err
}

// DeleteBankConnection удаляет подключение к банку.
func (s *BankingService) DeleteBankConnection(ctx context.Context, id int64) error {
	return s.commit(ctx, invalidation.BankConnectionDelete, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/bank-connections/%d", id))
	})
}

// RegisterCard регистрирует карту в Codef.
func (s *BankingService) RegisterCard(ctx context.Context, req dto.CodefRegisterCard) error {
	return s.commit(ctx, invalidation.CodefRegisterCard, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/codef/register-card", req, nil)
	})
}

// Scrape собирает транзакции по карте. Чистая мутация без зависимых чтений.
func (s *BankingService) Scrape(ctx context.Context, req dto.CodefScrapeRequest) error {
	return s.commit(ctx, invalidation.CodefScrape, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/codef/scrape", req, nil)
	})
}

// Detect запускает обнаружение подписок в собранных транзакциях.
func (s *BankingService) Detect(ctx context.Context, req dto.CodefScrapeRequest) error {
	return s.commit(ctx, invalidation.CodefDetect, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/codef/detect", req, nil)
	})
}

// Import импортирует обнаруженные подписки.
func (s *BankingService) Import(ctx context.Context, req dto.CodefImportRequest) error {
	return s.commit(ctx, invalidation.CodefImport, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/codef/import", req, nil)
	})
}

// DeleteCodefConnection удаляет Codef-подключение.
func (s *BankingService) DeleteCodefConnection(ctx context.Context, id int64) error {
	return s.commit(ctx, invalidation.CodefConnectionDelete, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Delete(ctx, fmt.Sprintf("/codef/connection/%d", id))
	})
}

// ImportSubscriptions импортирует подписки из ранее загруженного файла.
func (s *BankingService) ImportSubscriptions(ctx context.Context) (dto.ImportResult, error) {
	var out dto.ImportResult
	err := s.commit(ctx, invalidation.SubscriptionsImport, invalidation.Scope{}, func(ctx context.Context) error {
		return s.api.Post(ctx, "/data/import/subscriptions", nil, &out)
	})
	return out, err
}
