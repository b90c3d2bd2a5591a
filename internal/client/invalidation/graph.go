// Package invalidation содержит граф зависимостей запись -> чтение:
// статическое отображение каждой мутации на множество ключей кэша,
// которые она делает устаревшими.
package invalidation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"subtrak/internal/client/ports/cache"
	"subtrak/pkg/logger"
)

// Префиксы ключей кэша. Чтения кладут данные под теми же префиксами.
const (
	KeySubscriptions       = "subscriptions"
	KeyDashboard           = "dashboard"
	KeyCancellations       = "cancellations"
	KeyPaymentMethods      = "paymentMethods"
	KeyCategories          = "categories"
	KeySubscriptionMembers = "subscriptionMembers"
	KeySharedSubscriptions = "sharedSubscriptions"
	KeyOrganizations       = "organizations"
	KeyOrganization        = "organization"
	KeyBankConnections     = "bankConnections"
)

// Mutation - вид зафиксированной мутации.
type Mutation int

// Каталог мутаций удаленного API.
const (
	SubscriptionCreate Mutation = iota
	SubscriptionUpdate
	SubscriptionDelete
	SubscriptionCancel
	PaymentMethodCreate
	PaymentMethodUpdate
	PaymentMethodDelete
	PaymentMethodMigrate
	CategoryCreate
	SubscriptionMemberAdd
	SubscriptionMemberRemove
	SharedSubscriptionCreate
	SharedSubscriptionDelete
	OrganizationCreate
	OrganizationDelete
	OrganizationMemberAdd
	OrganizationMemberRemove
	BankConnectionCreate
	BankConnectionDelete
	SubscriptionsImport
	CodefRegisterCard
	CodefScrape
	CodefDetect
	CodefImport
	CodefConnectionDelete
)

var mutationNames = map[Mutation]string{
	SubscriptionCreate:       "subscription.create",
	SubscriptionUpdate:       "subscription.update",
	SubscriptionDelete:       "subscription.delete",
	SubscriptionCancel:       "subscription.cancel",
	PaymentMethodCreate:      "payment_method.create",
	PaymentMethodUpdate:      "payment_method.update",
	PaymentMethodDelete:      "payment_method.delete",
	PaymentMethodMigrate:     "payment_method.migrate",
	CategoryCreate:           "category.create",
	SubscriptionMemberAdd:    "subscription_member.add",
	SubscriptionMemberRemove: "subscription_member.remove",
	SharedSubscriptionCreate: "shared_subscription.create",
	SharedSubscriptionDelete: "shared_subscription.delete",
	OrganizationCreate:       "organization.create",
	OrganizationDelete:       "organization.delete",
	OrganizationMemberAdd:    "organization_member.add",
	OrganizationMemberRemove: "organization_member.remove",
	BankConnectionCreate:     "bank_connection.create",
	BankConnectionDelete:     "bank_connection.delete",
	SubscriptionsImport:      "subscriptions.import",
	CodefRegisterCard:        "codef.register_card",
	CodefScrape:              "codef.scrape",
	CodefDetect:              "codef.detect",
	CodefImport:              "codef.import",
	CodefConnectionDelete:    "codef.connection_delete",
}

// String возвращает имя мутации.
func (m Mutation) String() string {
	if name, ok := mutationNames[m]; ok {
		return name
	}
	return "unknown"
}

// scopeKind - вид параметризации ключа идентификатором из контекста мутации.
type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeSubscription
	scopeOrganization
)

// Key - объявление инвалидируемого ключа: префикс, при необходимости
// дополняемый идентификатором из Scope.
type Key struct {
	prefix string
	scope  scopeKind
}

// static и scoped - конструкторы объявлений ключей.
func static(prefix string) Key              { return Key{prefix: prefix} }
func scoped(prefix string, s scopeKind) Key { return Key{prefix: prefix, scope: s} }

// Scope несет идентификаторы контекста мутации для параметризованных ключей.
type Scope struct {
	SubscriptionID int64
	OrganizationID int64
}

// ErrMissingScope возвращается, когда параметризованному ключу не хватает
// идентификатора в контексте мутации.
var ErrMissingScope = errors.New("mutation scope is missing a required id")

// ErrUnknownMutation возвращается для мутации вне каталога.
var ErrUnknownMutation = errors.New("unknown mutation kind")

// rules - полный декларативный каталог: каждая мутация объявляет
// фиксированное, независимое от порядка множество ключей.
var rules = map[Mutation][]Key{
	SubscriptionCreate:       {static(KeySubscriptions), static(KeyDashboard)},
	SubscriptionUpdate:       {static(KeySubscriptions), static(KeyDashboard)},
	SubscriptionDelete:       {static(KeySubscriptions), static(KeyDashboard)},
	SubscriptionCancel:       {static(KeySubscriptions), static(KeyDashboard), static(KeyCancellations)},
	PaymentMethodCreate:      {static(KeyPaymentMethods)},
	PaymentMethodUpdate:      {static(KeyPaymentMethods)},
	PaymentMethodDelete:      {static(KeyPaymentMethods)},
	PaymentMethodMigrate:     {static(KeyPaymentMethods), static(KeySubscriptions)},
	CategoryCreate:           {static(KeyCategories)},
	SubscriptionMemberAdd:    {scoped(KeySubscriptionMembers, scopeSubscription)},
	SubscriptionMemberRemove: {scoped(KeySubscriptionMembers, scopeSubscription)},
	SharedSubscriptionCreate: {static(KeySharedSubscriptions)},
	SharedSubscriptionDelete: {static(KeySharedSubscriptions)},
	OrganizationCreate:       {static(KeyOrganizations)},
	OrganizationDelete:       {static(KeyOrganizations)},
	OrganizationMemberAdd:    {scoped(KeyOrganization, scopeOrganization)},
	OrganizationMemberRemove: {scoped(KeyOrganization, scopeOrganization)},
	BankConnectionCreate:     {static(KeyBankConnections)},
	BankConnectionDelete:     {static(KeyBankConnections)},
	SubscriptionsImport:      {static(KeySubscriptions)},
	CodefRegisterCard:        {static(KeyBankConnections)},
	CodefScrape:              {},
	CodefDetect:              {static(KeyBankConnections)},
	CodefImport:              {static(KeySubscriptions), static(KeyDashboard), static(KeyBankConnections)},
	CodefConnectionDelete:    {static(KeyBankConnections)},
}

// Keys разрешает объявления мутации в конкретные префиксы ключей.
func Keys(m Mutation, scope Scope) ([]string, error) {
	declared, ok := rules[m]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMutation, m)
	}

	keys := make([]string, 0, len(declared))
	for _, key := range declared {
		switch key.scope {
		case scopeNone:
			keys = append(keys, key.prefix)
		case scopeSubscription:
			if scope.SubscriptionID == 0 {
				return nil, fmt.Errorf("%w: %s needs subscription id", ErrMissingScope, m)
			}
			keys = append(keys, fmt.Sprintf("%s:%d", key.prefix, scope.SubscriptionID))
		case scopeOrganization:
			if scope.OrganizationID == 0 {
				return nil, fmt.Errorf("%w: %s needs organization id", ErrMissingScope, m)
			}
			keys = append(keys, fmt.Sprintf("%s:%d", key.prefix, scope.OrganizationID))
		}
	}
	return keys, nil
}

// Константы для логирования.
const (
	LogInvalidating       = "invalidation: marking dependent reads stale"
	ErrorInvalidateFailed = "failed to invalidate cache keys"
)

// Graph применяет каталог к кэшу после каждой успешной мутации.
type Graph struct {
	cache cache.Cache
}

// NewGraph создает граф инвалидации над кэшем.
func NewGraph(c cache.Cache) *Graph {
	return &Graph{cache: c}
}

// OnMutationCommitted инвалидирует все ключи зафиксированной мутации.
// Вызывается только после того, как удаленный вызов сообщил об успехе;
// неудачная мутация не инвалидирует ничего. Повторная инвалидация
// идемпотентна, порядок обхода ключей значения не имеет.
func (g *Graph) OnMutationCommitted(ctx context.Context, m Mutation, scope Scope) error {
	log := logger.Log(ctx).With(zap.String("mutation", m.String()))

	keys, err := Keys(m, scope)
	if err != nil {
		return err
	}

	log.Debug(ctx, LogInvalidating, zap.Strings("keys", keys))

	var errs []error
	for _, key := range keys {
		if err := g.cache.Invalidate(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		log.Error(ctx, ErrorInvalidateFailed, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorInvalidateFailed, err)
	}

	return nil
}
