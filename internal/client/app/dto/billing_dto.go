package dto

import "time"

// PaymentMethod содержит данные способа оплаты.
type PaymentMethod struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CardLastFour *string   `json:"card_last_four"`
	CardType     string    `json:"card_type"`
	ExpiryDate   *string   `json:"expiry_date"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentMethodCreate содержит данные для создания способа оплаты.
type PaymentMethodCreate struct {
	Name         string  `json:"name"`
	CardLastFour *string `json:"card_last_four,omitempty"`
	CardType     string  `json:"card_type,omitempty"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
}

// PaymentMethodMigrate содержит данные для переноса подписок между картами.
type PaymentMethodMigrate struct {
	SubscriptionIDs []int64 `json:"subscription_ids,omitempty"`
}

// DashboardSummary содержит сводку панели управления.
type DashboardSummary struct {
	TotalMonthlyCost    float64 `json:"total_monthly_cost"`
	TotalYearlyCost     float64 `json:"total_yearly_cost"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
}

// CancellationLog содержит запись журнала отмен.
type CancellationLog struct {
	ID               int64    `json:"id"`
	SubscriptionID   int64    `json:"subscription_id"`
	CancelledAt      string   `json:"cancelled_at"`
	Reason           *string  `json:"reason"`
	SavingsPerMonth  *float64 `json:"savings_per_month"`
	SubscriptionName *string  `json:"subscription_name"`
}
