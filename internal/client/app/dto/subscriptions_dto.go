package dto

import "time"

// Subscription содержит данные подписки.
type Subscription struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	BillingCycle    string     `json:"billing_cycle"`
	BillingDay      *int       `json:"billing_day"`
	NextPaymentDate string     `json:"next_payment_date"`
	CategoryID      *int64     `json:"category_id"`
	PaymentMethodID *int64     `json:"payment_method_id"`
	IsActive        bool       `json:"is_active"`
	AutoRenew       bool       `json:"auto_renew"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// SubscriptionCreate содержит данные для создания подписки.
type SubscriptionCreate struct {
	Name            string  `json:"name"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency,omitempty"`
	BillingCycle    string  `json:"billing_cycle"`
	BillingDay      *int    `json:"billing_day,omitempty"`
	CategoryID      *int64  `json:"category_id,omitempty"`
	PaymentMethodID *int64  `json:"payment_method_id,omitempty"`
}

// SubscriptionCancel содержит данные для отмены подписки.
type SubscriptionCancel struct {
	Reason string `json:"reason,omitempty"`
}

// SubscriptionMemberAdd содержит данные для добавления участника подписки.
type SubscriptionMemberAdd struct {
	Name            string   `json:"name"`
	Email           string   `json:"email,omitempty"`
	ShareAmount     *float64 `json:"share_amount,omitempty"`
	SharePercentage *float64 `json:"share_percentage,omitempty"`
	IsOwner         bool     `json:"is_owner,omitempty"`
}

// CategoryCreate содержит данные для создания категории.
type CategoryCreate struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
