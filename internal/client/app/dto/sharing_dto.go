package dto

// SharedSubscription содержит данные совместной подписки.
type SharedSubscription struct {
	ID             int64   `json:"id"`
	SubscriptionID int64   `json:"subscription_id"`
	PlatformID     *int64  `json:"platform_id"`
	TotalSlots     int     `json:"total_slots"`
	UsedSlots      int     `json:"used_slots"`
	PricePerSlot   float64 `json:"price_per_slot"`
}

// SharedSubscriptionCreate содержит данные для создания совместной подписки.
type SharedSubscriptionCreate struct {
	SubscriptionID int64   `json:"subscription_id"`
	PlatformID     *int64  `json:"platform_id,omitempty"`
	TotalSlots     int     `json:"total_slots"`
	PricePerSlot   float64 `json:"price_per_slot"`
}

// Organization содержит данные организации семейного биллинга.
type Organization struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrganizationCreate содержит данные для создания организации.
type OrganizationCreate struct {
	Name string `json:"name"`
}

// OrganizationMemberAdd содержит данные для добавления участника организации.
type OrganizationMemberAdd struct {
	UserEmail string `json:"user_email"`
	Role      string `json:"role"`
}
