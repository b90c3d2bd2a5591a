package dto

// BankConnection содержит данные подключения к банку.
type BankConnection struct {
	ID                int64   `json:"id"`
	InstitutionName   string  `json:"institution_name"`
	Provider          *string `json:"provider"`
	AccountIdentifier *string `json:"account_identifier"`
	Status            string  `json:"status"`
}

// BankConnectionCreate содержит данные для создания подключения к банку.
type BankConnectionCreate struct {
	InstitutionName   string  `json:"institution_name"`
	Provider          *string `json:"provider,omitempty"`
	AccountIdentifier *string `json:"account_identifier,omitempty"`
}

// CodefRegisterCard содержит данные для регистрации карты в Codef.
type CodefRegisterCard struct {
	Organization string `json:"organization"`
	LoginID      string `json:"login_id"`
	Password     string `json:"password"`
}

// CodefScrapeRequest содержит параметры сбора транзакций по карте.
type CodefScrapeRequest struct {
	BankConnectionID int64 `json:"bank_connection_id"`
	MonthsBack       int   `json:"months_back,omitempty"`
}

// CodefImportItem - обнаруженная подписка, отобранная для импорта.
type CodefImportItem struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	BillingCycle string  `json:"billing_cycle"`
	BillingDay   int     `json:"billing_day"`
}

// CodefImportRequest содержит данные импорта обнаруженных подписок.
type CodefImportRequest struct {
	BankConnectionID int64             `json:"bank_connection_id"`
	Subscriptions    []CodefImportItem `json:"subscriptions"`
}

// ImportResult содержит результат импорта подписок из файла.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}
