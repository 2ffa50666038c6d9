package payments

import "context"

// Intent - платежное намерение у внешнего провайдера. Amount всегда
// в минимальных единицах валюты (центах).
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

const StatusSucceeded = "succeeded"

// Provider оборачивает платежный API
type Provider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
