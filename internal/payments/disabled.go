package payments

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// DisabledProvider возвращает ошибку на любую операцию. В отличие от
// видеовстреч платежи без провайдера не эмулируются.
type DisabledProvider struct{}

func NewDisabledProvider() *DisabledProvider {
	return &DisabledProvider{}
}

func (p *DisabledProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	return nil, ErrNotConfigured
}

func (p *DisabledProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return nil, ErrNotConfigured
}
