package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeProvider ходит в Stripe REST API напрямую, формы кодируются
// как application/x-www-form-urlencoded
type StripeProvider struct {
	secretKey  string
	httpClient *http.Client
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Error        *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *StripeProvider) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	return p.do(ctx, http.MethodPost, "/payment_intents", strings.NewReader(form.Encode()))
}

func (p *StripeProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return p.do(ctx, http.MethodGet, "/payment_intents/"+id, nil)
}

func (p *StripeProvider) do(ctx context.Context, method, path string, body io.Reader) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, method, stripeAPIBase+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	var intentResp stripeIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intentResp); err != nil {
		return nil, fmt.Errorf("failed to decode stripe response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if intentResp.Error != nil {
			return nil, fmt.Errorf("stripe returned %d: %s", resp.StatusCode, intentResp.Error.Message)
		}
		return nil, fmt.Errorf("stripe returned %d", resp.StatusCode)
	}

	return &Intent{
		ID:           intentResp.ID,
		ClientSecret: intentResp.ClientSecret,
		Status:       intentResp.Status,
		Amount:       intentResp.Amount,
		Currency:     intentResp.Currency,
	}, nil
}
