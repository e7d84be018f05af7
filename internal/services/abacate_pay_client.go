package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	dbm "colabora/internal/models/db_models"
	"colabora/pkg/config"
	"colabora/pkg/utils"
)

type PixCustomer struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	TaxID     string `json:"taxId"`
	Cellphone string `json:"cellphone,omitempty"`
}

type CreatePixChargeInput struct {
	Amount      int64
	Description string
	ExpiresIn   time.Duration
	Customer    *PixCustomer
}

// PixCharge is the gateway view of a PIX QR code charge. Raw keeps the
// gateway's "data" object as received.
type PixCharge struct {
	ID           string        `json:"id"`
	Amount       int64         `json:"amount"`
	Status       dbm.PixStatus `json:"status"`
	BrCode       string        `json:"brCode"`
	BrCodeBase64 string        `json:"brCodeBase64"`
	ExpiresAt    *time.Time    `json:"expiresAt"`

	Raw json.RawMessage `json:"-"`
}

// PixGateway is the subset of the Abacate Pay API the subscription flow
// needs.
type PixGateway interface {
	CreatePixCharge(ctx context.Context, in CreatePixChargeInput) (*PixCharge, error)
	CheckPixCharge(ctx context.Context, id string) (*PixCharge, error)
	SimulatePayment(ctx context.Context, id string) (*PixCharge, error)
}

type abacatePayClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewAbacatePayClient(cfg *config.Config) PixGateway {
	return &abacatePayClient{
		baseURL: strings.TrimRight(cfg.AbacatePayBaseURL, "/"),
		apiKey:  cfg.AbacatePayAPIKey,
		http:    &http.Client{Timeout: cfg.HTTPClientTimeout},
	}
}

type abacateEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func (a *abacatePayClient) CreatePixCharge(ctx context.Context, in CreatePixChargeInput) (*PixCharge, error) {
	body := map[string]any{
		"amount":      in.Amount,
		"expiresIn":   int64(in.ExpiresIn / time.Second),
		"description": in.Description,
	}
	if in.Customer != nil {
		body["customer"] = in.Customer
	}
	return a.do(ctx, http.MethodPost, "/pixQrCode/create", nil, body)
}

func (a *abacatePayClient) CheckPixCharge(ctx context.Context, id string) (*PixCharge, error) {
	return a.do(ctx, http.MethodGet, "/pixQrCode/check", url.Values{"id": {id}}, nil)
}

func (a *abacatePayClient) SimulatePayment(ctx context.Context, id string) (*PixCharge, error) {
	return a.do(ctx, http.MethodPost, "/pixQrCode/simulate-payment", url.Values{"id": {id}}, map[string]any{"metadata": map[string]any{}})
}

func (a *abacatePayClient) do(ctx context.Context, method, path string, query url.Values, payload any) (*PixCharge, error) {
	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("abacate pay: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("abacate pay: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", utils.ErrGatewayUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", utils.ErrGatewayUnavailable, err)
	}

	var env abacateEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: status %d: malformed response", utils.ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest || env.Error != nil {
		return nil, fmt.Errorf("%w: status %d: %v", utils.ErrGatewayUnavailable, resp.StatusCode, env.Error)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fmt.Errorf("%w: empty response data", utils.ErrGatewayUnavailable)
	}

	var charge PixCharge
	if err := json.Unmarshal(env.Data, &charge); err != nil {
		return nil, fmt.Errorf("%w: decode charge: %v", utils.ErrGatewayUnavailable, err)
	}
	charge.Raw = env.Data

	return &charge, nil
}
