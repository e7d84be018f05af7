package response_models

import "time"

type PlanResponse struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"price_formatted"`
	MaxLists       int    `json:"max_lists"`
}

type PlansResponse struct {
	Plans         []PlanResponse `json:"plans"`
	FreeListLimit int            `json:"free_list_limit"`
}

type SubscriptionStatusResponse struct {
	Plan          *string    `json:"plan"`
	PlanName      *string    `json:"plan_name"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CurrentLists  int64      `json:"current_lists"`
	MaxLists      int        `json:"max_lists"`
	CanCreateList bool       `json:"can_create_list"`
	Reason        string     `json:"reason,omitempty"`
}

type SubscriptionResponse struct {
	ID        string     `json:"id"`
	Plan      string     `json:"plan"`
	Amount    int64      `json:"amount"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type PixChargeResponse struct {
	TransactionID string     `json:"transaction_id"`
	AbacatePayID  string     `json:"abacate_pay_id"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	BrCode        string     `json:"br_code"`
	QRCodeBase64  string     `json:"qr_code_base64"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

type CheckoutResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Payment      PixChargeResponse    `json:"payment"`
}

type PaymentStatusResponse struct {
	TransactionID      string     `json:"transaction_id"`
	Status             string     `json:"status"`
	SubscriptionStatus string     `json:"subscription_status"`
	PaidAt             *time.Time `json:"paid_at"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

type WebhookResult struct {
	Processed bool   `json:"processed"`
	Action    string `json:"action"`
}
