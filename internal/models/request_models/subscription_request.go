package request_models

type CheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=basic intermediate max"`
}

// AbacateWebhookPayload is the body the gateway posts on charge status
// changes.
type AbacateWebhookPayload struct {
	ID     string  `json:"id" binding:"required"`
	Status string  `json:"status" binding:"required,oneof=PENDING PAID EXPIRED CANCELLED REFUNDED"`
	PaidAt *string `json:"paidAt"`
}
