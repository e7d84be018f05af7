package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"colabora/internal/models/request_models"
	"colabora/internal/services"
	"colabora/pkg/config"
	"colabora/pkg/utils"
)

const (
	SignatureHeader    = "X-Webhook-Signature"
	webhookSecretQuery = "webhookSecret"
	maxWebhookBody     = 1 << 20
)

// PaymentController receives Abacate Pay notifications.
type PaymentController struct {
	subscriptionService services.SubscriptionServiceInterface
	webhookSecret       string
}

func NewPaymentController(subscriptionService services.SubscriptionServiceInterface, cfg *config.Config) *PaymentController {
	return &PaymentController{
		subscriptionService: subscriptionService,
		webhookSecret:       cfg.AbacatePayWebhookSecret,
	}
}

// HandleAbacatePayWebhook godoc
// @Summary Abacate Pay webhook
// @Description Requires the webhookSecret query parameter; X-Webhook-Signature (HMAC-SHA256 of the body) is checked when sent
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param webhookSecret query string true "Shared webhook secret"
// @Param request body request_models.AbacateWebhookPayload true "Charge notification"
// @Success 200 {object} utils.APIResponse{data=response_models.WebhookResult}
// @Failure 401 {object} utils.APIResponse
// @Router /webhooks/abacate-pay [post]
func (p *PaymentController) HandleAbacatePayWebhook(c *gin.Context) {
	if !utils.SecretsEqual(p.webhookSecret, c.Query(webhookSecretQuery)) {
		utils.HandleServiceError(c, utils.ErrInvalidWebhookAuth)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	verified := false
	if signature := c.GetHeader(SignatureHeader); signature != "" {
		if !utils.VerifySignature(p.webhookSecret, raw, signature) {
			utils.HandleServiceError(c, utils.ErrInvalidWebhookAuth)
			return
		}
		verified = true
	}

	var payload request_models.AbacateWebhookPayload
	if err := binding.JSON.BindBody(raw, &payload); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	result, err := p.subscriptionService.ProcessWebhook(c.Request.Context(), payload, raw, verified)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Webhook processed")
}
