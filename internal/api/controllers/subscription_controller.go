package controllers

import (
	"github.com/gin-gonic/gin"

	"colabora/internal/models/request_models"
	"colabora/internal/services"
	"colabora/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// GetPlans godoc
// @Summary Plan catalog
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.PlansResponse}
// @Router /subscription/plans [get]
func (s *SubscriptionController) GetPlans(c *gin.Context) {
	utils.RespondSuccess(c, s.subscriptionService.GetPlans(), "Plans fetched successfully")
}

// GetStatus godoc
// @Summary Current subscription status
// @Description Plan, expiry, active list count and whether another list can be created
// @Tags Subscription
// @Produce json
// @Success 200 {object} utils.APIResponse{data=response_models.SubscriptionStatusResponse}
// @Security BearerAuth
// @Router /subscription/status [get]
func (s *SubscriptionController) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := s.subscriptionService.GetStatus(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Subscription status fetched successfully")
}

// Checkout godoc
// @Summary Start a subscription checkout
// @Description Creates a pending subscription and a PIX charge
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutRequest true "Checkout payload"
// @Success 201 {object} utils.APIResponse{data=response_models.CheckoutResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/checkout [post]
func (s *SubscriptionController) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err)
		return
	}

	resp, err := s.subscriptionService.Checkout(c.Request.Context(), userID, req.Plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Checkout created successfully")
}

// GetPaymentStatus godoc
// @Summary Poll a PIX charge
// @Description Checks the charge with the gateway and activates the subscription once paid
// @Tags Subscription
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} utils.APIResponse{data=response_models.PaymentStatusResponse}
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/payment/{transactionId} [get]
func (s *SubscriptionController) GetPaymentStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	transactionID, ok := uuidParam(c, "transactionId")
	if !ok {
		return
	}

	status, err := s.subscriptionService.GetPaymentStatus(c.Request.Context(), userID, transactionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Payment status fetched successfully")
}

// SimulatePayment godoc
// @Summary Simulate a PIX payment (dev only)
// @Tags Subscription
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} utils.APIResponse{data=response_models.PaymentStatusResponse}
// @Security BearerAuth
// @Router /subscription/payment/{transactionId}/simulate [post]
func (s *SubscriptionController) SimulatePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	transactionID, ok := uuidParam(c, "transactionId")
	if !ok {
		return
	}

	status, err := s.subscriptionService.SimulatePayment(c.Request.Context(), userID, transactionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Payment simulated")
}
