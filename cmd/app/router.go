package main

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"colabora/internal/api/controllers"
	"colabora/pkg/config"
	"colabora/pkg/middleware"
	"colabora/pkg/utils"
)

type RouterParams struct {
	fx.In

	Config    *config.Config
	Log       *slog.Logger
	Tokens    *utils.TokenManager
	RateStore middleware.RateStore

	Accounts      *controllers.AccountController
	Lists         *controllers.ListController
	Subscriptions *controllers.SubscriptionController
	Payments      *controllers.PaymentController
	Health        *controllers.HealthController
}

func ProvideRouter(p RouterParams) (*gin.Engine, error) {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(p.Config.CORSAllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(p.RateStore, p.Config.RateLimitPerMinute, time.Minute, p.Log))

	RegisterRoutes(r, p)

	return r, nil
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.JWTAuthMiddleware(p.Tokens)

	r.GET("/health", p.Health.Health)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", p.Accounts.Register)
	authGroup.POST("/login", p.Accounts.Login)

	listsGroup := r.Group("/lists")
	listsGroup.POST("", auth, p.Lists.CreateList)
	listsGroup.POST("/from-template", auth, p.Lists.CreateFromTemplate)
	listsGroup.GET("", auth, p.Lists.GetUserLists)
	listsGroup.PUT("/:listId", auth, p.Lists.EditList)
	listsGroup.PATCH("/:listId/status", auth, p.Lists.ToggleStatus)
	listsGroup.DELETE("/:listId", auth, p.Lists.DeleteList)
	listsGroup.GET("/:listId", p.Lists.GetPublicList)
	listsGroup.POST("/:listId/register", p.Lists.RegisterMember)
	listsGroup.DELETE("/:listId/items/:itemId/register", p.Lists.UnregisterMember)

	subscriptionGroup := r.Group("/subscription")
	subscriptionGroup.GET("/plans", p.Subscriptions.GetPlans)
	subscriptionGroup.GET("/status", auth, p.Subscriptions.GetStatus)
	subscriptionGroup.POST("/checkout", auth, p.Subscriptions.Checkout)
	subscriptionGroup.GET("/payment/:transactionId", auth, p.Subscriptions.GetPaymentStatus)
	if !p.Config.IsProduction() {
		subscriptionGroup.POST("/payment/:transactionId/simulate", auth, p.Subscriptions.SimulatePayment)
	}

	webhookGroup := r.Group("/webhooks")
	webhookGroup.POST("/abacate-pay", p.Payments.HandleAbacatePayWebhook)
}
