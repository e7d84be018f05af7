package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"colabora/internal/models/db_models"
	"colabora/internal/models/request_models"
	"colabora/internal/models/response_models"
	"colabora/internal/plans"
	"colabora/internal/repositories"
	"colabora/pkg/config"
	"colabora/pkg/utils"
)

type SubscriptionServiceInterface interface {
	GetPlans() response_models.PlansResponse
	GetStatus(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionStatusResponse, error)
	Checkout(ctx context.Context, userID uuid.UUID, planCode string) (*response_models.CheckoutResponse, error)
	GetPaymentStatus(ctx context.Context, userID, transactionID uuid.UUID) (*response_models.PaymentStatusResponse, error)
	SimulatePayment(ctx context.Context, userID, transactionID uuid.UUID) (*response_models.PaymentStatusResponse, error)
	ProcessWebhook(ctx context.Context, payload request_models.AbacateWebhookPayload, raw []byte, signatureVerified bool) (*response_models.WebhookResult, error)
}

const (
	ActionActivated        = "subscription_activated"
	ActionAlreadyProcessed = "already_processed"
	ActionStatusUpdated    = "status_updated"
)

type SubscriptionService struct {
	store     repositories.Store
	gateway   PixGateway
	lifecycle *SubscriptionLifecycle
	cfg       *config.Config
	log       *slog.Logger
	now       func() time.Time
}

func NewSubscriptionService(
	store repositories.Store,
	gateway PixGateway,
	lifecycle *SubscriptionLifecycle,
	cfg *config.Config,
	log *slog.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		store:     store,
		gateway:   gateway,
		lifecycle: lifecycle,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *SubscriptionService) GetPlans() response_models.PlansResponse {
	all := plans.All()
	out := response_models.PlansResponse{
		Plans:         make([]response_models.PlanResponse, 0, len(all)),
		FreeListLimit: plans.FreeListLimit,
	}
	for _, p := range all {
		out.Plans = append(out.Plans, response_models.PlanResponse{
			Code:           string(p.Code),
			Name:           p.Name,
			Price:          p.PriceCents,
			PriceFormatted: plans.FormatPrice(p.PriceCents),
			MaxLists:       p.MaxLists,
		})
	}
	return out
}

func (s *SubscriptionService) GetStatus(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionStatusResponse, error) {
	user, err := s.store.Accounts().FindUserByID(ctx, userID)
	if err != nil {
		return nil, dbError("find user", err)
	}
	if user == nil {
		return nil, utils.ErrUserProfileNotFound
	}

	count, err := s.store.Lists().CountActiveByUser(ctx, userID)
	if err != nil {
		return nil, dbError("count active lists", err)
	}

	now := s.now()
	limit := EvaluateListLimit(user, count, now)
	resp := &response_models.SubscriptionStatusResponse{
		Status:        string(db_models.ProfileStatusNone),
		CurrentLists:  count,
		MaxLists:      limit.MaxAllowed,
		CanCreateList: limit.Allowed,
		Reason:        limit.Reason,
	}

	if user.SubscriptionPlan == nil || user.SubscriptionStatus == db_models.ProfileStatusNone {
		return resp, nil
	}

	plan, ok := plans.Get(plans.Code(*user.SubscriptionPlan))
	if !ok {
		return resp, nil
	}
	resp.Plan = user.SubscriptionPlan
	resp.PlanName = &plan.Name
	resp.ExpiresAt = user.SubscriptionExpiresAt
	resp.Status = string(user.SubscriptionStatus)

	expired := user.SubscriptionExpiresAt != nil && !user.SubscriptionExpiresAt.After(now)
	if expired || user.SubscriptionStatus == db_models.ProfileStatusExpired {
		resp.Status = string(db_models.ProfileStatusExpired)
		resp.MaxLists = plan.MaxLists
		resp.CanCreateList = false
		if resp.Reason == "" {
			resp.Reason = "your subscription has expired, renew it to create new lists"
		}
	}
	return resp, nil
}

// Checkout opens a PIX charge for plan and stores the pending subscription
// with its transaction. The gateway is called first so a gateway failure
// leaves nothing behind.
func (s *SubscriptionService) Checkout(ctx context.Context, userID uuid.UUID, planCode string) (*response_models.CheckoutResponse, error) {
	plan, ok := plans.Get(plans.Code(planCode))
	if !ok {
		return nil, utils.BadRequest("unknown plan %q", planCode)
	}

	user, err := s.store.Accounts().FindUserByID(ctx, userID)
	if err != nil {
		return nil, dbError("find user", err)
	}
	if user == nil {
		return nil, utils.ErrUserProfileNotFound
	}

	now := s.now()
	if user.SubscriptionStatus == db_models.ProfileStatusActive &&
		user.SubscriptionExpiresAt != nil && user.SubscriptionExpiresAt.After(now) {
		return nil, utils.BadRequest("you already have an active subscription, wait for it to expire to renew or change plans")
	}

	credential, err := s.store.Accounts().FindCredentialByID(ctx, user.CredentialID)
	if err != nil {
		return nil, dbError("find credential", err)
	}

	input := CreatePixChargeInput{
		Amount:      plan.PriceCents,
		Description: fmt.Sprintf("Assinatura %s - Colabora", plan.Name),
		ExpiresIn:   s.cfg.PixChargeTTL,
	}
	if credential != nil && user.CPF != nil {
		input.Customer = &PixCustomer{Name: user.Name, Email: credential.Email, TaxID: *user.CPF}
	}

	charge, err := s.gateway.CreatePixCharge(ctx, input)
	if err != nil {
		return nil, err
	}

	status := charge.Status
	if !status.Valid() {
		status = db_models.PixPending
	}

	sub := &db_models.Subscription{
		UserID: userID,
		Plan:   string(plan.Code),
		Amount: plan.PriceCents,
		Status: db_models.SubStatusPending,
	}
	txn := &db_models.PixTransaction{
		AbacatePayID:   charge.ID,
		Amount:         plan.PriceCents,
		Status:         status,
		BrCode:         charge.BrCode,
		QRCodeBase64:   charge.BrCodeBase64,
		ExpiresAt:      charge.ExpiresAt,
		GatewayPayload: jsonOrEmpty(charge.Raw),
	}

	err = s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		if err := tx.Subscriptions().Create(ctx, sub); err != nil {
			return dbError("create subscription", err)
		}
		txn.SubscriptionID = sub.ID
		if err := tx.Transactions().Create(ctx, txn); err != nil {
			return dbError("create pix transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "checkout created",
		"user_id", userID,
		"subscription_id", sub.ID,
		"transaction_id", txn.ID,
		"plan", sub.Plan,
	)

	return &response_models.CheckoutResponse{
		Subscription: response_models.SubscriptionResponse{
			ID:     sub.ID.String(),
			Plan:   sub.Plan,
			Amount: sub.Amount,
			Status: string(sub.Status),
		},
		Payment: response_models.PixChargeResponse{
			TransactionID: txn.ID.String(),
			AbacatePayID:  txn.AbacatePayID,
			Amount:        txn.Amount,
			Status:        string(txn.Status),
			BrCode:        txn.BrCode,
			QRCodeBase64:  txn.QRCodeBase64,
			ExpiresAt:     txn.ExpiresAt,
		},
	}, nil
}

func (s *SubscriptionService) ownedTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*db_models.PixTransaction, error) {
	txn, err := s.store.Transactions().FindByID(ctx, transactionID)
	if err != nil {
		return nil, dbError("find transaction", err)
	}
	if txn == nil || txn.Subscription == nil || txn.Subscription.UserID != userID {
		return nil, utils.NotFound("transaction not found")
	}
	return txn, nil
}

// GetPaymentStatus polls the gateway for a charge that is not paid yet and
// applies any change the same way the webhook does.
func (s *SubscriptionService) GetPaymentStatus(ctx context.Context, userID, transactionID uuid.UUID) (*response_models.PaymentStatusResponse, error) {
	txn, err := s.ownedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == db_models.PixPaid {
		return paymentStatus(txn, txn.Subscription.Status), nil
	}

	charge, err := s.gateway.CheckPixCharge(ctx, txn.AbacatePayID)
	if err != nil {
		return nil, err
	}
	return s.reconcileCharge(ctx, txn, charge)
}

func (s *SubscriptionService) SimulatePayment(ctx context.Context, userID, transactionID uuid.UUID) (*response_models.PaymentStatusResponse, error) {
	if s.cfg.IsProduction() {
		return nil, utils.Forbidden("payment simulation is disabled in production")
	}

	txn, err := s.ownedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == db_models.PixPaid {
		return paymentStatus(txn, txn.Subscription.Status), nil
	}

	charge, err := s.gateway.SimulatePayment(ctx, txn.AbacatePayID)
	if err != nil {
		return nil, err
	}
	return s.reconcileCharge(ctx, txn, charge)
}

func (s *SubscriptionService) reconcileCharge(ctx context.Context, txn *db_models.PixTransaction, charge *PixCharge) (*response_models.PaymentStatusResponse, error) {
	if !charge.Status.Valid() || charge.Status == txn.Status {
		return paymentStatus(txn, txn.Subscription.Status), nil
	}

	var resp *response_models.PaymentStatusResponse
	err := s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		locked, err := tx.Transactions().LockByID(ctx, txn.ID)
		if err != nil {
			return dbError("lock transaction", err)
		}
		if locked == nil {
			return utils.NotFound("transaction not found")
		}

		if _, err := s.applyChargeStatus(ctx, tx, locked, charge.Status, nil, charge.Raw); err != nil {
			return err
		}

		sub, err := tx.Subscriptions().FindByID(ctx, locked.SubscriptionID)
		if err != nil {
			return dbError("find subscription", err)
		}
		subStatus := db_models.SubStatusPending
		if sub != nil {
			subStatus = sub.Status
		}
		resp = paymentStatus(locked, subStatus)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ProcessWebhook applies a gateway notification. Replaying a payload only
// re-sets the same status: activation runs on the transition into PAID.
func (s *SubscriptionService) ProcessWebhook(ctx context.Context, payload request_models.AbacateWebhookPayload, raw []byte, signatureVerified bool) (*response_models.WebhookResult, error) {
	status := db_models.PixStatus(payload.Status)
	if !status.Valid() {
		return nil, utils.BadRequest("unknown charge status %q", payload.Status)
	}

	var paidAt *time.Time
	if payload.PaidAt != nil && *payload.PaidAt != "" {
		t, err := time.Parse(time.RFC3339, *payload.PaidAt)
		if err != nil {
			return nil, utils.BadRequest("paidAt must be an RFC 3339 timestamp")
		}
		paidAt = &t
	}

	var action string
	err := s.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		txn, err := tx.Transactions().LockByExternalID(ctx, payload.ID)
		if err != nil {
			return dbError("lock transaction", err)
		}
		if txn == nil {
			return utils.NotFound("transaction not found")
		}

		action, err = s.applyChargeStatus(ctx, tx, txn, status, paidAt, raw)
		if err != nil {
			return err
		}

		event := &db_models.WebhookEvent{
			AbacatePayID:      payload.ID,
			Status:            payload.Status,
			SignatureVerified: signatureVerified,
			Action:            action,
			Payload:           jsonOrEmpty(raw),
		}
		if err := tx.WebhookEvents().Create(ctx, event); err != nil {
			return dbError("record webhook event", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "webhook processed", "abacate_pay_id", payload.ID, "status", payload.Status, "action", action)
	return &response_models.WebhookResult{Processed: true, Action: action}, nil
}

// applyChargeStatus stores the new status on a locked transaction and runs
// the subscription side effects of the transition.
func (s *SubscriptionService) applyChargeStatus(
	ctx context.Context,
	tx repositories.Store,
	txn *db_models.PixTransaction,
	status db_models.PixStatus,
	paidAt *time.Time,
	raw []byte,
) (string, error) {
	previous := txn.Status

	// a paid charge only moves on through REFUNDED; a late EXPIRED or
	// CANCELLED notice is stale and must not revoke the plan
	if previous == db_models.PixPaid && (status == db_models.PixExpired || status == db_models.PixCancelled) {
		return ActionAlreadyProcessed, nil
	}

	txn.Status = status
	if status == db_models.PixPaid {
		switch {
		case paidAt != nil:
			txn.PaidAt = paidAt
		case txn.PaidAt == nil:
			now := s.now()
			txn.PaidAt = &now
		}
	}
	if len(raw) > 0 {
		txn.GatewayPayload = jsonOrEmpty(raw)
	}
	if err := tx.Transactions().Update(ctx, txn); err != nil {
		return "", dbError("update transaction", err)
	}

	switch status {
	case db_models.PixPaid:
		if previous == db_models.PixPaid {
			return ActionAlreadyProcessed, nil
		}
		if _, err := s.lifecycle.Activate(ctx, tx, txn.SubscriptionID); err != nil {
			return "", err
		}
		return ActionActivated, nil
	case db_models.PixExpired, db_models.PixCancelled:
		if err := s.lifecycle.EndCharge(ctx, tx, txn.SubscriptionID, status); err != nil {
			return "", err
		}
		return "subscription_" + strings.ToLower(string(status)), nil
	default:
		return ActionStatusUpdated, nil
	}
}

func paymentStatus(txn *db_models.PixTransaction, subStatus db_models.SubscriptionStatus) *response_models.PaymentStatusResponse {
	return &response_models.PaymentStatusResponse{
		TransactionID:      txn.ID.String(),
		Status:             string(txn.Status),
		SubscriptionStatus: string(subStatus),
		PaidAt:             txn.PaidAt,
		ExpiresAt:          txn.ExpiresAt,
	}
}

func jsonOrEmpty(raw []byte) datatypes.JSON {
	if len(raw) == 0 || !json.Valid(raw) {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(raw)
}
