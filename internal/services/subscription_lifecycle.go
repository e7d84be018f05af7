package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"colabora/internal/models/db_models"
	"colabora/internal/plans"
	"colabora/internal/repositories"
	"colabora/pkg/utils"
)

type ActivationResult struct {
	Plan          string
	ExpiresAt     time.Time
	Downgrade     bool
	ArchivedLists int64
}

// SubscriptionLifecycle moves subscriptions between states and keeps the
// profile snapshot in step. Every method expects a transactional Store.
type SubscriptionLifecycle struct {
	log *slog.Logger
	now func() time.Time
}

func NewSubscriptionLifecycle(log *slog.Logger) *SubscriptionLifecycle {
	return &SubscriptionLifecycle{log: log, now: time.Now}
}

// Activate marks a paid subscription active for SubscriptionDays. A plan with
// a smaller quota than the current one archives every active list of the
// user.
func (l *SubscriptionLifecycle) Activate(ctx context.Context, tx repositories.Store, subscriptionID uuid.UUID) (*ActivationResult, error) {
	sub, err := tx.Subscriptions().LockByID(ctx, subscriptionID)
	if err != nil {
		return nil, dbError("lock subscription", err)
	}
	if sub == nil {
		return nil, utils.NotFound("subscription not found")
	}
	if sub.Status == db_models.SubStatusPaid {
		return nil, utils.BadRequest("subscription is already active")
	}

	user, err := tx.Accounts().LockUser(ctx, sub.UserID)
	if err != nil {
		return nil, dbError("lock user", err)
	}
	if user == nil {
		return nil, utils.ErrUserProfileNotFound
	}

	previousQuota := plans.FreeListLimit
	if user.SubscriptionPlan != nil {
		previousQuota = plans.QuotaFor(*user.SubscriptionPlan)
	}
	newQuota := plans.QuotaFor(sub.Plan)

	res := &ActivationResult{Plan: sub.Plan}
	if newQuota < previousQuota {
		res.Downgrade = true
		res.ArchivedLists, err = tx.Lists().ArchiveActiveByUser(ctx, user.ID)
		if err != nil {
			return nil, dbError("archive lists", err)
		}
	}

	now := l.now()
	expiresAt := utils.AddDays(now, plans.SubscriptionDays)
	sub.Status = db_models.SubStatusPaid
	sub.StartsAt = &now
	sub.ExpiresAt = &expiresAt
	if err := tx.Subscriptions().Update(ctx, sub); err != nil {
		return nil, dbError("update subscription", err)
	}

	plan := sub.Plan
	if err := tx.Accounts().UpdateSubscriptionSnapshot(ctx, user.ID, &plan, &expiresAt, db_models.ProfileStatusActive); err != nil {
		return nil, dbError("update profile snapshot", err)
	}

	res.ExpiresAt = expiresAt
	l.log.InfoContext(ctx, "subscription activated",
		"subscription_id", sub.ID,
		"user_id", user.ID,
		"plan", sub.Plan,
		"downgrade", res.Downgrade,
		"archived_lists", res.ArchivedLists,
	)
	return res, nil
}

// EndCharge mirrors an EXPIRED or CANCELLED charge onto its subscription,
// and onto the profile when that subscription was the paid one.
func (l *SubscriptionLifecycle) EndCharge(ctx context.Context, tx repositories.Store, subscriptionID uuid.UUID, status db_models.PixStatus) error {
	sub, err := tx.Subscriptions().LockByID(ctx, subscriptionID)
	if err != nil {
		return dbError("lock subscription", err)
	}
	if sub == nil {
		return utils.NotFound("subscription not found")
	}

	subStatus := db_models.SubscriptionStatus(strings.ToLower(string(status)))
	wasPaid := sub.Status == db_models.SubStatusPaid
	if err := tx.Subscriptions().UpdateStatus(ctx, sub.ID, subStatus); err != nil {
		return dbError("update subscription", err)
	}

	if wasPaid {
		user, err := tx.Accounts().LockUser(ctx, sub.UserID)
		if err != nil {
			return dbError("lock user", err)
		}
		if user != nil {
			plan := sub.Plan
			profileStatus := db_models.ProfileStatus(subStatus)
			if err := tx.Accounts().UpdateSubscriptionSnapshot(ctx, user.ID, &plan, sub.ExpiresAt, profileStatus); err != nil {
				return dbError("update profile snapshot", err)
			}
		}
	}

	l.log.InfoContext(ctx, "subscription charge ended", "subscription_id", sub.ID, "status", subStatus, "was_paid", wasPaid)
	return nil
}
