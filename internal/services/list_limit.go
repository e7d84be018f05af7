package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"colabora/internal/models/db_models"
	"colabora/internal/plans"
	"colabora/internal/repositories"
)

type ListLimitResult struct {
	Allowed      bool
	Reason       string
	CurrentCount int64
	MaxAllowed   int
	// PlanName is empty while the user is on the free trial.
	PlanName string
}

// EvaluateListLimit applies the quota rules to a profile snapshot and its
// number of active lists.
func EvaluateListLimit(user *db_models.User, activeCount int64, now time.Time) ListLimitResult {
	if user == nil {
		return ListLimitResult{Reason: "user not found"}
	}

	res := ListLimitResult{CurrentCount: activeCount}

	var plan plans.Plan
	var known bool
	if user.SubscriptionPlan != nil {
		plan, known = plans.Get(plans.Code(*user.SubscriptionPlan))
	}

	if user.SubscriptionStatus != db_models.ProfileStatusActive || !known {
		res.MaxAllowed = plans.FreeListLimit
		res.Allowed = activeCount < int64(plans.FreeListLimit)
		if !res.Allowed {
			res.Reason = "subscribe to a plan to create more lists"
		}
		return res
	}

	res.MaxAllowed = plan.MaxLists
	res.PlanName = plan.Name

	if user.SubscriptionExpiresAt != nil && !user.SubscriptionExpiresAt.After(now) {
		res.Reason = "your subscription has expired, renew it to create new lists"
		return res
	}

	res.Allowed = activeCount < int64(plan.MaxLists)
	if !res.Allowed {
		res.Reason = fmt.Sprintf("limit of %d lists of plan %s reached", plan.MaxLists, plan.Name)
	}
	return res
}

// checkListLimit locks the profile row and counts active lists. Callers run
// it inside the transaction that inserts or reactivates the list, so two
// concurrent requests of the same user are serialized.
func checkListLimit(ctx context.Context, tx repositories.Store, userID uuid.UUID, now time.Time) (ListLimitResult, error) {
	user, err := tx.Accounts().LockUser(ctx, userID)
	if err != nil {
		return ListLimitResult{}, dbError("lock user", err)
	}
	if user == nil {
		return EvaluateListLimit(nil, 0, now), nil
	}

	count, err := tx.Lists().CountActiveByUser(ctx, userID)
	if err != nil {
		return ListLimitResult{}, dbError("count active lists", err)
	}

	return EvaluateListLimit(user, count, now), nil
}
