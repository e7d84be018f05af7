package response_models

import (
	"time"

	"colabora/internal/models/db_models"
)

type UserResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	CPF                   *string    `json:"cpf,omitempty"`
	SubscriptionPlan      *string    `json:"subscription_plan"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
	CreatedAt             time.Time  `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func NewUserResponse(user *db_models.User, email string) UserResponse {
	return UserResponse{
		ID:                    user.ID.String(),
		Name:                  user.Name,
		Email:                 email,
		CPF:                   user.CPF,
		SubscriptionPlan:      user.SubscriptionPlan,
		SubscriptionStatus:    string(user.SubscriptionStatus),
		SubscriptionExpiresAt: user.SubscriptionExpiresAt,
		CreatedAt:             user.CreatedAt,
	}
}
