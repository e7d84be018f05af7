package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"colabora/internal/models/db_models"
	"colabora/internal/models/request_models"
	"colabora/internal/models/response_models"
	"colabora/internal/repositories"
	"colabora/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
}

type AccountService struct {
	store  repositories.Store
	tokens *utils.TokenManager
	log    *slog.Logger
}

func NewAccountService(store repositories.Store, tokens *utils.TokenManager, log *slog.Logger) AccountServiceInterface {
	return &AccountService{
		store:  store,
		tokens: tokens,
		log:    log,
	}
}

// Register creates the credential and its profile in one transaction.
func (a *AccountService) Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error) {
	email := normalizeEmail(request.Email)

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	var user *db_models.User
	err = a.store.WithinTransaction(ctx, func(tx repositories.Store) error {
		existing, err := tx.Accounts().FindCredentialByEmail(ctx, email)
		if err != nil {
			return dbError("find credential", err)
		}
		if existing != nil {
			return utils.ErrEmailAlreadyExists
		}

		credential := &db_models.Credential{
			Email:        email,
			PasswordHash: hashedPassword,
		}
		if err := tx.Accounts().CreateCredential(ctx, credential); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrEmailAlreadyExists
			}
			return dbError("create credential", err)
		}

		user = &db_models.User{
			CredentialID:       credential.ID,
			Name:               strings.TrimSpace(request.Name),
			SubscriptionStatus: db_models.ProfileStatusNone,
		}
		if cpf := utils.NormalizeCPF(request.CPF); cpf != "" {
			user.CPF = &cpf
		}
		if err := tx.Accounts().CreateUser(ctx, user); err != nil {
			return dbError("create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	resp := response_models.NewUserResponse(user, email)
	return &resp, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	credential, err := a.store.Accounts().FindCredentialByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		return nil, dbError("find credential", err)
	}
	if credential == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(credential.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	user, err := a.store.Accounts().FindUserByCredentialID(ctx, credential.ID)
	if err != nil {
		return nil, dbError("find user", err)
	}
	if user == nil {
		return nil, utils.ErrUserProfileNotFound
	}

	token, err := a.tokens.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &response_models.LoginResponse{
		Token: token,
		User:  response_models.NewUserResponse(user, credential.Email),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
