package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"colabora/internal/models/db_models"
)

type AccountRepository interface {
	FindCredentialByEmail(ctx context.Context, email string) (*db_models.Credential, error)
	FindCredentialByID(ctx context.Context, id uuid.UUID) (*db_models.Credential, error)
	CreateCredential(ctx context.Context, credential *db_models.Credential) error
	CreateUser(ctx context.Context, user *db_models.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindUserByCredentialID(ctx context.Context, credentialID uuid.UUID) (*db_models.User, error)
	// LockUser reads the profile with SELECT ... FOR UPDATE. Only meaningful
	// inside a transaction.
	LockUser(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	UpdateSubscriptionSnapshot(ctx context.Context, userID uuid.UUID, plan *string, expiresAt *time.Time, status db_models.ProfileStatus) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) FindCredentialByEmail(ctx context.Context, email string) (*db_models.Credential, error) {
	var credential db_models.Credential
	err := a.db.WithContext(ctx).First(&credential, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &credential, nil
}

func (a *accountRepository) FindCredentialByID(ctx context.Context, id uuid.UUID) (*db_models.Credential, error) {
	var credential db_models.Credential
	err := a.db.WithContext(ctx).First(&credential, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &credential, nil
}

func (a *accountRepository) CreateCredential(ctx context.Context, credential *db_models.Credential) error {
	return a.db.WithContext(ctx).Create(credential).Error
}

func (a *accountRepository) CreateUser(ctx context.Context, user *db_models.User) error {
	return a.db.WithContext(ctx).Create(user).Error
}

func (a *accountRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return a.findUser(a.db.WithContext(ctx), "id = ?", id)
}

func (a *accountRepository) FindUserByCredentialID(ctx context.Context, credentialID uuid.UUID) (*db_models.User, error) {
	return a.findUser(a.db.WithContext(ctx), "credential_id = ?", credentialID)
}

func (a *accountRepository) LockUser(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return a.findUser(a.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (a *accountRepository) findUser(db *gorm.DB, query string, arg any) (*db_models.User, error) {
	var user db_models.User
	err := db.First(&user, query, arg).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (a *accountRepository) UpdateSubscriptionSnapshot(ctx context.Context, userID uuid.UUID, plan *string, expiresAt *time.Time, status db_models.ProfileStatus) error {
	return a.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"subscription_plan":       plan,
			"subscription_expires_at": expiresAt,
			"subscription_status":     status,
		}).Error
}
