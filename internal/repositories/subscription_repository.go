package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"colabora/internal/models/db_models"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *db_models.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	LockByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	// Update writes status and the paid window.
	Update(ctx context.Context, sub *db_models.Subscription) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.SubscriptionStatus) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *subscriptionRepository) LockByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *subscriptionRepository) find(db *gorm.DB, id uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := db.First(&sub, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).
		Model(sub).
		Select("status", "starts_at", "expires_at").
		Updates(sub).Error
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.SubscriptionStatus) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}
