package repositories

import (
	"context"

	"gorm.io/gorm"

	"colabora/internal/models/db_models"
)

type WebhookEventRepository interface {
	Create(ctx context.Context, event *db_models.WebhookEvent) error
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *db_models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
