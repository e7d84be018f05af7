package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"colabora/internal/models/db_models"
)

type ListRepository interface {
	Create(ctx context.Context, list *db_models.List) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.List, error)
	// LockByID reads the list with SELECT ... FOR UPDATE. Only meaningful
	// inside WithinTransaction.
	LockByID(ctx context.Context, id uuid.UUID) (*db_models.List, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]db_models.List, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// Update writes the editable fields: location, description, event date
	// and updated_by.
	Update(ctx context.Context, list *db_models.List) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ListStatus) error
	ArchiveActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *db_models.List) error {
	return r.db.WithContext(ctx).Omit("Items").Create(list).Error
}

func (r *listRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.List, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *listRepository) LockByID(ctx context.Context, id uuid.UUID) (*db_models.List, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *listRepository) find(db *gorm.DB, id uuid.UUID) (*db_models.List, error) {
	var list db_models.List
	err := db.First(&list, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &list, nil
}

func (r *listRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]db_models.List, error) {
	var lists []db_models.List
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *listRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.List{}).
		Where("user_id = ? AND status = ?", userID, db_models.ListStatusActive).
		Count(&count).Error
	return count, err
}

func (r *listRepository) Update(ctx context.Context, list *db_models.List) error {
	return r.db.WithContext(ctx).
		Model(list).
		Select("location", "description", "event_date", "updated_by").
		Updates(list).Error
}

func (r *listRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.ListStatus) error {
	return r.db.WithContext(ctx).
		Model(&db_models.List{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *listRepository) ArchiveActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.List{}).
		Where("user_id = ? AND status = ?", userID, db_models.ListStatusActive).
		Update("status", db_models.ListStatusArchived)
	return res.RowsAffected, res.Error
}

func (r *listRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.List{}, "id = ?", id).Error
}
