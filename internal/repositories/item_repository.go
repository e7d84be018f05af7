package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"colabora/internal/models/db_models"
)

type ItemRepository interface {
	// ListByList returns the items of a list ordered by position, each with
	// its parcels ordered by position.
	ListByList(ctx context.Context, listID uuid.UUID) ([]db_models.Item, error)
	Create(ctx context.Context, item *db_models.Item) error
	Update(ctx context.Context, item *db_models.Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateParcels(ctx context.Context, parcels []db_models.Parcel) error
	// DeleteFreeParcels deletes the given parcels that are still unclaimed
	// and reports how many it deleted.
	DeleteFreeParcels(ctx context.Context, ids []uuid.UUID) (int64, error)
	FindParcel(ctx context.Context, listID, parcelID uuid.UUID) (*db_models.Parcel, error)
	// ClaimParcel sets the claimant only when the parcel is still free and
	// reports whether it did.
	ClaimParcel(ctx context.Context, parcelID uuid.UUID, name, cpf string, at time.Time) (bool, error)
	// ReleaseParcel clears the claimant and reports whether there was one.
	ReleaseParcel(ctx context.Context, parcelID uuid.UUID) (bool, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) ListByList(ctx context.Context, listID uuid.UUID) ([]db_models.Item, error) {
	var items []db_models.Item
	err := r.db.WithContext(ctx).
		Preload("Parcels", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("list_id = ?", listID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Create(ctx context.Context, item *db_models.Item) error {
	return r.db.WithContext(ctx).Omit("Parcels").Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *db_models.Item) error {
	return r.db.WithContext(ctx).
		Model(item).
		Select("name", "portion_size", "unit_type").
		Updates(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.Item{}, "id = ?", id).Error
}

func (r *itemRepository) CreateParcels(ctx context.Context, parcels []db_models.Parcel) error {
	if len(parcels) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(parcels, 200).Error
}

func (r *itemRepository) DeleteFreeParcels(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Delete(&db_models.Parcel{}, "id IN ? AND member_name IS NULL", ids)
	return res.RowsAffected, res.Error
}

func (r *itemRepository) FindParcel(ctx context.Context, listID, parcelID uuid.UUID) (*db_models.Parcel, error) {
	var parcel db_models.Parcel
	err := r.db.WithContext(ctx).First(&parcel, "id = ? AND list_id = ?", parcelID, listID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &parcel, nil
}

func (r *itemRepository) ClaimParcel(ctx context.Context, parcelID uuid.UUID, name, cpf string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Parcel{}).
		Where("id = ? AND member_name IS NULL", parcelID).
		Updates(map[string]any{
			"member_name":   name,
			"member_cpf":    cpf,
			"registered_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *itemRepository) ReleaseParcel(ctx context.Context, parcelID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Parcel{}).
		Where("id = ? AND member_name IS NOT NULL", parcelID).
		Updates(map[string]any{
			"member_name":   nil,
			"member_cpf":    nil,
			"registered_at": nil,
		})
	return res.RowsAffected == 1, res.Error
}
