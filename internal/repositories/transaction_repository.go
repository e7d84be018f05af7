package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"colabora/internal/models/db_models"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *db_models.PixTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.PixTransaction, error)
	LockByID(ctx context.Context, id uuid.UUID) (*db_models.PixTransaction, error)
	LockByExternalID(ctx context.Context, abacatePayID string) (*db_models.PixTransaction, error)
	// Update writes status, paid time and the last gateway payload.
	Update(ctx context.Context, txn *db_models.PixTransaction) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *db_models.PixTransaction) error {
	return r.db.WithContext(ctx).Omit("Subscription").Create(txn).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.PixTransaction, error) {
	return r.find(r.db.WithContext(ctx).Preload("Subscription"), "id = ?", id)
}

func (r *transactionRepository) LockByID(ctx context.Context, id uuid.UUID) (*db_models.PixTransaction, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *transactionRepository) LockByExternalID(ctx context.Context, abacatePayID string) (*db_models.PixTransaction, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "abacate_pay_id = ?", abacatePayID)
}

func (r *transactionRepository) find(db *gorm.DB, query string, arg any) (*db_models.PixTransaction, error) {
	var txn db_models.PixTransaction
	err := db.First(&txn, query, arg).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (r *transactionRepository) Update(ctx context.Context, txn *db_models.PixTransaction) error {
	return r.db.WithContext(ctx).
		Model(txn).
		Select("status", "paid_at", "gateway_payload").
		Updates(txn).Error
}
