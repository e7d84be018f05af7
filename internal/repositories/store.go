package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories so a service can run several of them in
// one database transaction.
type Store interface {
	Accounts() AccountRepository
	Lists() ListRepository
	Items() ItemRepository
	Subscriptions() SubscriptionRepository
	Transactions() TransactionRepository
	WebhookEvents() WebhookEventRepository

	// WithinTransaction runs fn against a Store bound to a single
	// transaction. Any error returned by fn rolls everything back.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Accounts() AccountRepository           { return NewAccountRepository(s.db) }
func (s *gormStore) Lists() ListRepository                 { return NewListRepository(s.db) }
func (s *gormStore) Items() ItemRepository                 { return NewItemRepository(s.db) }
func (s *gormStore) Subscriptions() SubscriptionRepository { return NewSubscriptionRepository(s.db) }
func (s *gormStore) Transactions() TransactionRepository   { return NewTransactionRepository(s.db) }
func (s *gormStore) WebhookEvents() WebhookEventRepository { return NewWebhookEventRepository(s.db) }

func (s *gormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
