package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"colabora/internal/models/db_models"
	"colabora/internal/repositories"
)

// fakeStore is an in-memory repositories.Store. Transactions are serialized
// and roll back by restoring a snapshot.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  int64
	fail map[string]error

	credentials map[uuid.UUID]db_models.Credential
	users       map[uuid.UUID]db_models.User
	lists       map[uuid.UUID]db_models.List
	items       map[uuid.UUID]db_models.Item
	parcels     map[uuid.UUID]db_models.Parcel
	subs        map[uuid.UUID]db_models.Subscription
	txns        map[uuid.UUID]db_models.PixTransaction
	events      []db_models.WebhookEvent

	// afterListItems runs once, right after the next ListByList read.
	afterListItems func()
	// committed holds writes made by concurrent requests; they survive a
	// rollback of the transaction they interleaved with.
	committed []func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		fail:        map[string]error{},
		credentials: map[uuid.UUID]db_models.Credential{},
		users:       map[uuid.UUID]db_models.User{},
		lists:       map[uuid.UUID]db_models.List{},
		items:       map[uuid.UUID]db_models.Item{},
		parcels:     map[uuid.UUID]db_models.Parcel{},
		subs:        map[uuid.UUID]db_models.Subscription{},
		txns:        map[uuid.UUID]db_models.PixTransaction{},
	}
}

type fakeSnapshot struct {
	credentials map[uuid.UUID]db_models.Credential
	users       map[uuid.UUID]db_models.User
	lists       map[uuid.UUID]db_models.List
	items       map[uuid.UUID]db_models.Item
	parcels     map[uuid.UUID]db_models.Parcel
	subs        map[uuid.UUID]db_models.Subscription
	txns        map[uuid.UUID]db_models.PixTransaction
	events      []db_models.WebhookEvent
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fakeStore) snapshot() fakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fakeSnapshot{
		credentials: cloneMap(s.credentials),
		users:       cloneMap(s.users),
		lists:       cloneMap(s.lists),
		items:       cloneMap(s.items),
		parcels:     cloneMap(s.parcels),
		subs:        cloneMap(s.subs),
		txns:        cloneMap(s.txns),
		events:      append([]db_models.WebhookEvent(nil), s.events...),
	}
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.mu.Lock()
	s.credentials = snap.credentials
	s.users = snap.users
	s.lists = snap.lists
	s.items = snap.items
	s.parcels = snap.parcels
	s.subs = snap.subs
	s.txns = snap.txns
	s.events = snap.events
	replay := s.committed
	s.committed = nil
	s.mu.Unlock()

	for _, fn := range replay {
		fn()
	}
}

// concurrently applies fn as a write committed by another request.
func (s *fakeStore) concurrently(fn func()) {
	fn()
	s.mu.Lock()
	s.committed = append(s.committed, fn)
	s.mu.Unlock()
}

func (s *fakeStore) WithinTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	s.mu.Lock()
	s.committed = nil
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) Accounts() repositories.AccountRepository           { return fakeAccounts{s} }
func (s *fakeStore) Lists() repositories.ListRepository                 { return fakeLists{s} }
func (s *fakeStore) Items() repositories.ItemRepository                 { return fakeItems{s} }
func (s *fakeStore) Subscriptions() repositories.SubscriptionRepository { return fakeSubs{s} }
func (s *fakeStore) Transactions() repositories.TransactionRepository   { return fakeTxns{s} }
func (s *fakeStore) WebhookEvents() repositories.WebhookEventRepository { return fakeEvents{s} }

// stamp fills the id and gives each row a strictly increasing created_at.
func (s *fakeStore) stamp(b *db_models.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.seq++
	b.CreatedAt = time.Unix(1_700_000_000+s.seq, 0)
	b.UpdatedAt = b.CreatedAt
}

func (s *fakeStore) err(op string) error {
	return s.fail[op]
}

// helpers used by tests

func (s *fakeStore) activeCount(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lists {
		if l.UserID == userID && l.Status == db_models.ListStatusActive {
			n++
		}
	}
	return n
}

func (s *fakeStore) parcelsOf(itemID uuid.UUID) []db_models.Parcel {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db_models.Parcel
	for _, p := range s.parcels {
		if p.ItemID == itemID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

type fakeAccounts struct{ s *fakeStore }

func (f fakeAccounts) FindCredentialByEmail(_ context.Context, email string) (*db_models.Credential, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.err("FindCredentialByEmail"); err != nil {
		return nil, err
	}
	for _, c := range f.s.credentials {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (f fakeAccounts) FindCredentialByID(_ context.Context, id uuid.UUID) (*db_models.Credential, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if c, ok := f.s.credentials[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f fakeAccounts) CreateCredential(_ context.Context, c *db_models.Credential) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.stamp(&c.BaseModel)
	f.s.credentials[c.ID] = *c
	return nil
}

func (f fakeAccounts) CreateUser(_ context.Context, u *db_models.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.err("CreateUser"); err != nil {
		return err
	}
	f.s.stamp(&u.BaseModel)
	f.s.users[u.ID] = *u
	return nil
}

func (f fakeAccounts) FindUserByID(_ context.Context, id uuid.UUID) (*db_models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if u, ok := f.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (f fakeAccounts) FindUserByCredentialID(_ context.Context, credentialID uuid.UUID) (*db_models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.CredentialID == credentialID {
			return &u, nil
		}
	}
	return nil, nil
}

func (f fakeAccounts) LockUser(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return f.FindUserByID(ctx, id)
}

func (f fakeAccounts) UpdateSubscriptionSnapshot(_ context.Context, userID uuid.UUID, plan *string, expiresAt *time.Time, status db_models.ProfileStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[userID]
	if !ok {
		return nil
	}
	u.SubscriptionPlan = plan
	u.SubscriptionExpiresAt = expiresAt
	u.SubscriptionStatus = status
	f.s.users[userID] = u
	return nil
}

type fakeLists struct{ s *fakeStore }

func (f fakeLists) Create(_ context.Context, l *db_models.List) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.err("CreateList"); err != nil {
		return err
	}
	f.s.stamp(&l.BaseModel)
	row := *l
	row.Items = nil
	f.s.lists[l.ID] = row
	return nil
}

func (f fakeLists) FindByID(_ context.Context, id uuid.UUID) (*db_models.List, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if l, ok := f.s.lists[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (f fakeLists) LockByID(ctx context.Context, id uuid.UUID) (*db_models.List, error) {
	return f.FindByID(ctx, id)
}

func (f fakeLists) FindByUser(_ context.Context, userID uuid.UUID) ([]db_models.List, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []db_models.List
	for _, l := range f.s.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeLists) CountActiveByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, l := range f.s.lists {
		if l.UserID == userID && l.Status == db_models.ListStatusActive {
			n++
		}
	}
	return n, nil
}

func (f fakeLists) Update(_ context.Context, l *db_models.List) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	row, ok := f.s.lists[l.ID]
	if !ok {
		return nil
	}
	row.Location = l.Location
	row.Description = l.Description
	row.EventDate = l.EventDate
	row.UpdatedBy = l.UpdatedBy
	f.s.lists[l.ID] = row
	return nil
}

func (f fakeLists) UpdateStatus(_ context.Context, id uuid.UUID, status db_models.ListStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if row, ok := f.s.lists[id]; ok {
		row.Status = status
		f.s.lists[id] = row
	}
	return nil
}

func (f fakeLists) ArchiveActiveByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for id, l := range f.s.lists {
		if l.UserID == userID && l.Status == db_models.ListStatusActive {
			l.Status = db_models.ListStatusArchived
			f.s.lists[id] = l
			n++
		}
	}
	return n, nil
}

func (f fakeLists) Delete(_ context.Context, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.lists, id)
	for itemID, item := range f.s.items {
		if item.ListID == id {
			delete(f.s.items, itemID)
		}
	}
	for parcelID, p := range f.s.parcels {
		if p.ListID == id {
			delete(f.s.parcels, parcelID)
		}
	}
	return nil
}

type fakeItems struct{ s *fakeStore }

func (f fakeItems) ListByList(_ context.Context, listID uuid.UUID) ([]db_models.Item, error) {
	f.s.mu.Lock()
	hook := f.s.afterListItems
	f.s.afterListItems = nil
	defer func() {
		if hook != nil {
			hook()
		}
	}()
	defer f.s.mu.Unlock()
	var out []db_models.Item
	for _, item := range f.s.items {
		if item.ListID != listID {
			continue
		}
		item.Parcels = nil
		for _, p := range f.s.parcels {
			if p.ItemID == item.ID {
				item.Parcels = append(item.Parcels, p)
			}
		}
		sort.Slice(item.Parcels, func(i, j int) bool { return item.Parcels[i].Position < item.Parcels[j].Position })
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f fakeItems) Create(_ context.Context, item *db_models.Item) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.stamp(&item.BaseModel)
	row := *item
	row.Parcels = nil
	f.s.items[item.ID] = row
	return nil
}

func (f fakeItems) Update(_ context.Context, item *db_models.Item) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	row, ok := f.s.items[item.ID]
	if !ok {
		return nil
	}
	row.Name = item.Name
	row.PortionSize = item.PortionSize
	row.UnitType = item.UnitType
	f.s.items[item.ID] = row
	return nil
}

func (f fakeItems) Delete(_ context.Context, id uuid.UUID) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.items, id)
	for parcelID, p := range f.s.parcels {
		if p.ItemID == id {
			delete(f.s.parcels, parcelID)
		}
	}
	return nil
}

func (f fakeItems) CreateParcels(_ context.Context, parcels []db_models.Parcel) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.err("CreateParcels"); err != nil {
		return err
	}
	for i := range parcels {
		f.s.stamp(&parcels[i].BaseModel)
		f.s.parcels[parcels[i].ID] = parcels[i]
	}
	return nil
}

func (f fakeItems) DeleteFreeParcels(_ context.Context, ids []uuid.UUID) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if p, ok := f.s.parcels[id]; ok && p.MemberName == nil {
			delete(f.s.parcels, id)
			n++
		}
	}
	return n, nil
}

func (f fakeItems) FindParcel(_ context.Context, listID, parcelID uuid.UUID) (*db_models.Parcel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if p, ok := f.s.parcels[parcelID]; ok && p.ListID == listID {
		return &p, nil
	}
	return nil, nil
}

func (f fakeItems) ClaimParcel(_ context.Context, parcelID uuid.UUID, name, cpf string, at time.Time) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.parcels[parcelID]
	if !ok || p.MemberName != nil {
		return false, nil
	}
	p.MemberName = &name
	p.MemberCPF = &cpf
	p.RegisteredAt = &at
	f.s.parcels[parcelID] = p
	return true, nil
}

func (f fakeItems) ReleaseParcel(_ context.Context, parcelID uuid.UUID) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.parcels[parcelID]
	if !ok || p.MemberName == nil {
		return false, nil
	}
	p.MemberName, p.MemberCPF, p.RegisteredAt = nil, nil, nil
	f.s.parcels[parcelID] = p
	return true, nil
}

type fakeSubs struct{ s *fakeStore }

func (f fakeSubs) Create(_ context.Context, sub *db_models.Subscription) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.stamp(&sub.BaseModel)
	f.s.subs[sub.ID] = *sub
	return nil
}

func (f fakeSubs) FindByID(_ context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if sub, ok := f.s.subs[id]; ok {
		return &sub, nil
	}
	return nil, nil
}

func (f fakeSubs) LockByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	return f.FindByID(ctx, id)
}

func (f fakeSubs) Update(_ context.Context, sub *db_models.Subscription) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	row, ok := f.s.subs[sub.ID]
	if !ok {
		return nil
	}
	row.Status = sub.Status
	row.StartsAt = sub.StartsAt
	row.ExpiresAt = sub.ExpiresAt
	f.s.subs[sub.ID] = row
	return nil
}

func (f fakeSubs) UpdateStatus(_ context.Context, id uuid.UUID, status db_models.SubscriptionStatus) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if row, ok := f.s.subs[id]; ok {
		row.Status = status
		f.s.subs[id] = row
	}
	return nil
}

type fakeTxns struct{ s *fakeStore }

func (f fakeTxns) Create(_ context.Context, txn *db_models.PixTransaction) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.err("CreateTransaction"); err != nil {
		return err
	}
	f.s.stamp(&txn.BaseModel)
	row := *txn
	row.Subscription = nil
	f.s.txns[txn.ID] = row
	return nil
}

func (f fakeTxns) FindByID(_ context.Context, id uuid.UUID) (*db_models.PixTransaction, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	txn, ok := f.s.txns[id]
	if !ok {
		return nil, nil
	}
	if sub, ok := f.s.subs[txn.SubscriptionID]; ok {
		txn.Subscription = &sub
	}
	return &txn, nil
}

func (f fakeTxns) LockByID(_ context.Context, id uuid.UUID) (*db_models.PixTransaction, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if txn, ok := f.s.txns[id]; ok {
		return &txn, nil
	}
	return nil, nil
}

func (f fakeTxns) LockByExternalID(_ context.Context, abacatePayID string) (*db_models.PixTransaction, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, txn := range f.s.txns {
		if txn.AbacatePayID == abacatePayID {
			return &txn, nil
		}
	}
	return nil, nil
}

func (f fakeTxns) Update(_ context.Context, txn *db_models.PixTransaction) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	row, ok := f.s.txns[txn.ID]
	if !ok {
		return nil
	}
	row.Status = txn.Status
	row.PaidAt = txn.PaidAt
	row.GatewayPayload = txn.GatewayPayload
	f.s.txns[txn.ID] = row
	return nil
}

type fakeEvents struct{ s *fakeStore }

func (f fakeEvents) Create(_ context.Context, event *db_models.WebhookEvent) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.stamp(&event.BaseModel)
	f.s.events = append(f.s.events, *event)
	return nil
}
