package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"colabora/internal/models/db_models"
	"colabora/internal/models/request_models"
	"colabora/internal/plans"
	"colabora/pkg/utils"
)

// MockPixGateway is a mock implementation of PixGateway.
type MockPixGateway struct {
	mock.Mock
}

func (m *MockPixGateway) CreatePixCharge(ctx context.Context, in CreatePixChargeInput) (*PixCharge, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PixCharge), args.Error(1)
}

func (m *MockPixGateway) CheckPixCharge(ctx context.Context, id string) (*PixCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PixCharge), args.Error(1)
}

func (m *MockPixGateway) SimulatePayment(ctx context.Context, id string) (*PixCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PixCharge), args.Error(1)
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestListService(store *fakeStore) *ListService {
	return &ListService{store: store, log: discardLogger(), now: clock(fixedNow)}
}

func seedUser(store *fakeStore) uuid.UUID {
	credential := db_models.Credential{Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	store.stamp(&credential.BaseModel)
	store.credentials[credential.ID] = credential

	user := db_models.User{
		CredentialID:       credential.ID,
		Name:               "Maria",
		SubscriptionStatus: db_models.ProfileStatusNone,
	}
	store.stamp(&user.BaseModel)
	store.users[user.ID] = user
	return user.ID
}

// setPlan writes an active snapshot for code valid for the next 30 days.
func setPlan(store *fakeStore, userID uuid.UUID, code plans.Code) {
	plan := string(code)
	expires := utils.AddDays(fixedNow, plans.SubscriptionDays)
	u := store.users[userID]
	u.SubscriptionPlan = &plan
	u.SubscriptionExpiresAt = &expires
	u.SubscriptionStatus = db_models.ProfileStatusActive
	store.users[userID] = u
}

func spec(name string, total, portion float64, unit string) request_models.ItemSpec {
	return request_models.ItemSpec{
		ItemName:           name,
		QuantityTotal:      total,
		UnitType:           unit,
		QuantityPerPortion: portion,
	}
}

func createRequest(items ...request_models.ItemSpec) request_models.CreateListRequest {
	return request_models.CreateListRequest{
		Location:  "Salão da igreja",
		EventDate: fixedNow.Add(72 * time.Hour),
		Items:     items,
	}
}

const validCPF = "529.982.247-25"
