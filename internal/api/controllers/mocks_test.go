package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"colabora/internal/models/request_models"
	"colabora/internal/models/response_models"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.UserResponse), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.LoginResponse), args.Error(1)
}

type MockListService struct {
	mock.Mock
}

func (m *MockListService) CreateList(ctx context.Context, userID uuid.UUID, request request_models.CreateListRequest) (*response_models.ListDetail, error) {
	args := m.Called(ctx, userID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ListDetail), args.Error(1)
}

func (m *MockListService) CreateFromTemplate(ctx context.Context, userID, templateID uuid.UUID) (*response_models.ListDetail, error) {
	args := m.Called(ctx, userID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ListDetail), args.Error(1)
}

func (m *MockListService) GetUserLists(ctx context.Context, userID uuid.UUID) ([]response_models.ListSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response_models.ListSummary), args.Error(1)
}

func (m *MockListService) EditList(ctx context.Context, userID, listID uuid.UUID, request request_models.EditListRequest) (*response_models.ListDetail, error) {
	args := m.Called(ctx, userID, listID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ListDetail), args.Error(1)
}

func (m *MockListService) ToggleStatus(ctx context.Context, userID, listID uuid.UUID) (*response_models.ListSummary, error) {
	args := m.Called(ctx, userID, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ListSummary), args.Error(1)
}

func (m *MockListService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	return m.Called(ctx, userID, listID).Error(0)
}

func (m *MockListService) GetPublicList(ctx context.Context, listID uuid.UUID) (*response_models.ListDetail, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ListDetail), args.Error(1)
}

func (m *MockListService) RegisterMember(ctx context.Context, listID uuid.UUID, request request_models.RegisterMemberRequest) (*response_models.ParcelResponse, error) {
	args := m.Called(ctx, listID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.ParcelResponse), args.Error(1)
}

func (m *MockListService) UnregisterMember(ctx context.Context, listID, parcelID uuid.UUID) error {
	return m.Called(ctx, listID, parcelID).Error(0)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) GetPlans() response_models.PlansResponse {
	return m.Called().Get(0).(response_models.PlansResponse)
}

func (m *MockSubscriptionService) GetStatus(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionStatusResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.SubscriptionStatusResponse), args.Error(1)
}

func (m *MockSubscriptionService) Checkout(ctx context.Context, userID uuid.UUID, planCode string) (*response_models.CheckoutResponse, error) {
	args := m.Called(ctx, userID, planCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.CheckoutResponse), args.Error(1)
}

func (m *MockSubscriptionService) GetPaymentStatus(ctx context.Context, userID, transactionID uuid.UUID) (*response_models.PaymentStatusResponse, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.PaymentStatusResponse), args.Error(1)
}

func (m *MockSubscriptionService) SimulatePayment(ctx context.Context, userID, transactionID uuid.UUID) (*response_models.PaymentStatusResponse, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.PaymentStatusResponse), args.Error(1)
}

func (m *MockSubscriptionService) ProcessWebhook(ctx context.Context, payload request_models.AbacateWebhookPayload, raw []byte, signatureVerified bool) (*response_models.WebhookResult, error) {
	args := m.Called(ctx, payload, raw, signatureVerified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response_models.WebhookResult), args.Error(1)
}
