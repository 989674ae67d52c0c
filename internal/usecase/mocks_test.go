package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, leadID, status string, at time.Time) error {
	args := m.Called(ctx, leadID, status, at)
	return args.Error(0)
}

func (m *MockLeadRepository) Claim(ctx context.Context, leadID, closerID string, at time.Time) (bool, error) {
	args := m.Called(ctx, leadID, closerID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) Release(ctx context.Context, leadID string) (bool, error) {
	args := m.Called(ctx, leadID)
	return args.Bool(0), args.Error(1)
}

// MockSaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id string) (*entity.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) CreateWithLeadTransition(ctx context.Context, sale *entity.Sale, leadStatus string) error {
	args := m.Called(ctx, sale, leadStatus)
	return args.Error(0)
}

func (m *MockSaleRepository) ApplyDecision(ctx context.Context, writes DecisionWrites) error {
	args := m.Called(ctx, writes)
	return args.Error(0)
}

// MockProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockRuleRepository
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) ActiveRules(ctx context.Context, productID string) ([]entity.CommissionRule, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CommissionRule), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishSaleApproved(ctx context.Context, payload queue.SaleApprovedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockLeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) Summarize(ctx context.Context, role string, from, to time.Time) ([]LeaderboardRow, error) {
	args := m.Called(ctx, role, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LeaderboardRow), args.Error(1)
}
