package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/sunlib/helpdesk-backend/internal/core/domain"
)

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// MockTaskRepository is a mock implementation of ports.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{}
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PersonalTask, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PersonalTask), args.Error(1)
}

// MockUserDirectory is a mock implementation of ports.UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func NewMockUserDirectory() *MockUserDirectory {
	return &MockUserDirectory{}
}

func (m *MockUserDirectory) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockLedgerStore is a mock implementation of ports.LedgerStore
type MockLedgerStore struct {
	mock.Mock
}

func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{}
}

func (m *MockLedgerStore) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationLedger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationLedger), args.Error(1)
}

func (m *MockLedgerStore) Put(ctx context.Context, userID uuid.UUID, ledger *domain.NotificationLedger) error {
	args := m.Called(ctx, userID, ledger)
	return args.Error(0)
}

// MockFeedBroadcaster is a mock implementation of ports.FeedBroadcaster
type MockFeedBroadcaster struct {
	mock.Mock
}

func NewMockFeedBroadcaster() *MockFeedBroadcaster {
	return &MockFeedBroadcaster{}
}

func (m *MockFeedBroadcaster) Broadcast(event domain.FeedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMetricsService is a mock implementation of ports.MetricsService
type MockMetricsService struct {
	mock.Mock
}

func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) Compute(ctx context.Context, query domain.MetricsQuery) (*domain.MetricsResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricsResult), args.Error(1)
}

func (m *MockMetricsService) Export(ctx context.Context, query domain.MetricsQuery) ([]byte, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockNotificationService is a mock implementation of ports.NotificationService
type MockNotificationService struct {
	mock.Mock
}

func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) Refresh(ctx context.Context, userID uuid.UUID) ([]domain.NotificationEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationEvent), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID uuid.UUID, eventID string) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationService) Clear(ctx context.Context, userID uuid.UUID, eventID string) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockNotificationService) ClearAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
