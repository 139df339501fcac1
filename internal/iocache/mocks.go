package iocache

import (
	"context"

	"github.com/albanecoiffe/health-data-coach/internal/contract"
	"github.com/albanecoiffe/health-data-coach/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSessionStore implements the StoreManager interface.
func (m *MockStoreManager) GetSessionStore() contract.SessionStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SessionStore)
	return store
}

// GetWeekStore implements the StoreManager interface.
func (m *MockStoreManager) GetWeekStore() contract.WeekStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.WeekStore)
	return store
}

// GetSignatureCache implements the StoreManager interface.
func (m *MockStoreManager) GetSignatureCache() contract.SignatureCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.SignatureCache)
	return cache
}

// MockSessionStore is a mock implementation of SessionStore and WeekStore for testing.
type MockSessionStore struct {
	mock.Mock
}

var (
	_ contract.SessionStore = &MockSessionStore{} // Compile-time check
	_ contract.WeekStore    = &MockSessionStore{} // Compile-time check
)

// AddSessions implements the SessionStore interface.
func (m *MockSessionStore) AddSessions(ctx context.Context, sessions []schema.RawSession) (int, error) {
	args := m.Called(ctx, sessions)
	return args.Int(0), args.Error(1)
}

// ListSessions implements the SessionStore interface.
func (m *MockSessionStore) ListSessions(ctx context.Context, userID string) ([]schema.RawSession, error) {
	args := m.Called(ctx, userID)
	sessions, _ := args.Get(0).([]schema.RawSession)
	return sessions, args.Error(1)
}

// ListUsers implements the SessionStore interface.
func (m *MockSessionStore) ListUsers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]string)
	return users, args.Error(1)
}

// GetStatus implements the SessionStore interface.
func (m *MockSessionStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// UpsertWeeks implements the WeekStore interface.
func (m *MockSessionStore) UpsertWeeks(ctx context.Context, weeks []schema.WeekAggregate) error {
	args := m.Called(ctx, weeks)
	return args.Error(0)
}

// ListWeeks implements the WeekStore interface.
func (m *MockSessionStore) ListWeeks(ctx context.Context, userID string) ([]schema.WeekAggregate, error) {
	args := m.Called(ctx, userID)
	weeks, _ := args.Get(0).([]schema.WeekAggregate)
	return weeks, args.Error(1)
}

// Close implements the SessionStore interface.
func (m *MockSessionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSignatureCache is a mock implementation of SignatureCache for testing.
type MockSignatureCache struct {
	mock.Mock
}

var _ contract.SignatureCache = &MockSignatureCache{} // Compile-time check

// Get implements the SignatureCache interface.
func (m *MockSignatureCache) Get(ctx context.Context, userID string) (schema.SignatureRecord, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(schema.SignatureRecord), args.Bool(1), args.Error(2)
}

// Put implements the SignatureCache interface.
func (m *MockSignatureCache) Put(ctx context.Context, rec schema.SignatureRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MarkStale implements the SignatureCache interface.
func (m *MockSignatureCache) MarkStale(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Close implements the SignatureCache interface.
func (m *MockSignatureCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
