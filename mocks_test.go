package content_test

import (
	"context"

	content "github.com/goliatone/go-content-api"
	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider implements content.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (content.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(content.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (content.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(content.Identity)
	return identity, args.Error(1)
}

// MockUserTracker implements content.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*content.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*content.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *content.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSucccessfulLogin(ctx context.Context, user *content.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockConfig implements content.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetSigningMethod() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetTokenLookup() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockConfig) GetMaxPageSize() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetDefaultPageSize() int {
	args := m.Called()
	return args.Int(0)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetTokenExpiration").Return(1800)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	mockConfig.On("GetDefaultPageSize").Return(100)
	mockConfig.On("GetMaxPageSize").Return(100)
	return mockConfig
}
