package userservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"animeapi/internal/domain"
	apperror "animeapi/internal/errors"
	"animeapi/internal/pkg/logger"
	"animeapi/internal/service/userservice"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) GenerateToken(userID string, roles []string) (string, error) {
	args := m.Called(userID, roles)
	return args.String(0), args.Error(1)
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_IssuesTokenForValidCredentials(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	user := domain.User{
		ID:           "id-1",
		Username:     "admin",
		PasswordHash: hash(t, "devpass"),
		Roles:        []string{domain.RoleUser, domain.RoleAdmin},
	}
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(user, nil)
	mockTokens.On("GenerateToken", "id-1", user.Roles).Return("signed-token", nil)

	signed, err := svc.Login(context.Background(), "admin", "devpass")

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", signed)
	mockTokens.AssertExpectations(t)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	user := domain.User{ID: "id-1", Username: "admin", PasswordHash: hash(t, "devpass")}
	mockRepo.On("FindByUsername", mock.Anything, "admin").Return(user, nil)

	_, err := svc.Login(context.Background(), "admin", "wrong")

	var unauthorized *apperror.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	mockTokens.AssertNotCalled(t, "GenerateToken")
}

// Unknown usernames produce the same failure as wrong passwords.
func TestLogin_UnknownUserIsUnauthorized(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(domain.User{}, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), "ghost", "devpass")

	var unauthorized *apperror.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
}

func TestRegister_HashesPasswordAndDefaultsToUserRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		if u.Username != "newuser" || len(u.Roles) != 1 || u.Roles[0] != domain.RoleUser {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("devpass")) == nil
	})).Return(domain.User{ID: "id-2", Username: "newuser", Roles: []string{domain.RoleUser}}, nil)

	created, err := svc.Register(context.Background(), "newuser", "devpass")

	assert.NoError(t, err)
	assert.Equal(t, "id-2", created.ID)
	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsernameIsValidationError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.User{}, domain.ErrAlreadyExists)

	_, err := svc.Register(context.Background(), "admin", "devpass")

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestRegister_EmptyCredentialsRejected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	_, err := svc.Register(context.Background(), "", "devpass")

	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestLogin_EmptyCredentialsRejectedBeforeLookup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenGenerator)
	svc := userservice.NewService(mockRepo, mockTokens, logger.New("error"))

	_, err := svc.Login(context.Background(), "", "")

	var unauthorized *apperror.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	mockRepo.AssertNotCalled(t, "FindByUsername")
}
