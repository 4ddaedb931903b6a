package services

import (
	"context"
	"testing"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

type mockRTRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockDelete      func(ctx context.Context, token string) error
}

func (m *mockRTRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRTRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, token)
	}
	return nil
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, nil)

	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:  email,
			Active: false,
		}, nil
	}

	result, err := service.Login(context.Background(), "disabled@example.com", "password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	assert.NoError(t, err)

	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, nil)

	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:        email,
			Active:       true,
			PasswordHash: hash,
		}, nil
	}

	result, err := service.Login(context.Background(), "ops@example.com", "wrong-password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthService_RefreshToken_DisabledUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	mockTokens := &mockRTRepo{}
	service := NewAuthService(mockRepo, mockTokens, nil)

	mockTokens.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1, ExpiresAt: farFuture()}, nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{
			ID:     id,
			Active: false,
		}, nil
	}

	result, err := service.RefreshToken(context.Background(), "token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func farFuture() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	assert.NoError(t, err)
	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("other", hash))
}
