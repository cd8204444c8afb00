package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrdekan/projects-api-test-task/internal/apperr"
	customjwt "github.com/mrdekan/projects-api-test-task/internal/lib/jwt"
	"github.com/mrdekan/projects-api-test-task/internal/lib/password"
	"github.com/mrdekan/projects-api-test-task/internal/models"
	services "github.com/mrdekan/projects-api-test-task/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username, useruid string) (string, error) {
	args := m.Called(username, useruid)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantUID    string
		wantErr    error
	}{
		{
			name:     "successful registration",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					// пароль уходит в хранилище только в виде хэша
					return user.Username == "testuser" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123"
				})).Return("some-uuid-string", nil).Once()
			},
			wantUID: "some-uuid-string",
		},
		{
			name:       "empty username",
			username:   "",
			password:   "password123",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:       "empty password",
			username:   "testuser",
			password:   "",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    apperr.ErrValidation,
		},
		{
			name:     "username already taken",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", apperr.ErrUsernameTaken).Once()
			},
			wantErr: apperr.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	assert.NoError(t, err)

	storageErr := errors.New("connection refused")

	storedUser := &models.User{
		UID:          "user-uid-1",
		Username:     "testuser",
		PasswordHash: hashed,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
		wantNotErr error
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(storedUser, nil).Once()
				j.On("GenerateToken", "testuser", "user-uid-1").Return("signed-token", nil).Once()
			},
			wantToken: "signed-token",
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(storedUser, nil).Once()
			},
			wantErr: apperr.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "nosuchuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "nosuchuser").
					Return(nil, apperr.ErrNotFound).Once()
			},
			// ошибка та же, что и при неверном пароле: имена нельзя перебирать
			wantErr: apperr.ErrInvalidCredentials,
		},
		{
			name:     "storage failure propagates",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(nil, storageErr).Once()
			},
			// сбой базы нельзя выдавать за неверные учетные данные
			wantErr:    storageErr,
			wantNotErr: apperr.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantNotErr != nil {
					assert.NotErrorIs(t, err, tt.wantNotErr)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := services.NewAuthService(repo, jwtMock)

	claims := &customjwt.CustomClaims{
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-uid-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	jwtMock.On("ParseToken", "good-token").Return(claims, nil).Once()
	jwtMock.On("ParseToken", "bad-token").Return(nil, errors.New("signature invalid")).Once()

	user, err := svc.ValidateToken(context.Background(), "good-token")
	assert.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "user-uid-1", user.UID)

	user, err = svc.ValidateToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
	assert.Nil(t, user)

	jwtMock.AssertExpectations(t)
}
