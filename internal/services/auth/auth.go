// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"fmt"

	"github.com/mrdekan/projects-api-test-task/internal/apperr"
	"github.com/mrdekan/projects-api-test-task/internal/lib/jwt"
	"github.com/mrdekan/projects-api-test-task/internal/lib/password"
	"github.com/mrdekan/projects-api-test-task/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	// Занятое имя пользователя возвращается как apperr.ErrUsernameTaken.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или apperr.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Исходный пароль нигде не сохраняется и не логируется.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: username is empty", apperr.ErrValidation)
	}
	if rawPassword == "" {
		return "", fmt.Errorf("%w: password is empty", apperr.ErrValidation)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hashed,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
// Несуществующий пользователь и неверный пароль дают одну и ту же ошибку,
// чтобы по ответу нельзя было перебирать имена. Сбой хранилища не маскируется
// под неверные учетные данные и уходит наверх как есть.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", apperr.ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.UID)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ValidateToken проверяет JWT и восстанавливает пользователя из claims,
// без обращения к хранилищу.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidToken, err)
	}
	user := &models.User{
		UID:      claims.Subject,
		Username: claims.Username,
	}
	return user, nil
}
