// Package apperr определяет единый набор ошибок бизнес-уровня.
// Обработчики HTTP сопоставляют эти ошибки с кодами ответов,
// сама бизнес-логика о транспорте ничего не знает.
package apperr

import "errors"

var (
	// ErrValidation — некорректные или пустые входные данные.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials — неверная пара логин/пароль. Ошибка намеренно
	// одинакова для несуществующего пользователя и неверного пароля.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrNotFound — ресурс не существует либо принадлежит другому пользователю.
	// Оба случая неразличимы для вызывающей стороны.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken — токен не прошел проверку подписи или истек.
	ErrInvalidToken = errors.New("invalid token")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
