// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи и хэш пароля.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное, регистрозависимое)
	PasswordHash string    `json:"-"` // Хэш пароля, никогда не отдается наружу
	CreatedAt    time.Time // Дата регистрации
}
