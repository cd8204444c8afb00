// Package models содержит доменные структуры, описывающие проект,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы жизненного цикла проекта. Переходы только вперед:
// active -> expired -> archived, либо сброс в active при обновлении владельцем.
// Статус archived терминальный.
const (
	StatusActive   = "active"
	StatusExpired  = "expired"
	StatusArchived = "archived"
)

// Project представляет собой основную модель проекта,
// используемую в бизнес-логике и хранилище.
// Поле ExpiresAt всегда вычисляется сервисом как время создания
// или обновления плюс TTL и никогда не задается клиентом напрямую.
type Project struct {
	ID        string    `json:"id"`         // Уникальный идентификатор проекта
	OwnerUID  string    `json:"owner_uid"`  // Идентификатор пользователя-владельца
	Name      string    `json:"name"`       // Название проекта
	URL       string    `json:"url"`        // Ссылка проекта
	Status    string    `json:"status"`     // Текущий статус: active, expired или archived
	ExpiresAt time.Time `json:"expires_at"` // Момент, после которого проект считается истекшим
	CreatedAt time.Time `json:"created_at"` // Дата создания
	UpdatedAt time.Time `json:"updated_at"` // Дата последнего изменения владельцем
}

// DummyProject используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Project.
type DummyProject struct {
	Name string `json:"name" validate:"required,min=1,max=200"` // Название проекта
	URL  string `json:"url" validate:"required,url"`            // Ссылка проекта
}

// ProjectList содержит страницу проектов пользователя вместе с общим
// количеством записей, подходящих под фильтр без учета пагинации.
type ProjectList struct {
	Items []*Project `json:"items"` // Страница проектов
	Total int        `json:"total"` // Общее количество совпадений без пагинации
	Size  int        `json:"size"`  // Количество записей на странице
}

// ExpiredEvent описывает событие истечения проекта,
// публикуемое в брокер при переводе проекта в статус expired.
type ExpiredEvent struct {
	ProjectID string    `json:"project_id"`
	OwnerUID  string    `json:"owner_uid"`
	Name      string    `json:"name"`
	ExpiredAt time.Time `json:"expired_at"`
}
