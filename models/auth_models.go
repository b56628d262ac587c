package models

import "time"

// TokenRequest представляет данные для получения токена локального API.
type TokenRequest struct {
	Password string `json:"password" validate:"required"`
}

// TokenResponse представляет ответ сервера после успешной аутентификации.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NoteRequest - тело запроса на создание/изменение заметки.
type NoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Tags  []Tag  `json:"tags" validate:"omitempty,dive"`
}

// EntryRequest - тело запроса на добавление/изменение записи.
type EntryRequest struct {
	Text string `json:"text" validate:"required"`
}

// PinRequest - тело запроса на закрепление/открепление.
type PinRequest struct {
	Pinned *bool `json:"pinned" validate:"required"`
}

// TagRenameRequest - тело запроса на переименование тега.
type TagRenameRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// SearchRequest - тело запроса на поиск по записям заметки.
type SearchRequest struct {
	Query string `json:"query"`
}
