// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы и сообщения {"msg": ...} в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные (пароль не совпал)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Внешний сервис (AniList) не ответил или ответил ошибкой
	ErrUpstream = errors.New("upstream unavailable")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
	// неожидаемая ошибка
	ErrUnexpectedError = errors.New("unexpected error")
)

// Сообщения, которые уходят клиенту в поле msg.
// Текст фиксированный, внутренние детали сюда не попадают.
const (
	MsgUserExists         = "User already exists"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidInput       = "Invalid input"
	MsgBadJSON            = "Bad JSON"
	MsgUnauthorized       = "Not authorized"
	MsgNotFound           = "Not found"
	MsgUpstream           = "Anime service unavailable"
	MsgServerError        = "Server error"
	MsgCanceled           = "Request canceled"
)
