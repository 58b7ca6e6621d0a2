// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит токен и публичный профиль вошедшего пользователя
// и размещается в домашней директории пользователя в файле:
//
//	~/.animetrack/credentials.json
//
// Пакет предоставляет функции для получения пути по умолчанию, загрузки,
// сохранения и удаления конфигурации в JSON формате.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Credentials содержит учётные данные, используемые CLI-клиентом.
//
// Token применяется для авторизации запросов к серверу (Authorization: Bearer).
// User — профиль, полученный вместе с токеном; нужен только для вывода.
type Credentials struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user,omitempty"`
}

// LoggedIn сообщает, есть ли сохранённый токен.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.Token != ""
}

// DefaultPath возвращает путь к конфигурационному файлу в домашней директории пользователя.
//
// Формат пути:
//
//	<home>/.animetrack/credentials.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".animetrack", "credentials.json"), nil
}

// Load загружает конфигурацию из указанного файла.
//
// Если файл не существует, возвращает пустую конфигурацию без ошибки.
// Если файл существует, но содержит некорректный JSON, возвращает ошибку.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save сохраняет конфигурацию в указанный файл в JSON формате.
//
// При необходимости создаёт директорию назначения с правами 0700.
// Файл конфигурации записывается с правами 0600.
func Save(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Remove удаляет файл конфигурации. Отсутствие файла не ошибка.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
