// Package api содержит HTTP-клиент для взаимодействия с сервером anime tracker.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов (POST/GET)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *Error с полем msg из тела ответа
//     (если тело не JSON — его текст, если пустое — res.Status).
package api

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером.
//
// Поля:
//   - baseURL: базовый адрес сервера без завершающего слэша.
//   - http: настроенный http.Client (таймаут, транспорт, TLS).
type Client struct {
	baseURL string
	http    *http.Client
}

// Error — ошибочный ответ сервера.
//
// Status — HTTP-статус, Msg — текст из поля msg.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	return e.Msg
}

// StatusOf возвращает HTTP-статус ошибки сервера или 0, если err не *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// Параметры:
//   - baseURL: базовый адрес сервера (например: "http://127.0.0.1:5001").
//   - insecure: не проверять TLS сертификат (только для локальной разработки
//     с самоподписанным сертификатом).
//
// Таймаут запросов 10 секунд.
func NewClient(baseURL string, insecure bool) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// readAPIError читает тело ошибочного ответа сервера.
//
// Сервер отвечает {"msg": "..."}; если тело не такое, в ошибку идёт его текст
// или res.Status для пустого тела.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)

	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Msg != "" {
		return &Error{Status: res.StatusCode, Msg: body.Msg}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Msg: msg}
}

// decodeJSONOrOK декодирует JSON из r в resp.
//
// resp == nil — ничего не делает. Пустое тело (io.EOF) не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
//
// Параметры:
//   - path: путь относительно baseURL (например: "/api/auth/login").
//   - req: объект для сериализации. nil — без тела и без Content-Type.
//   - resp: куда декодировать ответ. nil — ответ не декодируется.
//   - authToken: если непустой, добавляется Authorization: Bearer <token>.
func (c *Client) PostJSON(path string, req any, resp any, authToken string) error {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
		body = &buf
	}

	r, err := http.NewRequest(http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return c.do(r, resp, authToken)
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
//
// Параметры:
//   - path: путь относительно baseURL вместе с query (например: "/api/anime/search?q=x").
//   - resp: куда декодировать ответ. nil — ответ не декодируется.
//   - authToken: если непустой, добавляется Authorization: Bearer <token>.
func (c *Client) GetJSON(path string, resp any, authToken string) error {
	r, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(r, resp, authToken)
}

func (c *Client) do(r *http.Request, resp any, authToken string) error {
	r.Header.Set("Accept", "application/json")
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeJSONOrOK(res.Body, resp)
}
