// Package cli реализует командный интерфейс (CLI) клиентского приложения animetrack.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (токен) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/api"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/config"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// DefaultServerURL — адрес сервера по умолчанию.
const DefaultServerURL = "http://127.0.0.1:5001"

// ErrNotLoggedIn — команда требует токен, а его нет.
var ErrNotLoggedIn = errors.New("not logged in (run: animetrack login)")

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:5001").
	ServerURL string
	// Insecure — не проверять TLS сертификат сервера.
	Insecure bool

	// CredsPath — путь к файлу с сохранённым токеном.
	CredsPath string
	// Creds — загруженные учётные данные. Может быть nil до PersistentPreRunE.
	Creds *config.Credentials
}

// Client создаёт API-клиент с настройками приложения.
func (a *App) Client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

// Token возвращает сохранённый токен или ErrNotLoggedIn.
func (a *App) Token() (string, error) {
	if !a.Creds.LoggedIn() {
		return "", ErrNotLoggedIn
	}
	return a.Creds.Token, nil
}

// saveAuth запоминает токен и профиль и пишет их в файл.
func (a *App) saveAuth(resp models.AuthResponse) error {
	user := resp.User
	a.Creds = &config.Credentials{Token: resp.Token, User: &user}
	return config.Save(a.CredsPath, a.Creds)
}

// explain делает ответ 401 понятнее: токен истёк или отозван.
func explain(err error) error {
	if api.StatusOf(err) == http.StatusUnauthorized {
		return fmt.Errorf("%w (run: animetrack login)", err)
	}
	return err
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE определяется путь к файлу учётных данных и загружается токен.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{ServerURL: DefaultServerURL}

	cmd := &cobra.Command{
		Use:           "animetrack",
		Short:         "animetrack — консольный клиент anime tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `animetrack — консольный клиент anime tracker.

Команды:
  register  Регистрация нового пользователя (сразу сохраняет токен)
  login     Вход (сохраняет токен)
  me        Профиль текущего пользователя
  logout    Удалить сохранённый токен
  anime     Каталог аниме: trending, popular, search, show
  version   Версия и дата сборки

Примеры:
  animetrack register --username alice --email alice@example.com
  animetrack login --email alice@example.com
  animetrack anime search "cowboy bebop"
  animetrack anime show 1
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return fmt.Errorf("load credentials %s: %w", app.CredsPath, err)
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", DefaultServerURL, "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "credentials file (default ~/.animetrack/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewAnimeCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
