package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя.
//
// Команда получает токен на сервере и сохраняет его вместе с профилем
// в локальный конфигурационный файл. При ошибке файл не трогается.
//
// Пример использования:
//
//	animetrack login --email alice@example.com
func NewLoginCmd(app *App) *cobra.Command {
	var email string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Вход пользователя (получить и сохранить токен)",
		Long: `Вход пользователя.

Пример:
  animetrack login --email alice@example.com
  animetrack login --email alice@example.com --password secret
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.resolve(cmd)
			if err != nil {
				return err
			}

			resp, err := app.Client().Login(email, password)
			if err != nil {
				return err
			}
			if err := app.saveAuth(resp); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (token saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	pw.bind(cmd)
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
