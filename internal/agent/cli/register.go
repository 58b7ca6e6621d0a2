package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Сервер сразу выдаёт токен, поэтому после регистрации пользователь уже вошёл:
// токен и профиль сохраняются в локальный конфиг.
//
// Пароль можно передать флагом --password, через STDIN (--password-stdin)
// или ввести в терминале.
//
// Пример использования:
//
//	animetrack register --username alice --email alice@example.com
func NewRegisterCmd(app *App) *cobra.Command {
	var username, email string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  animetrack register --username alice --email alice@example.com
  echo "secret" | animetrack register --username alice --email alice@example.com --password-stdin
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.resolve(cmd)
			if err != nil {
				return err
			}

			resp, err := app.Client().Register(username, email, password)
			if err != nil {
				return err
			}
			if err := app.saveAuth(resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registration successful, logged in as %s\n", resp.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	pw.bind(cmd)
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
