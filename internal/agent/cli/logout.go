package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/config"
)

// NewLogoutCmd создаёт команду выхода.
//
// Сервер токены не хранит, поэтому выход — это удаление локального файла.
// Сам токен остаётся валидным до истечения срока.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Удалить сохранённый токен",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Remove(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}
