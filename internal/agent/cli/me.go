package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMeCmd создаёт команду, которая показывает профиль по сохранённому токену.
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Профиль текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			resp, err := app.Client().Me(token)
			if err != nil {
				return explain(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nusername: %s\nemail: %s\n",
				resp.User.ID, resp.User.Username, resp.User.Email)
			return nil
		},
	}
}
