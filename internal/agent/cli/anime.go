package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

// NewAnimeCmd создаёт группу команд каталога аниме.
//
// Все подкоманды требуют сохранённый токен.
//
//	animetrack anime trending --per-page 5
//	animetrack anime popular --page 2
//	animetrack anime search cowboy bebop
//	animetrack anime show 1
func NewAnimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anime",
		Short: "Каталог аниме (AniList через сервер)",
	}

	cmd.AddCommand(newListCmd(app, "trending", "Популярное сейчас",
		func(token string, page, perPage int, _ []string) (models.AnimePage, error) {
			return app.Client().Trending(token, page, perPage)
		}))
	cmd.AddCommand(newListCmd(app, "popular", "Популярное за всё время",
		func(token string, page, perPage int, _ []string) (models.AnimePage, error) {
			return app.Client().Popular(token, page, perPage)
		}))
	cmd.AddCommand(newListCmd(app, "search <title...>", "Поиск по названию",
		func(token string, page, perPage int, args []string) (models.AnimePage, error) {
			return app.Client().Search(token, strings.Join(args, " "), page, perPage)
		}))
	cmd.AddCommand(newShowCmd(app))

	return cmd
}

type listFunc func(token string, page, perPage int, args []string) (models.AnimePage, error)

func newListCmd(app *App, use, short string, list listFunc) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Token()
			if err != nil {
				return err
			}

			res, err := list(token, page, perPage, args)
			if err != nil {
				return explain(err)
			}

			printPage(cmd.OutOrStdout(), res)
			return nil
		},
	}

	if strings.HasPrefix(use, "search") {
		cmd.Args = cobra.MinimumNArgs(1)
	} else {
		cmd.Args = cobra.NoArgs
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number, from 1")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "items per page")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Карточка аниме со студиями и связями",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid anime id %q", args[0])
			}

			token, err := app.Token()
			if err != nil {
				return err
			}

			d, err := app.Client().ByID(token, id)
			if err != nil {
				return explain(err)
			}

			printDetails(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func printPage(out io.Writer, p models.AnimePage) {
	if len(p.Media) == 0 {
		fmt.Fprintln(out, "nothing found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tEPISODES\tSCORE")
	for _, a := range p.Media {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.Title, optInt(a.Year), optInt(a.Episodes), optInt(a.Score))
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "page %d of %d, total %d\n", p.PageInfo.CurrentPage, p.PageInfo.LastPage, p.PageInfo.Total)
}

func printDetails(out io.Writer, d models.AnimeDetails) {
	fmt.Fprintf(out, "%s (#%d)\n", d.Title, d.ID)
	fmt.Fprintf(out, "Status: %s\nYear: %s\nEpisodes: %s\nScore: %s\n",
		d.Status, optInt(d.Year), optInt(d.Episodes), optInt(d.Score))
	if len(d.Genres) > 0 {
		fmt.Fprintf(out, "Genres: %s\n", strings.Join(d.Genres, ", "))
	}
	if len(d.Studios) > 0 {
		fmt.Fprintf(out, "Studios: %s\n", strings.Join(d.Studios, ", "))
	}
	for _, r := range d.Relations {
		fmt.Fprintf(out, "  %s: %s (#%d)\n", strings.ToLower(r.RelationType), r.Title, r.ID)
	}
	if d.Description != "" {
		fmt.Fprintf(out, "\n%s\n", d.Description)
	}
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
