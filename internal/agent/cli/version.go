package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCmd создаёт команду, которая печатает версию и дату сборки
// (задаются через -ldflags), а также версию Go и платформу.
//
//	animetrack version
func NewVersionCmd(buildVersion, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию и дату сборки",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(),
				"version=%s\nbuild_date=%s\ngo=%s %s/%s\n",
				buildVersion, buildDate,
				runtime.Version(), runtime.GOOS, runtime.GOARCH,
			)
		},
	}
}
