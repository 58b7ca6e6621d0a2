package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль, если он не передан флагом --password.
//
// fromStdin — пароль читается из STDIN целиком (для скриптов),
// иначе запрашивается в терминале без эха.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password or --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if len(pwBytes) == 0 {
		return "", errors.New("empty password")
	}
	return string(pwBytes), nil
}

// passwordFlags — общие флаги пароля для register и login.
type passwordFlags struct {
	password  string
	fromStdin bool
}

func (p *passwordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.password, "password", "", "password (prompted if omitted)")
	cmd.Flags().BoolVar(&p.fromStdin, "password-stdin", false, "read password from STDIN (for scripts)")
}

func (p *passwordFlags) resolve(cmd *cobra.Command) (string, error) {
	if p.password != "" {
		return p.password, nil
	}
	return ReadPassword(cmd, p.fromStdin)
}
