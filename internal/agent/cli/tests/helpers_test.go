package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/config"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

var alice = models.PublicUser{ID: "u1", Username: "alice", Email: "a@x.com"}

// newApp — App с временным файлом кредов и заданным токеном.
func newApp(t *testing.T, serverURL, token string) *cli.App {
	t.Helper()
	return &cli.App{
		ServerURL: serverURL,
		CredsPath: filepath.Join(t.TempDir(), "credentials.json"),
		Creds:     &config.Credentials{Token: token},
	}
}

// run выполняет команду и возвращает вывод.
func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// withPassword подменяет ввод пароля из терминала.
func withPassword(t *testing.T, pw string) {
	t.Helper()
	orig := cli.ReadPassword
	t.Cleanup(func() { cli.ReadPassword = orig })

	cli.ReadPassword = func(*cobra.Command, bool) (string, error) { return pw, nil }
}
