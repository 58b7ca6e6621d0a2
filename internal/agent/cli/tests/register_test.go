package tests

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/config"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

func registerServer(t *testing.T, wantPassword string) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req models.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.Username)
		require.Equal(t, "a@x.com", req.Email)
		require.Equal(t, wantPassword, req.Password)

		writeJSON(w, http.StatusCreated, models.AuthResponse{Token: "tok-1", User: alice})
	})
	return mux
}

func TestNewRegisterCmd_Success_SavesToken(t *testing.T) {
	srv := newServer(t, registerServer(t, "secret"))
	app := newApp(t, srv.URL, "")

	out, err := run(cli.NewRegisterCmd(app),
		"--username", "alice", "--email", "a@x.com", "--password", "secret")
	require.NoError(t, err)
	require.Equal(t, "registration successful, logged in as alice\n", out)

	saved, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "tok-1", saved.Token)
	require.Equal(t, alice, *saved.User)
}

func TestNewRegisterCmd_PasswordFromStdin(t *testing.T) {
	srv := newServer(t, registerServer(t, "from stdin"))
	app := newApp(t, srv.URL, "")

	cmd := cli.NewRegisterCmd(app)
	cmd.SetIn(strings.NewReader("from stdin\n"))

	_, err := run(cmd, "--username", "alice", "--email", "a@x.com", "--password-stdin")
	require.NoError(t, err)
}

func TestNewRegisterCmd_PromptsPassword(t *testing.T) {
	withPassword(t, "prompted")

	srv := newServer(t, registerServer(t, "prompted"))
	app := newApp(t, srv.URL, "")

	_, err := run(cli.NewRegisterCmd(app), "--username", "alice", "--email", "a@x.com")
	require.NoError(t, err)
}

func TestNewRegisterCmd_MissingRequiredFlags_ReturnsError(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", "")

	_, err := run(cli.NewRegisterCmd(app), "--email", "a@x.com", "--password", "secret")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestNewRegisterCmd_Duplicate_DoesNotWriteCredsFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Msg: "User already exists"})
	})
	srv := newServer(t, mux)
	app := newApp(t, srv.URL, "")

	_, err := run(cli.NewRegisterCmd(app),
		"--username", "alice", "--email", "a@x.com", "--password", "secret")
	require.EqualError(t, err, "User already exists")

	_, statErr := os.Stat(app.CredsPath)
	require.True(t, os.IsNotExist(statErr))
}
