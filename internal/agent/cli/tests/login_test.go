package tests

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/agent/config"
	serr "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/errors"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

func TestNewLoginCmd_Success_SavesTokenAndPrintsMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@x.com", req.Email)
		require.Equal(t, "secret", req.Password)

		writeJSON(w, http.StatusOK, models.AuthResponse{Token: "tok-2", User: alice})
	})
	srv := newServer(t, mux)
	app := newApp(t, srv.URL, "old-token")

	out, err := run(cli.NewLoginCmd(app), "--email", "a@x.com", "--password", "secret")
	require.NoError(t, err)
	require.Contains(t, out, "login ok (token saved)")

	// токен в файле и в состоянии приложения
	loaded, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "tok-2", loaded.Token)
	require.Equal(t, "tok-2", app.Creds.Token)
}

func TestNewLoginCmd_MissingRequiredFlags_ReturnsError(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", "")

	_, err := run(cli.NewLoginCmd(app), "--password", "secret")
	if err == nil {
		t.Fatalf("%s, got nil", serr.ErrExpectedError.Error())
	}
	require.Contains(t, err.Error(), "required")
}

func TestNewLoginCmd_ServerReturnsError_DoesNotWriteCredsFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Msg: serr.MsgInvalidCredentials})
	})
	srv := newServer(t, mux)
	app := newApp(t, srv.URL, "")

	_, err := run(cli.NewLoginCmd(app), "--email", "a@x.com", "--password", "wrong")
	require.EqualError(t, err, serr.MsgInvalidCredentials)

	// токены не сохраняются при ошибке логина
	_, statErr := os.Stat(app.CredsPath)
	require.True(t, os.IsNotExist(statErr))
}
