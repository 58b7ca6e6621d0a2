package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/api"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

const signingKey = "supersecretkeysupersecretkey123456" // >= 32

type testDeps struct {
	users   *svcmocks.MockUsersRepo
	health  *svcmocks.MockHealthRepo
	catalog *svcmocks.MockAnimeCatalog
	cfg     *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:   "issuer",
			Audience: "audience",
			TokenTTL: time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: signingKey,
			},
		},
		Password: config.PasswordConfig{
			Hasher: config.HasherBcrypt,
			Bcrypt: config.BcryptConfig{Cost: bcrypt.MinCost},
		},
		Anime: config.AnimeConfig{DefaultPerPage: 10, MaxPerPage: 50},
	}
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := testDeps{
		users:   svcmocks.NewMockUsersRepo(ctrl),
		health:  svcmocks.NewMockHealthRepo(ctrl),
		catalog: svcmocks.NewMockAnimeCatalog(ctrl),
		cfg:     testConfig(),
	}

	svc := service.NewServices(service.Repositories{
		Users:  deps.users,
		Health: deps.health,
	}, deps.catalog, deps.cfg)

	verifier := middleware.NewJWTVerifier(signingKey, deps.cfg.Auth.Issuer, deps.cfg.Auth.Audience)
	log := logger.New(logger.Options{Dir: t.TempDir()})

	return api.NewHandler(svc, log, verifier), deps
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set(api.ContentType, api.JsonContentType)
	return req
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Msg
}
