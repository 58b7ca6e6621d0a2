package tests

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	crypt "github.com/IvanChernomyrdin/go-anime-tracker/internal/server/crypto"
)

func defaultParams() crypt.Argon2Params {
	return crypt.Argon2Params{
		Time:      1,
		MemoryKiB: 32 * 1024,
		Threads:   1,
		KeyLen:    32,
		SaltLen:   16,
	}
}

// Хэширование и успешная проверка
func TestHashAndVerifyPassword_OK(t *testing.T) {
	params := defaultParams()
	password := "super-secret-password"

	hash, err := crypt.HashPassword(password, params)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := crypt.VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}

	if !ok {
		t.Fatal("expected password to be valid")
	}
}

// Неверный пароль
func TestVerifyPassword_InvalidPassword(t *testing.T) {
	params := defaultParams()

	hash, err := crypt.HashPassword("correct-password", params)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := crypt.VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}

	if ok {
		t.Fatal("expected password to be invalid")
	}
}

// Пустой пароль
func TestHashPassword_EmptyPassword(t *testing.T) {
	_, err := crypt.HashPassword("", defaultParams())
	if err == nil {
		t.Fatal("expected error for empty password")
	}

	_, err = crypt.BcryptHasher{Cost: bcrypt.MinCost}.Hash("")
	require.ErrorIs(t, err, crypt.ErrEmptyPassword)
}

// bcrypt режет пароли длиннее 72 байт, argon2id нет
func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	h := crypt.BcryptHasher{Cost: bcrypt.MinCost}

	_, err := h.Hash(strings.Repeat("p", crypt.MaxBcryptPasswordLen+1))
	require.ErrorIs(t, err, crypt.ErrPasswordTooLong)

	hash, err := h.Hash(strings.Repeat("p", crypt.MaxBcryptPasswordLen))
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	long := strings.Repeat("p", 100)
	hash, err = crypt.HashPassword(long, defaultParams())
	require.NoError(t, err)
	ok, err := crypt.VerifyPassword(long, hash)
	require.NoError(t, err)
	require.True(t, ok)
}

// Битый формат хэша
func TestVerifyPassword_InvalidFormat(t *testing.T) {
	_, err := crypt.VerifyPassword("password", "not-a-valid-hash")
	if err == nil {
		t.Fatal("expected error for invalid hash format")
	}
}

// Проверка: соль разная (хэши разные)
func TestHashPassword_DifferentSalt(t *testing.T) {
	params := defaultParams()
	password := "same-password"

	h1, _ := crypt.HashPassword(password, params)
	h2, _ := crypt.HashPassword(password, params)

	if h1 == h2 {
		t.Fatal("expected different hashes for same password")
	}
}

// bcrypt: стоимость 10 по умолчанию, соль каждый раз новая
func TestBcryptHasher_DefaultCostAndSalt(t *testing.T) {
	h := crypt.NewHasher(config.PasswordConfig{Hasher: config.HasherBcrypt})

	h1, err := h.Hash("secret")
	require.NoError(t, err)
	h2, err := h.Hash("secret")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)

	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	require.Equal(t, 10, cost)

	ok, err := h.Verify("secret", h1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong", h2)
	require.NoError(t, err)
	require.False(t, ok)
}

// argon2id выбирается из конфига и пишет свой префикс
func TestNewHasher_Argon2id(t *testing.T) {
	h := crypt.NewHasher(config.PasswordConfig{
		Hasher: config.HasherArgon2id,
		Argon2: config.Argon2Config{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16},
	})

	enc, err := h.Hash("secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(enc, "argon2id$"))

	ok, err := h.Verify("secret", enc)
	require.NoError(t, err)
	require.True(t, ok)
}

// Смена алгоритма в конфиге не ломает проверку старых хэшей
func TestVerifyPassword_DetectsAlgorithm(t *testing.T) {
	bc, err := crypt.BcryptHasher{Cost: bcrypt.MinCost}.Hash("pw")
	require.NoError(t, err)
	ar, err := crypt.HashPassword("pw", defaultParams())
	require.NoError(t, err)

	argon := crypt.Argon2Hasher{Params: defaultParams()}
	ok, err := argon.Verify("pw", bc)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = crypt.BcryptHasher{Cost: bcrypt.MinCost}.Verify("pw", ar)
	require.NoError(t, err)
	require.True(t, ok)
}
