// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
)

// ErrEmptyPassword возвращается при попытке захэшировать пустой пароль.
var ErrEmptyPassword = errors.New("empty password")

// ErrPasswordTooLong — пароль длиннее 72 байт, bcrypt такой не принимает.
var ErrPasswordTooLong = errors.New("password too long")

// MaxBcryptPasswordLen — предел длины пароля для bcrypt в байтах.
const MaxBcryptPasswordLen = 72

// Hasher — алгоритм хэширования паролей.
//
// Hash каждый раз генерирует новую соль, поэтому один и тот же пароль
// даёт разные строки. Verify сравнивает пароль с сохранённой строкой.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// NewHasher выбирает алгоритм по конфигу. По умолчанию bcrypt.
func NewHasher(cfg config.PasswordConfig) Hasher {
	if strings.EqualFold(cfg.Hasher, config.HasherArgon2id) {
		return Argon2Hasher{Params: Argon2Params{
			Time:      cfg.Argon2.Time,
			MemoryKiB: cfg.Argon2.MemoryKiB,
			Threads:   cfg.Argon2.Threads,
			KeyLen:    cfg.Argon2.KeyLen,
			SaltLen:   cfg.Argon2.SaltLen,
		}}
	}
	cost := cfg.Bcrypt.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// BcryptHasher — bcrypt с настраиваемой стоимостью (10 по умолчанию).
type BcryptHasher struct {
	Cost int
}

// Hash возвращает bcrypt-строку вида $2a$10$<salt+hash>.
func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxBcryptPasswordLen {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify проверяет пароль. Строки argon2id тоже понимает,
// чтобы смена алгоритма в конфиге не ломала вход старым пользователям.
func (h BcryptHasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

// Argon2Hasher — argon2id с параметрами из конфига.
type Argon2Hasher struct {
	Params Argon2Params
}

func (h Argon2Hasher) Hash(password string) (string, error) {
	return HashPassword(password, h.Params)
}

func (h Argon2Hasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// HashPassword возвращает строку формата:
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
func HashPassword(password string, p Argon2Params) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf(
		"argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.MemoryKiB, p.Time, p.Threads,
		b64Salt, b64Hash,
	)
	return encoded, nil
}

// VerifyPassword определяет алгоритм по формату строки и сверяет пароль.
//
// bcrypt-строки начинаются с "$2", argon2id — с "argon2id$".
// Неверный пароль — это (false, nil), битая строка — ошибка.
func VerifyPassword(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("bcrypt: %w", err)
		}
		return true, nil
	case strings.HasPrefix(encoded, "argon2id$"):
		return verifyArgon2(password, encoded)
	default:
		return false, errors.New("invalid hash format")
	}
}

func verifyArgon2(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		return false, errors.New("invalid hash format")
	}

	// parts[0] = argon2id
	// parts[1] = v=19
	// parts[2] = m=...,t=...,p=...
	// parts[3] = salt
	// parts[4] = hash

	var memory uint32
	var time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, errors.New("invalid params format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, errors.New("invalid salt")
	}

	wantHash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.New("invalid hash")
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(wantHash)))
	return subtle.ConstantTimeCompare(got, wantHash) == 1, nil
}
