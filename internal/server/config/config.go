// Package config отвечает за:
// - чтение server.yaml
// - подстановку переменных окружения вида ${JWT_SECRET}
// - переопределение ключевых настроек из окружения (PORT, JWT_SECRET, MONGO_URI ...)
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert/yaml"
	"golang.org/x/crypto/bcrypt"
)

// Поддерживаемые драйверы хранилища пользователей.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongodb"
)

// Поддерживаемые алгоритмы хэширования паролей.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// Config — корневая структура всего конфига сервера.
type Config struct {
	Env        string           `yaml:"env"` // dev|stage|prod
	Server     ServerConfig     `yaml:"server"`
	TLS        TLSConfig        `yaml:"tls"`
	DB         DBConfig         `yaml:"db"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Auth       AuthConfig       `yaml:"auth"`
	Password   PasswordConfig   `yaml:"password"`
	Log        LogConfig        `yaml:"log"`
	Anime      AnimeConfig      `yaml:"anime"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig — настройки HTTPS. Без TLS сервер слушает обычный HTTP.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"` // "1.2"|"1.3" (1.0/1.1 запрещаем т.к. устарели)
}

// DBConfig — настройки хранилища пользователей.
type DBConfig struct {
	Driver          string        `yaml:"driver"`   // postgres|sqlite|mongodb
	DSN             string        `yaml:"dsn"`      // строка подключения / путь к файлу sqlite / mongodb URI
	Database        string        `yaml:"database"` // имя базы для mongodb
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	QueryTimeout    time.Duration `yaml:"query_timeout"` // таймаут на запросы к БД
}

// MigrationsConfig — настройки миграций БД.
type MigrationsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AuthConfig — настройки выпуска токенов.
type AuthConfig struct {
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl"`
	JWT      JWTConfig     `yaml:"jwt"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // сейчас поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // может содержать ${JWT_SECRET}
}

// PasswordConfig — настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher string       `yaml:"hasher"` // bcrypt|argon2id
	Argon2 Argon2Config `yaml:"argon2"`
	Bcrypt BcryptConfig `yaml:"bcrypt"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|console
	Dir    string `yaml:"dir"`
}

// AnimeConfig — настройки клиента AniList.
type AnimeConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	Timeout        time.Duration `yaml:"timeout"`
	DefaultPerPage int           `yaml:"default_per_page"`
	MaxPerPage     int           `yaml:"max_per_page"`
}

// CacheConfig — read-through кэш каталога в Redis.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Breaker  BreakerConfig `yaml:"breaker"`
}

// BreakerConfig — параметры circuit breaker вокруг Redis.
type BreakerConfig struct {
	MaxRequests  uint32        `yaml:"max_requests"` // запросов в half-open
	Interval     time.Duration `yaml:"interval"`     // окно сброса счётчиков
	Timeout      time.Duration `yaml:"timeout"`      // сколько держим open
	MinRequests  uint32        `yaml:"min_requests"`
	FailureRatio float64       `yaml:"failure_ratio"`
}

// envOverrides — переменные окружения, которые перекрывают значения из yaml.
type envOverrides struct {
	Port      int    `env:"PORT"`
	JWTSecret string `env:"JWT_SECRET"`
	MongoURI  string `env:"MONGO_URI"`
	DBDriver  string `env:"DB_DRIVER"`
	DBDSN     string `env:"DB_DSN"`
	RedisAddr string `env:"REDIS_ADDR"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, применяет переопределения из окружения,
// проставляет дефолты и валидирует.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}

	// Подставляем переменные окружения в текст YAML:
	// signing_key: "${JWT_SECRET}" -> signing_key: "реальное_значение"
	expanded := ExpandEnvStrict(string(raw))
	raw = []byte(expanded)

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envVarRe = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана — оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := envVarRe.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyEnvOverrides переопределяет настройки переменными окружения без ${...} в yaml.
// Например PORT=9090 переопределит server.port, MONGO_URI переключит хранилище на mongodb.
func (c *Config) ApplyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Port > 0 {
		c.Server.Port = o.Port
	}
	if o.JWTSecret != "" {
		c.Auth.JWT.SigningKey = o.JWTSecret
	}
	if o.MongoURI != "" {
		c.DB.Driver = DriverMongo
		c.DB.DSN = o.MongoURI
	}
	// явные DB_* сильнее MONGO_URI
	if o.DBDriver != "" {
		c.DB.Driver = o.DBDriver
	}
	if o.DBDSN != "" {
		c.DB.DSN = o.DBDSN
	}
	if o.RedisAddr != "" {
		c.Cache.Addr = o.RedisAddr
	}
	return nil
}

// ApplyDefaults — дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverPostgres
	}
	if cfg.DB.Database == "" {
		cfg.DB.Database = "animetracker"
	}
	if cfg.DB.QueryTimeout == 0 {
		cfg.DB.QueryTimeout = 5 * time.Second
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = time.Hour
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = HasherBcrypt
	}
	if cfg.Password.Bcrypt.Cost == 0 {
		cfg.Password.Bcrypt.Cost = bcrypt.DefaultCost
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Anime.Endpoint == "" {
		cfg.Anime.Endpoint = "https://graphql.anilist.co"
	}
	if cfg.Anime.Timeout == 0 {
		cfg.Anime.Timeout = 10 * time.Second
	}
	if cfg.Anime.DefaultPerPage == 0 {
		cfg.Anime.DefaultPerPage = 10
	}
	if cfg.Anime.MaxPerPage == 0 {
		cfg.Anime.MaxPerPage = 50
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Cache.Breaker.MaxRequests == 0 {
		cfg.Cache.Breaker.MaxRequests = 1
	}
	if cfg.Cache.Breaker.Interval == 0 {
		cfg.Cache.Breaker.Interval = 10 * time.Second
	}
	if cfg.Cache.Breaker.Timeout == 0 {
		cfg.Cache.Breaker.Timeout = 30 * time.Second
	}
	if cfg.Cache.Breaker.MinRequests == 0 {
		cfg.Cache.Breaker.MinRequests = 5
	}
	if cfg.Cache.Breaker.FailureRatio == 0 {
		cfg.Cache.Breaker.FailureRatio = 0.5
	}
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так — возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	// Базовая проверка сервера
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
		if c.TLS.MinVersion == "" {
			c.TLS.MinVersion = "1.2"
		}
		// TLS 1.0/1.1 считаются небезопасными — запрещаем
		if c.TLS.MinVersion == "1.0" || c.TLS.MinVersion == "1.1" {
			return fmt.Errorf("tls.min_version=%s небезопасен; используй 1.2 или 1.3", c.TLS.MinVersion)
		}
	}

	// Хранилище
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("db.driver должен быть postgres|sqlite|mongodb (сейчас %q)", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn обязателен")
	}
	if strings.Contains(c.DB.DSN, "${") {
		return fmt.Errorf("db.dsn содержит неподставленную переменную: %q", c.DB.DSN)
	}

	// JWT
	alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm))
	if alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	if key == "" {
		return errors.New("auth.jwt.signing_key обязателен (через ${JWT_SECRET} или прямо строкой)")
	}
	// Если ${JWT_SECRET} не подставился — значит переменная окружения не задана
	if strings.Contains(key, "${") && strings.Contains(key, "}") {
		return fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать JWT_SECRET)", key)
	}
	// Для HS256 ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl должен быть > 0")
	}

	// Хэширование паролей
	switch strings.ToLower(c.Password.Hasher) {
	case HasherArgon2id:
		if c.Password.Argon2.Time == 0 || c.Password.Argon2.MemoryKiB == 0 || c.Password.Argon2.Threads == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
		if c.Password.Argon2.KeyLen == 0 || c.Password.Argon2.SaltLen == 0 {
			return errors.New("password.argon2.key_len и salt_len должны быть > 0")
		}
	case HasherBcrypt:
		if c.Password.Bcrypt.Cost < bcrypt.MinCost || c.Password.Bcrypt.Cost > bcrypt.MaxCost {
			return fmt.Errorf("password.bcrypt.cost должен быть в диапазоне %d..%d (сейчас %d)",
				bcrypt.MinCost, bcrypt.MaxCost, c.Password.Bcrypt.Cost)
		}
	default:
		return fmt.Errorf("password.hasher должен быть argon2id|bcrypt (сейчас %q)", c.Password.Hasher)
	}

	// Каталог аниме
	if c.Anime.DefaultPerPage <= 0 || c.Anime.MaxPerPage <= 0 || c.Anime.DefaultPerPage > c.Anime.MaxPerPage {
		return fmt.Errorf("anime.default_per_page (%d) должен быть в диапазоне 1..max_per_page (%d)",
			c.Anime.DefaultPerPage, c.Anime.MaxPerPage)
	}

	// Кэш
	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			return errors.New("cache.addr обязателен при cache.enabled=true")
		}
		if c.Cache.Breaker.FailureRatio <= 0 || c.Cache.Breaker.FailureRatio > 1 {
			return fmt.Errorf("cache.breaker.failure_ratio должен быть в (0,1] (сейчас %v)", c.Cache.Breaker.FailureRatio)
		}
	}

	return nil
}
