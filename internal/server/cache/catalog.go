// Package cache содержит read-through кэш каталога аниме в Redis.
//
// Чтение идёт через circuit breaker: если Redis недоступен или breaker открыт,
// запрос уходит напрямую в следующий каталог (AniList) и ошибка кэша
// наружу не попадает. Одинаковые промахи склеиваются через singleflight,
// TTL записи получает случайную добавку, чтобы ключи не истекали разом.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"
	models "github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/models"
)

const keyPrefix = "anime:"

// loadTimeout ограничивает общий запрос к каталогу при промахе.
const loadTimeout = 15 * time.Second

// CachedCatalog оборачивает каталог кэшем. Реализует service.AnimeCatalog.
type CachedCatalog struct {
	next service.AnimeCatalog
	rdb  *redis.Client
	cb   *gobreaker.CircuitBreaker
	sf   singleflight.Group
	log  *logger.HTTPLogger

	ttl    time.Duration
	jitter time.Duration
}

// NewRedisClient создаёт клиента Redis по настройкам кэша.
func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewCachedCatalog создаёт кэширующую обёртку над next.
func NewCachedCatalog(next service.AnimeCatalog, rdb *redis.Client, cfg config.CacheConfig, log *logger.HTTPLogger) *CachedCatalog {
	if log == nil {
		log = logger.NewHTTPLogger()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	bc := cfg.Breaker
	st := gobreaker.Settings{
		Name:        "AnimeCacheBreaker",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,

		// когда размыкать: достаточно запросов и большая доля отказов
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests || counts.Requests == 0 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= bc.FailureRatio
		},

		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &CachedCatalog{
		next:   next,
		rdb:    rdb,
		cb:     gobreaker.NewCircuitBreaker(st),
		log:    log,
		ttl:    ttl,
		jitter: ttl / 10,
	}
}

// State возвращает текущее состояние breaker.
func (c *CachedCatalog) State() gobreaker.State {
	return c.cb.State()
}

func (c *CachedCatalog) Search(ctx context.Context, term string, page, perPage int) (models.AnimePage, error) {
	key := fmt.Sprintf("%ssearch:%s:%d:%d", keyPrefix, strings.ToLower(term), page, perPage)
	return readThrough(ctx, c, key, func(ctx context.Context) (models.AnimePage, error) {
		return c.next.Search(ctx, term, page, perPage)
	})
}

func (c *CachedCatalog) Trending(ctx context.Context, page, perPage int) (models.AnimePage, error) {
	key := fmt.Sprintf("%strending:%d:%d", keyPrefix, page, perPage)
	return readThrough(ctx, c, key, func(ctx context.Context) (models.AnimePage, error) {
		return c.next.Trending(ctx, page, perPage)
	})
}

func (c *CachedCatalog) Popular(ctx context.Context, page, perPage int) (models.AnimePage, error) {
	key := fmt.Sprintf("%spopular:%d:%d", keyPrefix, page, perPage)
	return readThrough(ctx, c, key, func(ctx context.Context) (models.AnimePage, error) {
		return c.next.Popular(ctx, page, perPage)
	})
}

func (c *CachedCatalog) ByID(ctx context.Context, id int) (models.AnimeDetails, error) {
	key := fmt.Sprintf("%sid:%d", keyPrefix, id)
	return readThrough(ctx, c, key, func(ctx context.Context) (models.AnimeDetails, error) {
		return c.next.ByID(ctx, id)
	})
}

// readThrough: кэш, при промахе — next с записью результата в кэш.
// Ошибки next не кэшируются.
func readThrough[T any](ctx context.Context, c *CachedCatalog, key string, load func(context.Context) (T, error)) (T, error) {
	if raw, ok := c.get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		c.log.Warn("cache: bad entry", zap.String("key", key))
	}

	// загрузка общая для всех ждущих, поэтому отмена первого запроса её не прерывает;
	// каждый вызывающий ждёт результат не дольше своего ctx
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.set(lctx, key, v)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// get читает ключ через breaker. false — промах или кэш недоступен.
func (c *CachedCatalog) get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.cb.Execute(func() (interface{}, error) {
		res, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		c.log.Warn("cache: read skipped", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if val == nil {
		return nil, false
	}
	return val.([]byte), true
}

func (c *CachedCatalog) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := c.ttl
	if c.jitter > 0 {
		ttl += time.Duration(rand.Int63n(int64(c.jitter)))
	}
	_, err = c.cb.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		c.log.Warn("cache: write skipped", zap.String("key", key), zap.Error(err))
	}
}
