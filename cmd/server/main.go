// @title           Anime Tracker API
// @version         1.0
// @description     Backend of the anime tracker.
// @description     Provides user registration, login and a proxied AniList catalog.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5001
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа серверного приложения.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml;
//   - открытие хранилища пользователей (postgres, sqlite или mongodb) и его закрытие;
//   - создание клиента AniList и, если включён, кэша в Redis;
//   - создание сервисов, middleware и HTTP-обработчиков;
//   - запуск сервера с заданными таймаутами (HTTPS, если включён TLS);
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/anilist"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/api"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/cache"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/config"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-anime-tracker/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/service"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/server/storage"
	"github.com/IvanChernomyrdin/go-anime-tracker/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-anime-tracker/swagger/docs"
)

func main() {
	boot := logger.NewHTTPLogger().Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		boot.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load("./configs/server.yaml")
	if err != nil {
		boot.Fatal(err)
	}

	httpLogger := logger.New(logger.Options{
		Dir:    cfg.Log.Dir,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	defer httpLogger.Sync()
	sugar := httpLogger.Logger.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// открываем хранилище
	st, err := storage.Open(ctx, cfg.DB, cfg.Migrations.Enabled, httpLogger)
	if err != nil {
		sugar.Fatal(err)
	}
	// делаем отложенное закрытие хранилища
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			sugar.Errorf("close storage: %v", err)
		}
	}()
	sugar.Infof("storage %s opened", st.Driver)

	// каталог аниме: AniList, при необходимости через Redis
	var catalog service.AnimeCatalog = anilist.NewClient(cfg.Anime.Endpoint, cfg.Anime.Timeout, httpLogger)
	if cfg.Cache.Enabled {
		rdb := cache.NewRedisClient(cfg.Cache)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// не фатально: breaker пустит запросы мимо кэша
			sugar.Warnf("redis unavailable at %s: %v", cfg.Cache.Addr, err)
		}
		catalog = cache.NewCachedCatalog(catalog, rdb, cfg.Cache, httpLogger)
	}

	// создаём сервис
	svc := service.NewServices(st.Repositories(), catalog, cfg)
	// создаём jwt
	verifier := middleware.NewJWTVerifier(
		cfg.Auth.JWT.SigningKey,
		cfg.Auth.Issuer,
		cfg.Auth.Audience,
	)
	// создаём хандлер
	handler := api.NewHandler(svc, httpLogger, verifier)
	handler.MaxBodyBytes = cfg.Server.MaxBodyBytes
	// создаём роутер
	router := h.NewRouter(handler)
	//создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			sugar.Infof("server started on https://%s", addr)
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			sugar.Infof("server started on http://%s", addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Errorf("server stopped with error: %v", err)
		return
	}
	sugar.Info("server gracefully stopped")
}

func tlsVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
