//go:build ignore

// launcher поднимает сервер для локальной разработки и собирает CLI-клиент.
//
//	go run launcher.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

const healthURL = "http://127.0.0.1:5001/api/health"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Запуск anime tracker...")

	server := exec.CommandContext(ctx, "go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	if err := waitHealthy(ctx, 60*time.Second); err != nil {
		fmt.Printf("Сервер не поднялся: %v\n", err)
		_ = server.Process.Kill()
		return
	}

	client := "animetrack"
	if runtime.GOOS == "windows" {
		client += ".exe"
	}
	fmt.Println("Сборка клиента...")
	build := exec.Command("go", "build", "-o", client, "./cmd/animetrack")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Printf("Ошибка сборки клиента: %v\n", err)
	}

	fmt.Printf("Сервер запущен. В новом терминале: ./%s register --username <name> --email <email>\n", client)
	_ = server.Wait()
}

// waitHealthy опрашивает /api/health, пока сервер не ответит 200.
func waitHealthy(ctx context.Context, limit time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if res, err := http.DefaultClient.Do(req); err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
