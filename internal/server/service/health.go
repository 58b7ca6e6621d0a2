package service

import (
	"context"
	"time"
)

// HealthService проверяет, что хранилище отвечает.
type HealthService struct {
	repo    HealthRepo
	timeout time.Duration
}

func NewHealthService(repo HealthRepo, timeout time.Duration) *HealthService {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthService{repo: repo, timeout: timeout}
}

// Check пингует хранилище с ограничением по времени.
func (s *HealthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Ping(ctx)
}
