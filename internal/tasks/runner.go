package tasks

import (
	"context"
	"sync"
	"time"

	"meetlink_backend/internal/logger"
)

// Runner выполняет побочные эффекты доменных операций (письма, создание
// видеовстреч) вне запроса. Задачи best-effort: падение задачи пишется
// в лог и не влияет на исходную операцию.
type Runner struct {
	sem     chan struct{}
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewRunner создает раннер с ограничением на число одновременных задач
func NewRunner(maxConcurrent int, timeout time.Duration) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		sem:     make(chan struct{}, maxConcurrent),
		timeout: timeout,
	}
}

// Submit запускает именованную задачу в фоне. Контекст запроса не
// передается: задача живет дольше запроса и получает свой контекст
// с таймаутом.
func (r *Runner) Submit(name string, job func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.sem <- struct{}{}
		defer func() { <-r.sem }()

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Background task panicked", "task", name, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := job(ctx); err != nil {
			logger.Warn("Background task failed", "task", name, "error", err)
		}
	}()
}

// Wait блокируется до завершения всех запущенных задач. Используется
// при остановке приложения и в тестах.
func (r *Runner) Wait() {
	r.wg.Wait()
}
