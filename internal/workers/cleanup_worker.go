package workers

import (
	"meetlink_backend/internal/logger"
	"meetlink_backend/internal/repositories"

	"github.com/robfig/cron/v3"
)

// CleanupWorker по расписанию вычищает протухшие refresh-токены
// и истекшие токены сброса пароля.
type CleanupWorker struct {
	cron             *cron.Cron
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewCleanupWorker(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *CleanupWorker {
	return &CleanupWorker{
		cron:             cron.New(),
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (w *CleanupWorker) Start() error {
	// каждый час
	if _, err := w.cron.AddFunc("@hourly", w.runCleanup); err != nil {
		return err
	}

	w.cron.Start()
	logger.Info("Cleanup worker started", "schedule", "@hourly")
	return nil
}

// Stop останавливает планировщик и ждет завершения текущей задачи.
func (w *CleanupWorker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info("Cleanup worker stopped")
}

func (w *CleanupWorker) runCleanup() {
	deleted, err := w.refreshTokenRepo.DeleteExpired()
	if err != nil {
		logger.WithError(err).Error("Failed to delete expired refresh tokens")
	} else if deleted > 0 {
		logger.Info("Deleted expired refresh tokens", "count", deleted)
	}

	cleared, err := w.userRepo.ClearExpiredResetTokens()
	if err != nil {
		logger.WithError(err).Error("Failed to clear expired reset tokens")
	} else if cleared > 0 {
		logger.Info("Cleared expired reset tokens", "count", cleared)
	}
}

// RunOnce выполняет одну итерацию очистки вне расписания.
func (w *CleanupWorker) RunOnce() {
	w.runCleanup()
}
