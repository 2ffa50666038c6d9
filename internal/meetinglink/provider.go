package meetinglink

import (
	"context"
	"time"
)

// Meeting - созданная видеовстреча у внешнего провайдера
type Meeting struct {
	ExternalID string
	JoinURL    string
	Password   string
}

// Provider создает и удаляет видеовстречи. Ошибки провайдера не должны
// ломать доменные операции, вызывающая сторона обрабатывает их best-effort.
type Provider interface {
	Create(ctx context.Context, topic string, startTime time.Time, durationMinutes int) (*Meeting, error)
	Delete(ctx context.Context, externalID string) error
}
