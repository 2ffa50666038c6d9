package meetinglink

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"meetlink_backend/internal/logger"
)

// DisabledProvider используется без настроенных Zoom-кредов: отдает
// placeholder-ссылку, чтобы сценарий принятия встречи работал в dev-среде
type DisabledProvider struct{}

func NewDisabledProvider() *DisabledProvider {
	return &DisabledProvider{}
}

func (p *DisabledProvider) Create(ctx context.Context, topic string, startTime time.Time, durationMinutes int) (*Meeting, error) {
	logger.Warn("Meeting link provider not configured, returning placeholder link", "topic", topic)
	id := time.Now().UnixMilli()
	return &Meeting{
		ExternalID: fmt.Sprintf("%d", id),
		JoinURL:    fmt.Sprintf("https://zoom.us/j/%d", id),
		Password:   fmt.Sprintf("%06d", rand.Intn(1000000)),
	}, nil
}

func (p *DisabledProvider) Delete(ctx context.Context, externalID string) error {
	return nil
}
