package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/notification"
)

// Service persists notifications on a background goroutine. Delivery is
// best-effort: a failed write is logged and dropped, it never surfaces to
// the caller.
type Service struct {
	repo    notification.NotificationRepository
	timeout time.Duration
}

func NewService(repo notification.NotificationRepository) *Service {
	return &Service{repo: repo, timeout: 5 * time.Second}
}

func (s *Service) Notify(userID, notificationType string, payload map[string]any) {
	n := notification.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      notificationType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.repo.Create(ctx, n); err != nil {
			slog.Error("Failed to store notification",
				"user_id", n.UserID,
				"type", n.Type,
				"error", err,
			)
		}
	}()
}
