package postgresql

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

// Create implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) error {
	q := database.GetQuerier(ctx, r.db)

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (id, user_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = q.Exec(ctx, query, n.ID, n.UserID, n.Type, payload, n.CreatedAt)
	return err
}
