package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) error
}

// Notifier is the fire-and-forget sink consumed by the engine. Failures are
// logged by the implementation and never roll back the triggering business
// transaction.
type Notifier interface {
	Notify(userID, notificationType string, payload map[string]any)
}
