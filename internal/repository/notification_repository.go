package repository

import (
	"context"

	"ai-studyflow-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository works on the model directly; notifications have no
// domain behavior worth an entity/mapper round trip.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userId uuid.UUID) error
}
