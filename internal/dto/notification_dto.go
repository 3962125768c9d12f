package dto

import (
	"time"

	"github.com/google/uuid"
)

type ShowNotificationResponse struct {
	Id        uuid.UUID              `json:"id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []ShowNotificationResponse `json:"notifications"`
	UnreadCount   int64                      `json:"unread_count"`
}
