package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-studyflow-be/internal/dto"
	"ai-studyflow-be/internal/model"
	"ai-studyflow-be/internal/pkg/logger"
	"ai-studyflow-be/internal/pkg/mailer"
	"ai-studyflow-be/internal/repository"
	"ai-studyflow-be/internal/repository/specification"
	"ai-studyflow-be/internal/repository/unitofwork"
	"ai-studyflow-be/internal/websocket"
	"ai-studyflow-be/pkg/events"
	pkgNats "ai-studyflow-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type INotificationService interface {
	// StartConsuming subscribes to the event stream and turns job lifecycle
	// events into stored notifications plus websocket pushes.
	StartConsuming() error

	List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ListNotificationsResponse, error)
	MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type notificationService struct {
	repo       repository.NotificationRepository
	uowFactory unitofwork.RepositoryFactory
	subscriber *pkgNats.Subscriber
	hub        *websocket.Hub
	mail       mailer.IEmailService
	log        logger.ILogger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pkgNats.Subscriber,
	hub *websocket.Hub,
	mail mailer.IEmailService,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		repo:       repo,
		uowFactory: uowFactory,
		subscriber: subscriber,
		hub:        hub,
		mail:       mail,
		log:        log,
	}
}

func (s *notificationService) StartConsuming() error {
	if s.subscriber == nil {
		s.log.Warn("NotificationService", "no event subscriber configured, notifications disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("events.>", "notification-consumer", s.handleEvent)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	rawUserId, _ := payload["user_id"].(string)
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		// Events without a target user are not notifiable; drop them.
		return nil
	}

	var title, body string
	switch event.EventType() {
	case events.TypeJobCompleted:
		title = "Background job finished"
		body = "A background job completed successfully."
		if jobType, ok := payload["job_type"].(string); ok && jobType == "MATERIAL_PROCESSING" {
			title = "Material processed"
			body = "Your material is ready to use."
		}
	case events.TypeJobFailed:
		title = "Background job failed"
		body = "A background job could not finish."
		if msg, ok := payload["error_message"].(string); ok && msg != "" {
			body = msg
		}
	case events.TypePlanReady:
		title = "Learning plan ready"
		body = "Your learning plan has been generated."
		if planTitle, ok := payload["title"].(string); ok && planTitle != "" {
			body = "Your plan \"" + planTitle + "\" is ready to study."
		}
	default:
		return nil
	}

	data, _ := json.Marshal(payload)
	notification := model.Notification{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      event.EventType(),
		Title:     title,
		Body:      body,
		Data:      datatypes.JSON(data),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Send(userId, notification)
	}

	if event.EventType() == events.TypePlanReady && s.mail != nil {
		s.sendPlanReadyMail(ctx, userId, payload)
	}

	return nil
}

func (s *notificationService) sendPlanReadyMail(ctx context.Context, userId uuid.UUID, payload map[string]interface{}) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil || user == nil || user.Email == "" {
		return
	}

	planTitle, _ := payload["title"].(string)
	planId, _ := payload["plan_id"].(string)

	// Mail delivery is auxiliary; never fail the event on it.
	if err := s.mail.SendPlanReady(user.Email, planTitle, planId); err != nil {
		s.log.Warn("NotificationService", "failed to send plan ready mail", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *notificationService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.ListNotificationsResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.repo.ListByUser(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ShowNotificationResponse, len(notifications))
	var unread int64
	for i, n := range notifications {
		var data map[string]interface{}
		if len(n.Data) > 0 {
			_ = json.Unmarshal(n.Data, &data)
		}
		items[i] = dto.ShowNotificationResponse{
			Id:        n.Id,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Body,
			Data:      data,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
		if n.ReadAt == nil {
			unread++
		}
	}

	return &dto.ListNotificationsResponse{
		Notifications: items,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userId)
}
