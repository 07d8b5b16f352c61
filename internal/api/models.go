package api

import (
	"time"

	"github.com/jungle/notifications-service/internal/domain"
)

// NotificationResponse is the JSON shape of one notification.
type NotificationResponse struct {
	ID          string     `json:"id"`
	RecipientID string     `json:"recipientId"`
	Type        string     `json:"type"`
	TaskID      string     `json:"taskId"`
	CommentID   *string    `json:"commentId"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"createdAt"`
	ReadAt      *time.Time `json:"readAt"`
}

// ListNotificationsResponse is one page of unread notifications.
type ListNotificationsResponse struct {
	Data []NotificationResponse `json:"data"`
	Size int                    `json:"size"`
	Page int                    `json:"page"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// ListNotificationsQuery holds the validated pagination parameters.
type ListNotificationsQuery struct {
	Size int `validate:"gte=1,lte=100"`
	Page int `validate:"gte=1"`
}

func notificationToResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID,
		Type:        n.Type,
		TaskID:      n.TaskID,
		Title:       n.Title,
		Body:        n.Body,
		CreatedAt:   n.CreatedAt,
		ReadAt:      n.ReadAt,
	}
	if n.CommentID != "" {
		commentID := n.CommentID
		resp.CommentID = &commentID
	}
	return resp
}

func notificationsToResponse(ns []*domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationToResponse(n))
	}
	return out
}
