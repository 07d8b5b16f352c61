package api

import (
	"log/slog"
	"net/http"

	"github.com/jungle/notifications-service/internal/api/shared"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/service"
)

// NotificationHandler serves the notification read API for the
// authenticated user.
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NotificationHandler")
	}

	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger.With(slog.String("component", "notification_handler")),
	}
}

// ListUnread handles GET /notifications?size=&page= requests.
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	size, err := shared.QueryInt(r, "size", service.DefaultPageSize)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid size: must be an integer", err)
		return
	}
	page, err := shared.QueryInt(r, "page", 1)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid page: must be an integer", err)
		return
	}

	query := ListNotificationsQuery{Size: size, Page: page}
	if err := shared.ValidateRequest(&query); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	notifications, err := h.notificationService.ListUnread(r.Context(), userID, query.Page, query.Size)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("listed unread notifications",
		slog.Int("count", len(notifications)),
		slog.Int("page", query.Page),
		slog.Int("size", query.Size))
	shared.RespondWithJSON(w, r, http.StatusOK, ListNotificationsResponse{
		Data: notificationsToResponse(notifications),
		Size: query.Size,
		Page: query.Page,
	})
}

// MarkRead handles PUT /notifications/{id}/read requests.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid notification ID", err)
		return
	}

	notification, err := h.notificationService.MarkRead(r.Context(), userID, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("notification marked read", slog.String("notification_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, notificationToResponse(notification))
}

// MarkAllRead handles PUT /notifications/read-all requests.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	updated, err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("notifications marked read", slog.Int64("updated", updated))
	shared.RespondWithJSON(w, r, http.StatusOK, MarkAllReadResponse{Updated: updated})
}
