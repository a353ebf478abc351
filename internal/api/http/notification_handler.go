package http

import (
	"net/http"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/service"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

type notificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
	Page          int32                 `json:"page"`
	PageSize      int32                 `json:"page_size"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, pageSize := pagination(r)
	notifications, total, err := h.notificationSvc.GetNotifications(r.Context(), memberID, page, pageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, notificationListResponse{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	memberID, _, err := MemberFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	notificationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.notificationSvc.MarkAsRead(r.Context(), memberID, notificationID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
