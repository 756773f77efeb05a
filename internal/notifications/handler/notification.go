package handler

import (
	"net/http"

	"campushub/internal/notifications/service"
	"campushub/pkg/auth"
	httputil "campushub/pkg/http"
	"campushub/pkg/logger"
	"campushub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

// userID resolves the notification feed owner. Authenticated non-admins
// only ever see their own feed.
func (h *NotificationHandler) userID(r *http.Request, ps httprouter.Params) string {
	id := ps.ByName("user_id")
	if identity := auth.FromContext(r.Context()); identity != nil && identity.Role != model.RoleAdmin {
		id = identity.UserID
	}
	return id
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	notifications, total, err := h.service.ListByUser(r.Context(), h.userID(r, ps), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	// Non-admins can only flip their own notifications.
	scope := ""
	if identity := auth.FromContext(r.Context()); identity != nil && identity.Role != model.RoleAdmin {
		scope = identity.UserID
	}

	if err := h.service.MarkRead(r.Context(), id, scope); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MarkRead", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications/user/:user_id", h.List)
	router.POST("/api/v1/notifications/id/:id/read", h.MarkRead)
}
