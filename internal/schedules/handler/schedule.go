package handler

import (
	"encoding/json"
	"net/http"

	"campushub/internal/schedules/service"
	"campushub/pkg/auth"
	httputil "campushub/pkg/http"
	"campushub/pkg/logger"
	"campushub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ScheduleHandler struct {
	service service.ScheduleService
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log,
	}
}

// studentID resolves the schedule owner. Authenticated non-admins only
// ever see their own schedule, whatever the path says.
func (h *ScheduleHandler) studentID(r *http.Request, ps httprouter.Params) string {
	id := ps.ByName("student_id")
	if identity := auth.FromContext(r.Context()); identity != nil && identity.Role != model.RoleAdmin {
		id = identity.UserID
	}
	return id
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedule, err := h.service.GetByStudent(r.Context(), h.studentID(r, ps))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) AddEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var entry model.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddEntry", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.AddEntry(r.Context(), h.studentID(r, ps), &entry); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddEntry", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "AddEntry", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) UpdateEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ScheduleEntryUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateEntry", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), h.studentID(r, ps), ps.ByName("entry_id"), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateEntry", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entry); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateEntry", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) DeleteEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteEntry(r.Context(), h.studentID(r, ps), ps.ByName("entry_id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteEntry", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/schedules/id/:student_id", h.Get)
	router.POST("/api/v1/schedules/id/:student_id/entries", h.AddEntry)
	router.PATCH("/api/v1/schedules/id/:student_id/entries/:entry_id", h.UpdateEntry)
	router.DELETE("/api/v1/schedules/id/:student_id/entries/:entry_id", h.DeleteEntry)
}
