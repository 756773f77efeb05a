package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"campushub/internal/courses/service"
	"campushub/pkg/auth"
	httputil "campushub/pkg/http"
	"campushub/pkg/logger"
	"campushub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RegisterRequest struct {
	UserID string `json:"user_id"`
}

type UploadResponse struct {
	Key string `json:"key"`
}

type CourseHandler struct {
	service    service.CourseService
	staffGuard auth.Guard
	log        *logger.Logger
}

func NewCourseHandler(service service.CourseService, staffGuard auth.Guard, log *logger.Logger) *CourseHandler {
	return &CourseHandler{
		service:    service,
		staffGuard: staffGuard,
		log:        log,
	}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// The authenticated user teaches the course they create.
	if identity := auth.FromContext(r.Context()); identity != nil {
		course.Instructor = identity.UserID
	}

	if err := h.service.Create(r.Context(), &course); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, course); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *CourseHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	course, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) GetByCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")

	course, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCode", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByCode", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	courses, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, courses, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	course, err := h.service.Update(r.Context(), id, &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, course); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CourseHandler) Register(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if identity := auth.FromContext(r.Context()); identity != nil {
		req.UserID = identity.UserID
	}

	if err := h.service.Register(r.Context(), id, req.UserID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Register", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CourseHandler) UploadMaterial(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	file, header, err := r.FormFile("file")
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Expected multipart form with a 'file' field",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UploadMaterial", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.log.Error("failed to close uploaded file", "handler", "UploadMaterial", "error", closeErr)
		}
	}()

	key, err := h.service.UploadMaterial(r.Context(), id, header.Filename, file)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UploadMaterial", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, UploadResponse{Key: key}); err != nil {
		h.log.Error("failed to write created response", "handler", "UploadMaterial", "operation", "WriteCreated", "error", err)
	}
}

func (h *CourseHandler) DownloadMaterial(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	key := strings.TrimPrefix(ps.ByName("key"), "/")

	reader, err := h.service.OpenMaterial(r.Context(), id, key)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DownloadMaterial", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			h.log.Error("failed to close material", "handler", "DownloadMaterial", "error", closeErr)
		}
	}()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	if _, err := io.Copy(w, reader); err != nil {
		h.log.Error("failed to stream material", "handler", "DownloadMaterial", "key", key, "error", err)
	}
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CourseHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/courses", h.staffGuard(h.Create))
	router.GET("/api/v1/courses", h.GetAll)
	router.GET("/api/v1/courses/code/:code", h.GetByCode)
	router.GET("/api/v1/courses/id/:id", h.GetByID)
	router.PATCH("/api/v1/courses/id/:id", h.staffGuard(h.Update))
	router.POST("/api/v1/courses/id/:id/register", h.Register)
	router.POST("/api/v1/courses/id/:id/materials", h.staffGuard(h.UploadMaterial))
	router.GET("/api/v1/courses/id/:id/materials/*key", h.DownloadMaterial)
	router.DELETE("/api/v1/courses/id/:id", h.staffGuard(h.Delete))
}
