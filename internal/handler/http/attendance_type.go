package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/handler/http/response"
)

type AttendanceTypeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceTypeHandlerImpl struct {
	typeService attendance_type.AttendanceTypeService
}

func NewAttendanceTypeHandler(typeService attendance_type.AttendanceTypeService) AttendanceTypeHandler {
	return &attendanceTypeHandlerImpl{typeService: typeService}
}

func (h *attendanceTypeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.typeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

func (h *attendanceTypeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, attendance_type.ErrAttendanceTypeNotFound)
	if !ok {
		return
	}
	t, err := h.typeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, t)
}

func (h *attendanceTypeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance_type.CreateAttendanceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create attendance type decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	t, err := h.typeService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create attendance type service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance type created successfully", t)
}

func (h *attendanceTypeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance_type.UpdateAttendanceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update attendance type decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	id, ok := idParam(w, r, attendance_type.ErrAttendanceTypeNotFound)
	if !ok {
		return
	}
	req.ID = id

	t, err := h.typeService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update attendance type service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance type updated successfully", t)
}

func (h *attendanceTypeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, attendance_type.ErrAttendanceTypeNotFound)
	if !ok {
		return
	}
	if err := h.typeService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete attendance type service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance type deleted successfully", nil)
}
