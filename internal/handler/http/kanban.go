package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/sse"
)

type KanbanHandler interface {
	Board(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	UpdateAttendanceType(w http.ResponseWriter, r *http.Request)
	PrepareCheckInOut(w http.ResponseWriter, r *http.Request)
	CheckInOut(w http.ResponseWriter, r *http.Request)
	PrepareBreak(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
}

// Subscriber hands out board event streams.
type Subscriber interface {
	Subscribe(userID string) (chan sse.Event, func())
	SubscriberCount(userID string) int
	TotalSubscribers() int
}

type kanbanHandlerImpl struct {
	kanbanService kanban.KanbanService
	jwtService    jwt.Service
	events        Subscriber
	keepalive     time.Duration
}

func NewKanbanHandler(kanbanService kanban.KanbanService, jwtService jwt.Service, events Subscriber) KanbanHandler {
	return &kanbanHandlerImpl{
		kanbanService: kanbanService,
		jwtService:    jwtService,
		events:        events,
		keepalive:     30 * time.Second,
	}
}

// Board implements KanbanHandler.
func (h *kanbanHandlerImpl) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.kanbanService.Board(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, board)
}

// Stream pushes attendance changes of the board over SSE.
func (h *kanbanHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// SSE doesn't support custom headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(userID)
	slog.Info("board stream connected", "user_id", userID,
		"user_streams", h.events.SubscriberCount(userID), "total_streams", h.events.TotalSubscribers())
	defer func() {
		cleanup()
		slog.Info("board stream closed", "user_id", userID, "total_streams", h.events.TotalSubscribers())
	}()

	connected := sse.Event{Event: "connected", Data: map[string]string{"status": "connected", "user_id": userID}}
	if err := connected.Write(w); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := event.Write(w); err != nil {
				slog.Error("failed to write board event", "user_id", userID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			ping := sse.Event{Event: "ping", Data: map[string]int64{"timestamp": time.Now().Unix()}}
			if err := ping.Write(w); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// UpdateAttendanceType implements KanbanHandler.
func (h *kanbanHandlerImpl) UpdateAttendanceType(w http.ResponseWriter, r *http.Request) {
	var req kanban.UpdateAttendanceTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAttendanceType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	id, ok := idParam(w, r, employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	req.EmployeeID = id

	result, err := h.kanbanService.UpdateAttendanceType(r.Context(), req)
	if err != nil {
		slog.Error("UpdateAttendanceType service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PrepareCheckInOut implements KanbanHandler.
func (h *kanbanHandlerImpl) PrepareCheckInOut(w http.ResponseWriter, r *http.Request) {
	var req kanban.PrepareCheckInOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PrepareCheckInOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	wizard, err := h.kanbanService.PrepareCheckInOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, wizard)
}

// CheckInOut implements KanbanHandler.
func (h *kanbanHandlerImpl) CheckInOut(w http.ResponseWriter, r *http.Request) {
	var req kanban.CheckInOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckInOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.kanbanService.CheckInOut(r.Context(), req)
	if err != nil {
		slog.Error("CheckInOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PrepareBreak implements KanbanHandler.
func (h *kanbanHandlerImpl) PrepareBreak(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	wizard, err := h.kanbanService.PrepareBreak(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, wizard)
}

// StartBreak implements KanbanHandler.
func (h *kanbanHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.changeBreak(w, r, h.kanbanService.StartBreak)
}

// EndBreak implements KanbanHandler.
func (h *kanbanHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.changeBreak(w, r, h.kanbanService.EndBreak)
}

func (h *kanbanHandlerImpl) changeBreak(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, req kanban.BreakRequest) (kanban.ActionResult, error)) {
	var req kanban.BreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Break decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := change(r.Context(), req)
	if err != nil {
		slog.Error("Break service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
