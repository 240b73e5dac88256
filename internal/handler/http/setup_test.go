package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/attendance"
	attendanceTypeService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/attendance_type"
	authService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/employee"
	kanbanService "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/service/servicetest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestPassword   = "password123"
)

type testServer struct {
	env        *servicetest.Env
	lanes      servicetest.Lanes
	jwtService jwt.Service
	hub        *sse.Hub
	kanban     *kanbanHandlerImpl
	router     http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	env := servicetest.NewEnv(t)
	lanes := env.SeedTypes(t)
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	hub := sse.NewHub()

	notifier := kanbanService.NewNotifier(env.Employees, env.Attendances, hub)
	employees := employeeService.NewEmployeeService(env.Store, env.Employees, env.Attendances, env.Types, env.Users)
	types := attendanceTypeService.NewAttendanceTypeService(env.Store, env.Types, env.Attendances, employees)
	attendances := attendanceService.NewAttendanceService(env.Store, env.Attendances, env.Employees, env.Types, employees, notifier)
	board := kanbanService.NewKanbanService(env.Store, env.Attendances, env.Employees, env.Types, employees, notifier)
	authSvc := authService.NewAuthService(env.Store, env.Users, jwtSvc, env.RefreshTokens)

	kanbanHandler := NewKanbanHandler(board, jwtSvc, hub).(*kanbanHandlerImpl)
	router := NewRouter(jwtSvc, Handlers{
		Auth:           NewAuthHandler(jwtSvc, authSvc),
		AttendanceType: NewAttendanceTypeHandler(types),
		Attendance:     NewAttendanceHandler(attendances),
		Employee:       NewEmployeeHandler(employees),
		Kanban:         kanbanHandler,
	}, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}, Env: "test"})

	return &testServer{
		env:        env,
		lanes:      lanes,
		jwtService: jwtSvc,
		hub:        hub,
		kanban:     kanbanHandler,
		router:     router,
	}
}

func (s *testServer) createUser(t *testing.T, email string, role user.Role, employeeID *string) user.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(hashed)

	u, err := s.env.Users.Create(context.Background(), user.User{Email: email, PasswordHash: &hash, Role: role, EmployeeID: employeeID})
	require.NoError(t, err)
	return u
}

// login returns the access token of a freshly created user.
func (s *testServer) login(t *testing.T, email string, role user.Role, employeeID *string) string {
	t.Helper()
	s.createUser(t, email, role, employeeID)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Email: email, Password: handlerTestPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens auth.TokenResponse
	decodeData(t, w, &tokens)
	return tokens.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	resp := decodeResponse(t, w)
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, v))
}
