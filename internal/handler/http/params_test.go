package http

import (
	"net/http"
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func TestIDParam_NotAUUID(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "officer@example.com", user.RoleOfficer, nil)

	for _, path := range []string{
		"/api/v1/employees/not-a-uuid",
		"/api/v1/employees/not-a-uuid/public",
		"/api/v1/attendances/not-a-uuid",
		"/api/v1/attendance-types/not-a-uuid",
		"/api/v1/kanban/employees/not-a-uuid/break",
	} {
		t.Run(path, func(t *testing.T) {
			w := s.do(t, http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
			assert.False(t, decodeResponse(t, w).Success)
		})
	}

	w := s.do(t, http.MethodDelete, "/api/v1/attendances/12345", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
