package utils

import (
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.True(t, validator.IsValidUUID(a))
}
