package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", Validation("bad input"), ErrorTypeValidation},
		{"not found", NotFoundf("launch %d", 7), ErrorTypeNotFound},
		{"referential integrity", ReferentialIntegrity("no planet"), ErrorTypeReferentialIntegrity},
		{"storage", WrapStorage("insert failed", fmt.Errorf("boom")), ErrorTypeStorage},
		{"wrapped app error", fmt.Errorf("context: %w", Validation("bad")), ErrorTypeValidation},
		{"plain error", fmt.Errorf("plain"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetType(tt.err))
		})
	}
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapStorage("failed to save launch", cause)

	assert.Equal(t, "failed to save launch: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save launch", Message(err))
	assert.Empty(t, Message(cause))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("schedule: %w", ReferentialIntegrity("No matching planet found"))

	assert.True(t, Is(err, ErrorTypeReferentialIntegrity))
	assert.False(t, Is(err, ErrorTypeValidation))
	assert.False(t, Is(nil, ErrorTypeValidation))
}
