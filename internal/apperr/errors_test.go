package apperr

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unauthorized", ErrUnauthorized, fiber.StatusUnauthorized},
		{"forbidden", ErrForbidden, fiber.StatusForbidden},
		{"not found", ErrNotFound, fiber.StatusNotFound},
		{"conflict", ErrConflict, fiber.StatusConflict},
		{"invalid state", ErrInvalidState, fiber.StatusBadRequest},
		{"invalid input", ErrInvalidInput, fiber.StatusBadRequest},
		{"insufficient credits", ErrInsufficientCredits, fiber.StatusPaymentRequired},
		{"upstream", ErrUpstream, fiber.StatusBadGateway},
		{"unknown", fmt.Errorf("database exploded"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.expected {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestStatusUnwrapsServiceErrors(t *testing.T) {
	wrapped := fmt.Errorf("campaign %s: %w", "abc", ErrNotFound)
	if got := Status(wrapped); got != fiber.StatusNotFound {
		t.Errorf("Status(wrapped) = %d, want %d", got, fiber.StatusNotFound)
	}

	double := fmt.Errorf("handler: %w", wrapped)
	if got := Status(double); got != fiber.StatusNotFound {
		t.Errorf("Status(double wrapped) = %d, want %d", got, fiber.StatusNotFound)
	}
}
