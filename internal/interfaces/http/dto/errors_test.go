package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"PERIOD_OVERLAP", http.StatusConflict},
		{"ALREADY_POSTED", http.StatusConflict},
		{"PERIOD_LOCKED", http.StatusUnprocessableEntity},
		{"CANNOT_CLOSE_LOCKED", http.StatusUnprocessableEntity},
		{"UNBALANCED_ENTRY", http.StatusUnprocessableEntity},
		{"ACCOUNT_NOT_FOUND", http.StatusUnprocessableEntity},
		{"FIELD_NOT_FOUND", http.StatusUnprocessableEntity},
		{"INVALID_CURRENCY", http.StatusBadRequest},
		{"CURRENCY_MISMATCH", http.StatusBadRequest},
		{"INVALID_DATE_RANGE", http.StatusBadRequest},
		{"SOMETHING_UNMAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}
