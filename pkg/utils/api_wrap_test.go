package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func performHandled(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleServiceError(c, err)
	return w
}

func TestHandleServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"day count", ErrInvalidDayCount, http.StatusBadRequest},
		{"budget", ErrInvalidBudget, http.StatusBadRequest},
		{"missing destination", ErrMissingDestination, http.StatusBadRequest},
		{"not found", ErrDestinationNotFound, http.StatusNotFound},
		{"stage failure", NewStageError("fetch", errors.New("boom")), http.StatusBadGateway},
		{"database", ErrDatabaseError, http.StatusInternalServerError},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := performHandled(tt.err); w.Code != tt.want {
				t.Errorf("status: got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := NewStageError("fetch", inner)

	if !errors.Is(err, inner) {
		t.Error("StageError must unwrap to its cause")
	}
	var stageErr *StageError
	if !errors.As(error(err), &stageErr) {
		t.Fatal("errors.As failed on StageError")
	}
	if stageErr.Stage != "fetch" {
		t.Errorf("stage: got %q, want fetch", stageErr.Stage)
	}
}

func TestWrappedSentinelStillMaps(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrDestinationNotFound)
	if w := performHandled(wrapped); w.Code != http.StatusNotFound {
		t.Errorf("wrapped sentinel: got %d, want 404", w.Code)
	}
}
