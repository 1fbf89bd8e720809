package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStreak_Unauthenticated(t *testing.T) {
	h := NewStreakHandler(nil, nil)

	rr := httptest.NewRecorder()
	h.GetStreak(rr, httptest.NewRequest(http.MethodGet, "/api/v1/user/streak", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
