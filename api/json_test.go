package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler(t *testing.T) {
	handler := JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return map[string]bool{"available": true}, nil
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/power", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"available":true}`, w.Body.String())
}

func TestJSONHandlerError(t *testing.T) {
	handler := JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return nil, errors.New("detector exploded")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/wm", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "detector exploded")
}

func TestWriteJSONStatus(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusAccepted, struct {
		Action string `json:"action"`
	}{"reboot"})

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "{\"action\":\"reboot\"}\n", w.Body.String())
}

func TestWriteJSONUnencodable(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFlushMarksRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	flush(w)
	assert.True(t, w.Flushed)
}
