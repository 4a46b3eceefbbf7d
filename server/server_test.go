package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/trusteeboard/session"
	"github.com/f3rmion/trusteeboard/suite"
)

func setupRouter(t *testing.T, trustees, threshold int) chi.Router {
	t.Helper()
	orch, err := session.New(suite.Default(), trustees, threshold)
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(orch, zerolog.Nop()).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeInfo(t *testing.T, w *httptest.ResponseRecorder) *session.Info {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var info session.Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	return &info
}

func TestHandlerRoundTrip(t *testing.T) {
	r := setupRouter(t, 2, 2)

	info := decodeInfo(t, do(t, r, http.MethodGet, "/session", nil))
	require.Len(t, info.Messages, 1)
	assert.Equal(t, "Configuration", info.Messages[0].Type)

	info = decodeInfo(t, do(t, r, http.MethodPost, "/session/ballots", BallotsRequest{Count: 3}))
	assert.Equal(t, "No pk yet", info.Log)

	for i := 0; i < 20 && info.Log != "Added 3 ballots"; i++ {
		decodeInfo(t, do(t, r, http.MethodPost, "/session/step", StepRequest{Selector: "all"}))
		info = decodeInfo(t, do(t, r, http.MethodPost, "/session/ballots", BallotsRequest{Count: 3}))
	}
	require.Equal(t, "Added 3 ballots", info.Log)

	for i := 0; i < 20 && info.PlaintextsMatch == nil; i++ {
		info = decodeInfo(t, do(t, r, http.MethodPost, "/session/step", nil))
	}
	require.NotNil(t, info.PlaintextsMatch)
	assert.True(t, *info.PlaintextsMatch)
	assert.Equal(t, "Run complete: plaintexts match = 'true'", info.Log)
}

func TestHandlerReset(t *testing.T) {
	r := setupRouter(t, 2, 2)
	before := decodeInfo(t, do(t, r, http.MethodGet, "/session", nil))

	info := decodeInfo(t, do(t, r, http.MethodPost, "/session/reset", ResetRequest{Trustees: 4, Threshold: 3}))
	assert.Greater(t, info.SessionID, before.SessionID)
	assert.Len(t, info.Trustees, 4)
	assert.Equal(t, 3, info.Threshold)

	w := do(t, r, http.MethodPost, "/session/reset", ResetRequest{Trustees: 2, Threshold: 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	after := decodeInfo(t, do(t, r, http.MethodGet, "/session", nil))
	assert.Equal(t, info.SessionID, after.SessionID)
}

func TestHandlerRejectsBadInput(t *testing.T) {
	r := setupRouter(t, 2, 2)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"unknown trustee", "/session/step", StepRequest{Selector: "7"}},
		{"non-numeric selector", "/session/step", StepRequest{Selector: "first"}},
		{"zero ballots", "/session/ballots", BallotsRequest{Count: 0}},
		{"zero trustees", "/session/reset", ResetRequest{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	req, err := http.NewRequest(http.MethodPost, "/session/step", strings.NewReader("{"))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	info := decodeInfo(t, do(t, r, http.MethodGet, "/session", nil))
	assert.Len(t, info.Messages, 1, "rejected requests must not touch the board")
}
