package schedsim

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *Server {
	return NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	return rr, decoded
}

func TestHandlerHealth(t *testing.T) {
	rr, body := doJSON(t, testServer(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestHandlerAlgorithms(t *testing.T) {
	rr, body := doJSON(t, testServer(), http.MethodGet, "/api/algorithms", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	names := body["data"].([]any)
	assert.Len(t, names, 8)
	assert.Contains(t, names, "MLFQ")
}

func TestHandlerPresets(t *testing.T) {
	srv := testServer()
	rr, body := doJSON(t, srv, http.MethodGet, "/api/presets", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body["data"].([]any), "io-mix")

	rr, _ = doJSON(t, srv, http.MethodGet, "/api/presets/io-mix", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, body = doJSON(t, srv, http.MethodGet, "/api/presets/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "error", body["status"])
}

func TestHandlerSimulate(t *testing.T) {
	req := simulateRequest{
		Processes: []ProcessSpec{
			{Pid: 1, ArrivalTime: 0, CpuBurst: 5},
			{Pid: 2, ArrivalTime: 1, CpuBurst: 3},
		},
		Algorithm: "FCFS",
	}
	rr, body := doJSON(t, testServer(), http.MethodPost, "/api/simulate", req)
	require.Equal(t, http.StatusOK, rr.Code)

	data := body["data"].(map[string]any)
	assert.Contains(t, data, "rawTimeline")
	assert.Contains(t, data, "metrics")
	assert.NotEmpty(t, body["requestId"])
}

func TestHandlerSimulateRejectsBadInput(t *testing.T) {
	srv := testServer()

	rr, body := doJSON(t, srv, http.MethodPost, "/api/simulate", simulateRequest{Algorithm: "FCFS"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotEmpty(t, body["errors"])

	rr, _ = doJSON(t, srv, http.MethodPost, "/api/simulate", simulateRequest{
		Processes: []ProcessSpec{{Pid: 1, CpuBurst: 3}},
		Algorithm: "lottery",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlerCompare(t *testing.T) {
	req := compareRequest{
		Processes:  []ProcessSpec{{Pid: 1, CpuBurst: 4}, {Pid: 2, CpuBurst: 2}},
		Algorithms: []string{"FCFS", "SJF", "RR"},
	}
	rr, body := doJSON(t, testServer(), http.MethodPost, "/api/compare", req)
	require.Equal(t, http.StatusOK, rr.Code)

	data := body["data"].(map[string]any)
	assert.Len(t, data, 3)
	assert.Contains(t, data, "FCFS")
	assert.Contains(t, data, "SJF")
	assert.Contains(t, data, "RR")
}
