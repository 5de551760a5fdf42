package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtimer/mtimer-go/pkg/clock/clocktest"
	"github.com/mtimer/mtimer-go/pkg/kvstore"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/service"
)

type testServer struct {
	srv   *Server
	svc   *service.TimerService
	pres  *presenter.Memory
	clock *clocktest.Clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clk := clocktest.New(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	pres := presenter.NewMemory()
	svc, err := service.New(service.Config{
		Store:       kvstore.NewMemory(),
		Presenter:   pres,
		Clock:       clk,
		ColorSource: func() string { return "#abcdef" },
	})
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { svc.Stop() })

	srv := NewServer(ServerConfig{Version: "1.0.0-test"}, svc, pres, nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	return &testServer{srv: srv, svc: svc, pres: pres, clock: clk}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.srv.ServeHTTP(w, req)
	return w
}

func decodeTimer(t *testing.T, w *httptest.ResponseRecorder) service.TimerInfo {
	t.Helper()
	var info service.TimerInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info), w.Body.String())
	return info
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "1.0.0-test", resp["version"])
	assert.Equal(t, ts.svc.SessionID(), resp["session"])
	assert.Equal(t, "1.0", resp["api"])
}

func TestHealthEndpointMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/api/v1/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestTimerLifecycle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/timers", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/v1/timers/1", w.Header().Get("Location"))
	info := decodeTimer(t, w)
	assert.Equal(t, 1, info.ID)
	assert.Equal(t, "01:00", info.Display)
	assert.Equal(t, "#abcdef", info.Color)
	assert.Equal(t, "IDLE", info.State)

	w = ts.do(t, http.MethodPost, "/api/v1/timers/1/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RUNNING", decodeTimer(t, w).State)

	require.NoError(t, ts.svc.Do(context.Background(), func() { ts.clock.Advance(4 * time.Second) }))

	w = ts.do(t, http.MethodGet, "/api/v1/timers/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "00:56", decodeTimer(t, w).Display)

	w = ts.do(t, http.MethodPost, "/api/v1/timers/1/pause", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "IDLE", decodeTimer(t, w).State)

	w = ts.do(t, http.MethodPost, "/api/v1/timers/1/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "01:00", decodeTimer(t, w).Display)

	w = ts.do(t, http.MethodGet, "/api/v1/timers", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Timers []service.TimerInfo `json:"timers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Timers, 1)
}

func TestTimerSettings(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/v1/timers", "")

	w := ts.do(t, http.MethodPut, "/api/v1/timers/1/length", `{"hours":"0","minutes":2,"seconds":"75"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var lr struct {
		Timer  service.TimerInfo `json:"timer"`
		Length struct {
			Hours   int `json:"hours"`
			Minutes int `json:"minutes"`
			Seconds int `json:"seconds"`
		} `json:"length"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lr))
	assert.Equal(t, "02:59", lr.Timer.Display)
	assert.Equal(t, 59, lr.Length.Seconds)

	w = ts.do(t, http.MethodPut, "/api/v1/timers/1/color", `{"color":"#ff8800"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#ff8800", decodeTimer(t, w).Color)

	w = ts.do(t, http.MethodPut, "/api/v1/timers/1/color", `{"color":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, presenter.DefaultColor, decodeTimer(t, w).Color)

	w = ts.do(t, http.MethodPut, "/api/v1/timers/1/name", `{"name":"Pasta"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pasta", decodeTimer(t, w).Name)
}

func TestErrorStatusCodes(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/v1/timers", "")
	ts.do(t, http.MethodPost, "/api/v1/timers/1/start", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown timer", http.MethodGet, "/api/v1/timers/9", "", http.StatusNotFound},
		{"unknown timer action", http.MethodPost, "/api/v1/timers/9/start", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/api/v1/timers/abc", "", http.StatusBadRequest},
		{"length while running", http.MethodPut, "/api/v1/timers/1/length", `{"hours":"0","minutes":"5","seconds":"0"}`, http.StatusConflict},
		{"invalid color", http.MethodPut, "/api/v1/timers/1/color", `{"color":"blue-ish"}`, http.StatusBadRequest},
		{"name too long", http.MethodPut, "/api/v1/timers/1/name", `{"name":"` + strings.Repeat("x", 101) + `"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPut, "/api/v1/timers/1/name", `{"name":`, http.StatusBadRequest},
		{"unknown field", http.MethodPut, "/api/v1/timers/1/name", `{"title":"x"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestValidationErrorListsFields(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/v1/timers", "")

	w := ts.do(t, http.MethodPut, "/api/v1/timers/1/color", `{"color":"nope"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "color")
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/v1/timers", "")

	httpSrv := httptest.NewServer(ts.srv)
	defer httpSrv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpSrv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	next := func() string {
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
				return strings.TrimPrefix(line, "event: ")
			}
		}
		return ""
	}

	// Initial state.
	assert.Equal(t, "rendered", next())

	w := ts.do(t, http.MethodPut, "/api/v1/timers/1/name", `{"name":"Soup"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "name", next())
}
