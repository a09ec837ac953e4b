package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tchevalier/mpm/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T, withStore bool) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var st *store.Store
	if withStore {
		var err error
		st, err = store.Open(filepath.Join(t.TempDir(), "runs.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
	}
	return New(logger, st)
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

const diamondBody = `{
  "name": "diamant",
  "tasks": [
    {"name": "A", "duration": 3},
    {"name": "B", "duration": 2, "predecessors": ["A"]},
    {"name": "C", "duration": 4, "predecessors": ["A"]},
    {"name": "D", "duration": 1, "predecessors": ["B", "C"]}
  ]
}`

func TestHealthz(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestSchedule(t *testing.T) {
	w := post(t, testServer(t, false), "/api/schedule", diamondBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Results struct {
			DPT             map[string]float64 `json:"dpt"`
			Margins         map[string]float64 `json:"marges"`
			CriticalPath    []string           `json:"critical_path"`
			ProjectDuration float64            `json:"project_duration"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 8.0, resp.Results.ProjectDuration)
	assert.Equal(t, []string{"A", "C", "D"}, resp.Results.CriticalPath)
	assert.Equal(t, 2.0, resp.Results.Margins["B"])
	assert.Equal(t, 3.0, resp.Results.DPT["B"])
}

func TestSchedule_SanitizesNames(t *testing.T) {
	body := `{"tasks": [
	  {"name": "  A  ", "duration": 1},
	  {"name": "B", "duration": 1, "predecessors": [" A "]}
	]}`
	w := post(t, testServer(t, false), "/api/schedule", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSchedule_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		body string
		code string
	}{
		{
			"cycle",
			`{"tasks": [{"name":"A","duration":1,"predecessors":["B"]},{"name":"B","duration":1,"predecessors":["A"]}]}`,
			"CYCLE_DETECTED",
		},
		{
			"unknown predecessor",
			`{"tasks": [{"name":"B","duration":1,"predecessors":["Z"]}]}`,
			"UNKNOWN_PREDECESSOR",
		},
		{
			"empty task list",
			`{"tasks": []}`,
			"EMPTY_INPUT",
		},
		{
			"zero duration",
			`{"tasks": [{"name":"A","duration":0}]}`,
			"INVALID_DURATION",
		},
		{
			"duplicate name",
			`{"tasks": [{"name":"A","duration":1},{"name":"A","duration":2}]}`,
			"DUPLICATE_TASK",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := post(t, testServer(t, false), "/api/schedule", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSchedule_MalformedJSON(t *testing.T) {
	w := post(t, testServer(t, false), "/api/schedule", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedule_SaveRun(t *testing.T) {
	s := testServer(t, true)

	w := post(t, s, "/api/schedule?save=1", diamondBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RunID)

	// The saved run is retrievable.
	req := httptest.NewRequest(http.MethodGet, "/api/runs/"+resp.RunID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var run struct {
		Name   string `json:"name"`
		Result struct {
			CriticalPath []string `json:"critical_path"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "diamant", run.Name)
	assert.Equal(t, []string{"A", "C", "D"}, run.Result.CriticalPath)
}

func TestListRuns(t *testing.T) {
	s := testServer(t, true)

	w := post(t, s, "/api/schedule?save=1", diamondBody)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Runs []struct {
			ID        string  `json:"id"`
			TaskCount int     `json:"task_count"`
			Duration  float64 `json:"project_duration"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, 4, resp.Runs[0].TaskCount)
	assert.Equal(t, 8.0, resp.Runs[0].Duration)
}

func TestGetRun_NotFound(t *testing.T) {
	s := testServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/unknown", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport(t *testing.T) {
	w := post(t, testServer(t, false), "/api/report", diamondBody)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestReport_BadInputIsJSONError(t *testing.T) {
	body := `{"tasks": [{"name":"A","duration":-1}]}`
	w := post(t, testServer(t, false), "/api/report", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestRunsDisabledWithoutStore(t *testing.T) {
	s := testServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
