package http

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directaula/classroom-engine/internal/application"
	"github.com/directaula/classroom-engine/internal/infrastructure/persistence/memory"
	"github.com/directaula/classroom-engine/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	log := logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})

	engine := application.NewEngine(application.Repositories{
		Groups:     store.Groups,
		Rubrics:    store.Rubrics,
		Roster:     store.Roster,
		Grades:     store.Grades,
		Attendance: store.Attendance,
	}, application.Options{Log: log})

	srv := NewServer(DefaultConfig(), Dependencies{
		Engine: engine,
		Logger: log,
	})

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body interface{}) (*nethttp.Response, JSONResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := nethttp.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope JSONResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func createTestGroup(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	resp, envelope := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups", map[string]string{
		"name": "Algebra II",
		"term": "2026-Fall",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestServer_HealthAndLiveness(t *testing.T) {
	ts := newTestServer(t)

	resp, envelope := doJSON(t, ts, nethttp.MethodGet, "/health", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)

	resp, _ = doJSON(t, ts, nethttp.MethodGet, "/live", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestServer_FullFlow(t *testing.T) {
	ts := newTestServer(t)
	groupID := createTestGroup(t, ts)

	resp, _ := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups/"+groupID+"/students", map[string]string{
		"code":         "A2026-001",
		"display_name": "Alba Cortes",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	resp, envelope := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups/"+groupID+"/grades", map[string]interface{}{
		"student_code":  "A2026-001",
		"category_name": "Exam",
		"value":         8.0,
		"date":          "2026-03-02",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	row, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 8.0, row["final_average"])

	resp, envelope = doJSON(t, ts, nethttp.MethodGet, "/api/v1/groups/"+groupID+"/evaluation", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	group, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	results, ok := group["results"].([]interface{})
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestServer_DefaultRubricOnFirstAccess(t *testing.T) {
	ts := newTestServer(t)
	groupID := createTestGroup(t, ts)

	resp, envelope := doJSON(t, ts, nethttp.MethodGet, "/api/v1/groups/"+groupID+"/rubric", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	categories, ok := data["categories"].([]interface{})
	require.True(t, ok)
	assert.Len(t, categories, 3)
}

func TestServer_ReplaceRubricRejectsBadWeights(t *testing.T) {
	ts := newTestServer(t)
	groupID := createTestGroup(t, ts)

	resp, envelope := doJSON(t, ts, nethttp.MethodPut, "/api/v1/groups/"+groupID+"/rubric", map[string]interface{}{
		"categories": []map[string]interface{}{
			{"name": "Exam", "weight_percent": 60.0, "max_items": 1},
			{"name": "Homework", "weight_percent": 60.0, "max_items": 1},
		},
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "validation_failed", envelope.Error.Code)
}

func TestServer_ErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	groupID := createTestGroup(t, ts)

	t.Run("unknown group is 404", func(t *testing.T) {
		resp, envelope := doJSON(t, ts, nethttp.MethodGet, "/api/v1/groups/missing/evaluation", nil)
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "not_found", envelope.Error.Code)
	})

	t.Run("unknown student is 404", func(t *testing.T) {
		resp, _ := doJSON(t, ts, nethttp.MethodDelete, "/api/v1/groups/"+groupID+"/students/A2026-999", nil)
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	})

	t.Run("bulk attendance on empty roster is 422", func(t *testing.T) {
		resp, envelope := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups/"+groupID+"/attendance/bulk", map[string]string{
			"status": "Present",
			"date":   "2026-03-02",
		})
		assert.Equal(t, nethttp.StatusUnprocessableEntity, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "no_data", envelope.Error.Code)
	})

	t.Run("malformed date is 400", func(t *testing.T) {
		resp, _ := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups/"+groupID+"/attendance/bulk", map[string]string{
			"status": "Present",
			"date":   "03/02/2026",
		})
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate enrollment is 409", func(t *testing.T) {
		body := map[string]string{"code": "A2026-010", "display_name": "Mario Ruiz"}
		resp, _ := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups/"+groupID+"/students", body)
		require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

		resp, envelope := doJSON(t, ts, nethttp.MethodPost, "/api/v1/groups/"+groupID+"/students", body)
		assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "already_exists", envelope.Error.Code)
	})
}
