package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/YoderBy/gil-bot/internal/syllabus/service"
	"github.com/YoderBy/gil-bot/internal/syllabus/store"
)

func newTestRouter() *gin.Engine {
	g := gin.New()
	svc := service.New(store.NewMemoryStore(), service.Options{})
	RegisterSyllabusRoutes(g.Group("/api/v1"), svc, nil)
	return g
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

const baseDoc = `{"syllabus_data":{"heb_name":"מבוא","year":"2024","semester":"A"}}`

func TestSyllabusRoutes_UpdateCreatesAndVersions(t *testing.T) {
	g := newTestRouter()

	w := doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101", baseDoc)
	require.Equal(t, http.StatusOK, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, float64(1), res["version"])

	// second save with one changed field
	w = doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101",
		`{"syllabus_data":{"heb_name":"מבוא","year":"2024","semester":"B"},"change_summary":"semester move"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, float64(2), res["version"])
	require.Equal(t, float64(1), res["changes"])

	// version listing is ascending and content-free
	w = doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101/versions", "")
	require.Equal(t, http.StatusOK, w.Code)
	var metas []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metas))
	require.Len(t, metas, 2)
	require.Equal(t, float64(1), metas[0]["version"])
	require.Equal(t, float64(2), metas[1]["version"])
	require.Equal(t, "semester move", metas[1]["change_summary"])
	require.NotContains(t, metas[1], "data")
}

func TestSyllabusRoutes_GetSpecificVersion(t *testing.T) {
	g := newTestRouter()
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101", baseDoc)
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101",
		`{"syllabus_data":{"heb_name":"מבוא","year":"2024","semester":"B"}}`)

	w := doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101?version=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, "CS101", doc["id"])
	require.Equal(t, "A", doc["semester"])

	// latest without the query parameter
	w = doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, "B", doc["semester"])
}

func TestSyllabusRoutes_Diff(t *testing.T) {
	g := newTestRouter()
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101", baseDoc)
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101",
		`{"syllabus_data":{"heb_name":"מבוא","year":"2024","semester":"A","assignments":[{"name":"HW1"}]}}`)

	w := doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101/diff/1/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var diff struct {
		FromVersion int `json:"from_version"`
		ToVersion   int `json:"to_version"`
		Changes     []map[string]any
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diff))
	require.Equal(t, 1, diff.FromVersion)
	require.Equal(t, 2, diff.ToVersion)
	require.Len(t, diff.Changes, 1)
	require.Equal(t, "assignments[0]", diff.Changes[0]["field_path"])
	require.Equal(t, "add", diff.Changes[0]["change_type"])
}

func TestSyllabusRoutes_ListWithFilters(t *testing.T) {
	g := newTestRouter()
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101",
		`{"syllabus_data":{"name":"Intro","heb_name":"מבוא","year":"2024","semester":"A"}}`)
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/BIO200",
		`{"syllabus_data":{"name":"Neuroanatomy","heb_name":"נוירו","year":"2025","semester":"B"}}`)

	w := doJSON(t, g, http.MethodGet, "/api/v1/syllabus?search=NEURO", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "BIO200", list[0]["id"])

	w = doJSON(t, g, http.MethodGet, "/api/v1/syllabus?year=2024&semester=A", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "CS101", list[0]["id"])
}

func TestSyllabusRoutes_Create(t *testing.T) {
	g := newTestRouter()

	w := doJSON(t, g, http.MethodPost, "/api/v1/syllabus",
		`{"id":"CS101","syllabus_data":{"heb_name":"מבוא","year":"2024","semester":"A"}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// creating the same course again conflicts
	w = doJSON(t, g, http.MethodPost, "/api/v1/syllabus",
		`{"id":"CS101","syllabus_data":{"heb_name":"מבוא","year":"2024","semester":"A"}}`)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSyllabusRoutes_Errors(t *testing.T) {
	g := newTestRouter()

	w := doJSON(t, g, http.MethodGet, "/api/v1/syllabus/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101", `{"syllabus_data":{"name":"no metadata"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, []any{"heb_name", "semester", "year"}, res["fields"])

	w = doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101?version=zero", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101/diff/1/x", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// unknown version of an existing document
	doJSON(t, g, http.MethodPut, "/api/v1/syllabus/CS101", baseDoc)
	w = doJSON(t, g, http.MethodGet, "/api/v1/syllabus/CS101?version=5", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, g, http.MethodPost, "/api/v1/syllabus/CS101/source", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
