package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cmorgan-dev/go-dict-engine/config"
	"github.com/cmorgan-dev/go-dict-engine/internal/catalog"
	"github.com/cmorgan-dev/go-dict-engine/internal/dict"
	"github.com/cmorgan-dev/go-dict-engine/internal/history"
	"github.com/cmorgan-dev/go-dict-engine/internal/jobs"
	"github.com/cmorgan-dev/go-dict-engine/internal/session"
	"github.com/cmorgan-dev/go-dict-engine/model"
	"github.com/cmorgan-dev/go-dict-engine/services"
)

func writeDictFile(t *testing.T, dir, name string, file dict.File) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

// setupTestRouter builds a router over a catalog holding one real
// dictionary leaf (id 10) inside the default group.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	path := writeDictFile(t, dir, "fruit.jdx", dict.File{
		Title: "fruit",
		Entries: []dict.Entry{
			{Key: "apple", HTML: "<p>a round fruit</p>"},
			{Key: "banana", HTML: "<p>a long fruit</p>"},
		},
	})

	cat := catalog.NewManager()
	def := cat.Group(model.DefaultGroupID)
	leaf := model.NewLeaf("fruit", "file://"+filepath.ToSlash(path), 10)
	def.Profiles = append(def.Profiles, leaf)

	sess := session.New(cat, services.OpenerFunc(func(p *model.Profile) (services.Dictionary, error) {
		return dict.Open(p)
	}))
	t.Cleanup(sess.Close)

	store, err := history.Open(filepath.Join(dir, "dict.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	jobManager := jobs.NewManager(1)
	t.Cleanup(jobManager.Stop)

	settings := &config.Settings{LibraryRoots: []string{dir}}
	settings.ApplyDefaults()

	router := gin.New()
	router.Use(RequestIDMiddleware())
	SetupRoutes(router, NewAPI(sess, jobManager, store, settings))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "healthy", resp["status"])
}

func TestGetLibrary(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/library", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Groups []ProfileView `json:"groups"`
		Count  int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, model.DefaultGroupID, resp.Groups[0].ProfileID)
	require.True(t, resp.Groups[0].IsGroup)
	require.Len(t, resp.Groups[0].Profiles, 1)
	require.False(t, resp.Groups[0].Profiles[0].FTSEnabled)
}

func TestOpenProfile(t *testing.T) {
	router := setupTestRouter(t)

	// The invalid sentinel is rejected.
	w := doJSON(t, router, http.MethodPost, "/library/open", OpenProfileRequest{ProfileID: model.InvalidProfileID})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/library/open", OpenProfileRequest{ProfileID: 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/library/current", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var current ProfileView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	require.Equal(t, model.ProfileID(10), current.ProfileID)
	require.True(t, current.IsActive)
}

func TestSearchFlow(t *testing.T) {
	router := setupTestRouter(t)

	// Searching with nothing open is a client error.
	w := doJSON(t, router, http.MethodPost, "/search/incremental", SearchRequest{Query: "app"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/library/open", OpenProfileRequest{ProfileID: 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/search/incremental", SearchRequest{Query: "app"})
	require.Equal(t, http.StatusOK, w.Code)
	var search struct {
		StartIndex int64 `json:"start_index"`
		Count      int   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &search))
	require.Equal(t, int64(0), search.StartIndex)
	require.Equal(t, 2, search.Count)

	w = doJSON(t, router, http.MethodGet, "/search/results?start=0&max=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Keys []model.KeyCount `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Keys, 2)
	require.Equal(t, "apple", page.Keys[0].Key)

	// A blank query never reaches the engine.
	w = doJSON(t, router, http.MethodPost, "/search/incremental", SearchRequest{Query: "   "})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntryHTML(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/library/open", OpenProfileRequest{ProfileID: 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/content/10/0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "<p>a round fruit</p>", w.Body.String())

	// Out-of-range entries map to 404.
	w = doJSON(t, router, http.MethodGet, "/content/10/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAndRenameGroup(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/library/groups", CreateGroupRequest{Title: "my set"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created ProfileView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.True(t, created.IsGroup)
	require.Len(t, created.Profiles, 1) // seeded from the default group

	w = doJSON(t, router, http.MethodPost,
		"/library/groups/"+itoa(created.ProfileID)+"/rename",
		RenameGroupRequest{Title: "renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	// Renaming an unknown group is a 404.
	w = doJSON(t, router, http.MethodPost, "/library/groups/999/rename", RenameGroupRequest{Title: "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/history", HistoryRequest{
		Keyword: "apple", ProfileID: 10, ProfileName: "fruit",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry model.HistoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.NotEmpty(t, entry.ID)

	w = doJSON(t, router, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Entries []model.HistoryEntry `json:"entries"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)

	w = doJSON(t, router, http.MethodDelete, "/history/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/history/"+entry.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveProfile(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/library/profiles/10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Removed bool `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Removed)

	// Removing again reports removed=false without an error.
	w = doJSON(t, router, http.MethodDelete, "/library/profiles/10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Removed)
}

func itoa(id model.ProfileID) string {
	data, _ := json.Marshal(id)
	return string(data)
}
