package confluence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, "andres@example.com", "secret", "98765")
}

func TestGetPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/api/content/98765", r.URL.Path)
		assert.Equal(t, "body.storage,version", r.URL.Query().Get("expand"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "andres@example.com", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Weekly Activity Reports",
			"body": {"storage": {"value": "<h1>March</h1>"}},
			"version": {"number": 41}
		}`))
	})

	snap, err := c.GetPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Weekly Activity Reports", snap.Title)
	assert.Equal(t, "<h1>March</h1>", snap.Content)
	assert.Equal(t, 41, snap.Version)
}

func TestGetPage_HTTPError_UsesMessageField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"No content found with id: 98765"}`))
	})

	_, err := c.GetPage(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "No content found with id: 98765")
}

func TestUpdatePage_IncrementsVersion(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rest/api/content/98765", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	err := c.UpdatePage(context.Background(), "Weekly Activity Reports", "<h1>March</h1>", 41)
	require.NoError(t, err)

	version := got["version"].(map[string]any)
	assert.Equal(t, float64(42), version["number"], "write must supply version+1")
	assert.Equal(t, "Weekly Activity Reports", got["title"])
	assert.Equal(t, "page", got["type"])

	body := got["body"].(map[string]any)["storage"].(map[string]any)
	assert.Equal(t, "<h1>March</h1>", body["value"])
	assert.Equal(t, "storage", body["representation"])
}

func TestUpdatePage_Failure_SurfacesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Version must be incremented on update"}`))
	})

	err := c.UpdatePage(context.Background(), "t", "c", 41)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "Version must be incremented")
}

func TestErrorDetail_FallsBackToRawBody(t *testing.T) {
	assert.Equal(t, "plain text error", errorDetail([]byte("plain text error")))
	assert.Equal(t, "boom", errorDetail([]byte(`{"message":"boom"}`)))
}
