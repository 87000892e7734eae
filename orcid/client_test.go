package orcid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL+"/"), WithRateLimit(0))
}

func TestClient_FetchProfileSendsJSONAccept(t *testing.T) {
	var gotPath, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotAccept = r.URL.Path, r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"person": {"name": {"family-name": {"value": "Carberry"}}}}`))
	})

	doc, ok := c.FetchProfile(context.Background(), "0000-0002-1825-0097")
	require.True(t, ok)
	assert.Equal(t, "/0000-0002-1825-0097", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Carberry", doc.Get("person", "name", "family-name", "value").String())
}

func TestClient_NotFoundIsAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})

	_, ok := c.FetchProfile(context.Background(), "0000-0002-1825-0097")
	assert.False(t, ok)
	assert.Nil(t, c.FetchWorks(context.Background(), "0000-0002-1825-0097"))
}

func TestClient_InvalidJSONIsAbsent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	_, ok := c.FetchProfile(context.Background(), "0000-0002-1825-0097")
	assert.False(t, ok)
}

func TestClient_FetchWorksReturnsGroups(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0000-0002-1825-0097/works", r.URL.Path)
		_, _ = w.Write([]byte(`{"group": [{"work-summary": [{"put-code": 1}]}, {"work-summary": [{"put-code": 2}]}]}`))
	})

	groups := c.FetchWorks(context.Background(), "0000-0002-1825-0097")
	require.Len(t, groups, 2)
	s, ok := PreferredSummary(groups[1])
	require.True(t, ok)
	code, _ := PutCode(s)
	assert.Equal(t, "2", code)
}

func TestClient_CancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := c.FetchProfile(ctx, "0000-0002-1825-0097")
	assert.False(t, ok)
}

func TestWithTimeout_LeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{}

	after := NewClient(WithHTTPClient(shared), WithTimeout(3*time.Second))
	before := NewClient(WithTimeout(3*time.Second), WithHTTPClient(shared))

	assert.Zero(t, shared.Timeout)
	assert.Equal(t, 3*time.Second, after.httpClient.Timeout)
	assert.Equal(t, 3*time.Second, before.httpClient.Timeout)
	assert.NotSame(t, shared, after.httpClient)

	plain := NewClient(WithHTTPClient(shared))
	assert.Same(t, shared, plain.httpClient)
}
