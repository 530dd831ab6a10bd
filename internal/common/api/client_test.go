package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"partner-console/internal/common/config"
	"partner-console/internal/common/errors"
	"partner-console/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	return NewClient(config.APIConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5000,
		UserAgent:      "partner-console-test/1.0",
		Locale:         "en",
	}, NewMemorySessionStore(token), logger.NewTestLogger(t))
}

// ==========================
// Authentication Tests
// ==========================

func TestClient_LoginRequiredShortCircuit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	err := client.GetJSON(context.Background(), "/providers", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLoginRequired))
	// Absent token must short-circuit before any request is sent.
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestClient_SendsBearerTokenAndLocale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "en", r.Header.Get("X-Locale"))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "secret-token")

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/providers", nil, &out))
	assert.True(t, out.OK)
}

func TestClient_TokenRejectedNotIntercepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "stale-token")

	err := client.GetJSON(context.Background(), "/providers", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTokenRejected))
}

// ==========================
// Error Decoding Tests
// ==========================

func TestClient_ValidationErrorFlattening(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"The given data was invalid.","errors":{"options":{"0":{"title":["The title field is required."]}}}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "token")

	err := client.PostJSON(context.Background(), "/offers", map[string]interface{}{}, nil)
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, "options.0.title: The title field is required.", stdErr.Message)
	assert.Equal(t, "The title field is required.", stdErr.Fields["options.0.title"])
}

func TestClient_ServerErrorIsGenericFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "token")

	err := client.GetJSON(context.Background(), "/providers", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNetworkFailure))
}

// ==========================
// Pagination Tests
// ==========================

func TestClient_FetchAllWalksEveryPage(t *testing.T) {
	pages := map[string]string{
		"1": `{"data":[{"id":1},{"id":2}],"pagination":{"current_page":1,"last_page":3,"total":5}}`,
		"2": `{"data":[{"id":3},{"id":4}],"pagination":{"current_page":2,"last_page":3,"total":5}}`,
		"3": `{"data":[{"id":5}],"pagination":{"current_page":3,"last_page":3,"total":5}}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "token")

	var ids []int64
	err := client.FetchAll(context.Background(), "/reservations", nil, func(data json.RawMessage) error {
		var chunk []struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(data, &chunk); err != nil {
			return err
		}
		for _, item := range chunk {
			ids = append(ids, item.ID)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestClient_FetchAllSinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":1}],"pagination":{"current_page":1,"last_page":1,"total":1}}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "token")

	var chunks int
	err := client.FetchAll(context.Background(), "/cities", nil, func(json.RawMessage) error {
		chunks++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, chunks)
}

// ==========================
// Session Store Tests
// ==========================

func TestFileSessionStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileSessionStore(dir, config.SessionKey(config.AppConfig{Name: "partner-console", Version: "1.0"}))

	require.NoError(t, store.Save(&Session{Token: "abc", UserID: 9}))
	assert.Equal(t, "abc", store.Token())

	sess, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, int64(9), sess.UserID)
	assert.False(t, sess.SavedAt.IsZero())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Token())
}

func TestFileSessionStore_MissingFileIsNotAnError(t *testing.T) {
	store := NewFileSessionStore(t.TempDir(), "partner-console_1.0_session")
	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}
