package team

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"partner-console/internal/common/api"
	"partner-console/internal/common/config"
	stderrors "partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(config.APIConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5000,
		UserAgent:      "console-test",
		Locale:         "en",
	}, api.NewMemorySessionStore("test-token"), logger.NewTestLogger(t))

	return NewService(client, logger.NewTestLogger(t)), &requests
}

func validForm() Form {
	return Form{
		Name:        "Nadia Hassan",
		Email:       "nadia@example.com",
		Phone:       "+201001234567",
		Role:        models.RoleManager,
		ProviderIDs: []int64{12},
	}
}

func TestCreate_ValidationBlocksWithoutNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Form)
	}{
		{"missing name", func(f *Form) { f.Name = "" }},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }},
		{"unknown role", func(f *Form) { f.Role = "owner" }},
		{"short phone", func(f *Form) { f.Phone = "123" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, requests := newTestService(t, http.NotFoundHandler())
			form := validForm()
			tt.mutate(&form)

			err := svc.Create(context.Background(), form)
			require.Error(t, err)
			assert.True(t, stderrors.IsCode(err, stderrors.ErrCodePreconditionFailed))
			assert.Equal(t, int32(0), requests.Load())
		})
	}
}

func TestCreate_PostsPayload(t *testing.T) {
	var captured map[string]interface{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/team", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{}`))
	})
	svc, _ := newTestService(t, handler)

	require.NoError(t, svc.Create(context.Background(), validForm()))
	assert.Equal(t, "manager", captured["role"])
	assert.Equal(t, "nadia@example.com", captured["email"])
	assert.NotContains(t, captured, "_method")
}

func TestUpdate_CarriesMethodOverride(t *testing.T) {
	var captured map[string]interface{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/team/5", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{}`))
	})
	svc, _ := newTestService(t, handler)

	require.NoError(t, svc.Update(context.Background(), 5, validForm()))
	assert.Equal(t, "PUT", captured["_method"])
}

func TestList_DecodesMembers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [
				{"id": 1, "user": {"id": 9, "name": "Nadia Hassan"}, "role": "admin", "status": 1, "providers": [12, 13]}
			],
			"pagination": {"current_page": 1, "last_page": 1, "total": 1}
		}`))
	})
	svc, _ := newTestService(t, handler)

	members, pagination, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, models.RoleAdmin, members[0].Role)
	assert.Equal(t, models.StatusActive, members[0].Status)
	assert.Equal(t, []int64{12, 13}, members[0].ProviderIDs)
	assert.Equal(t, 1, pagination.Total)
}
