package fitness

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stillpoint/internal/core/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFetchDailyAggregate(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	var received aggregateRequest

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/users/me/dataset:aggregate", request.URL.Path)
		assert.Equal(t, "Bearer access-1", request.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&received))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"bucket":[{"dataset":[
			{"point":[{"value":[{"fpVal":64}]}]},
			{"point":[{"value":[{"intVal":3000}]}]}
		]}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, clock.NewManual(now), nil)
	aggregate, err := client.FetchDailyAggregate(context.Background(), &oauth2.Token{AccessToken: "access-1"})
	require.NoError(t, err)

	require.NotNil(t, aggregate.Steps)
	assert.Equal(t, int64(3000), *aggregate.Steps)
	require.NotNil(t, aggregate.LastHeartRateBpm)
	assert.Equal(t, 64.0, *aggregate.LastHeartRateBpm)
	assert.Equal(t, now.UnixMilli(), received.EndTimeMillis)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC).UnixMilli(), received.StartTimeMillis)
}

func TestFetchDailyAggregateHTTPError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(writer, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, nil)
	_, err := client.FetchDailyAggregate(context.Background(), &oauth2.Token{AccessToken: "access-1"})
	assert.ErrorContains(t, err, "403")
	assert.Equal(t, 1, calls)
}

func TestFetchDailyAggregateRequiresToken(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil, nil)
	_, err := client.FetchDailyAggregate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoToken)
}
