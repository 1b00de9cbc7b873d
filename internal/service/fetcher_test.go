package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envizi_webhook/internal/domain"
)

func TestExtractRecords(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
		want int
	}{
		{
			name: "top level array",
			data: []interface{}{
				map[string]interface{}{"a": 1},
				map[string]interface{}{"a": 2},
			},
			want: 2,
		},
		{
			name: "array under a property",
			data: map[string]interface{}{
				"total": 3,
				"records": []interface{}{
					map[string]interface{}{"a": 1},
					map[string]interface{}{"a": 2},
					map[string]interface{}{"a": 3},
				},
			},
			want: 3,
		},
		{
			name: "plain object is a single record",
			data: map[string]interface{}{"a": 1},
			want: 1,
		},
		{
			name: "nil yields nothing",
			data: nil,
			want: 0,
		},
		{
			name: "scalar yields nothing",
			data: "hello",
			want: 0,
		},
		{
			name: "non-object array entries are skipped",
			data: []interface{}{
				map[string]interface{}{"a": 1},
				"stray",
				map[string]interface{}{"a": 2},
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ExtractRecords(tt.data), tt.want)
		})
	}
}

func TestExtractRecordsPicksFirstArrayByKey(t *testing.T) {
	// Two array-valued properties: the lexicographically first key wins,
	// every time.
	data := map[string]interface{}{
		"zebras": []interface{}{map[string]interface{}{"z": 1}},
		"apples": []interface{}{map[string]interface{}{"a": 1}, map[string]interface{}{"a": 2}},
	}
	for i := 0; i < 10; i++ {
		records := ExtractRecords(data)
		require.Len(t, records, 2)
		assert.Contains(t, records[0], "a")
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"value": 42}]`))
	}))
	defer srv.Close()

	f := NewFetcher(3, time.Millisecond, time.Second)
	data, err := f.Fetch(context.Background(), &domain.WebhookConfig{
		ID:       "wh-1",
		Endpoint: srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, ExtractRecords(data), 1)
}

func TestFetchExhaustsRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(3, time.Millisecond, time.Second)
	_, err := f.Fetch(context.Background(), &domain.WebhookConfig{
		ID:       "wh-1",
		Endpoint: srv.URL,
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFetchAppliesAuthHeaders(t *testing.T) {
	var bearer, apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer = r.Header.Get("Authorization")
		apiKey = r.Header.Get("auth-token")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := NewFetcher(1, time.Millisecond, time.Second)

	_, err := f.Fetch(context.Background(), &domain.WebhookConfig{
		Endpoint: srv.URL,
		Auth:     &domain.WebhookAuth{Enabled: true, Type: "bearer", Key: "secret"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", bearer)

	_, err = f.Fetch(context.Background(), &domain.WebhookConfig{
		Endpoint: srv.URL,
		Auth:     &domain.WebhookAuth{Enabled: true, Type: "api_key", Key: "k-123"},
	})
	require.NoError(t, err)
	assert.Equal(t, "k-123", apiKey)
}
