package hardcover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"me":{"username":"alice","name":"Alice"}}}`))
	}))
	defer srv.Close()

	client := NewClient("test-token")
	client.url = srv.URL

	payload, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotBody.Query, "currently_reading")
	assert.Contains(t, gotBody.Query, "recently_read")

	me := NormalizeMe(payload.Me)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "Alice", me.Name)
}

func TestClient_FetchGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"field 'genres' not found"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-token")
	client.url = srv.URL

	_, err := client.Fetch(context.Background())
	require.Error(t, err)

	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	require.Len(t, qerr.Errors, 1)
	assert.Equal(t, "field 'genres' not found", qerr.Errors[0].Message)
	assert.Contains(t, qerr.Error(), "genres")
}

func TestClient_FetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid token"))
	}))
	defer srv.Close()

	client := NewClient("bad-token")
	client.url = srv.URL

	_, err := client.Fetch(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
	assert.Contains(t, terr.Body, "invalid token")
}

func TestClient_FetchServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Immediately closed: connection refused

	client := NewClient("test-token")
	client.url = srv.URL

	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("test-token")
	assert.Equal(t, DefaultURL, client.url)
}
