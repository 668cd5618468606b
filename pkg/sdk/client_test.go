package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL)
}

// writeEnvelope serializes a response through the same envelope the
// backend uses
func writeEnvelope[T any](t *testing.T, w http.ResponseWriter, resp ApiResponse[T]) {
	t.Helper()

	body, err := resp.AsJSON()
	require.NoError(t, err)

	w.WriteHeader(resp.Code)
	w.Write([]byte(body))
}

func TestClientHealth(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the service map", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			writeEnvelope(t, w, NewSuccessResponse("OK", &HealthResponse{
				Status:   "healthy",
				Services: map[string]string{"database": "connected"},
			}))
		})

		health, err := client.Health(ctx)
		require.NoError(t, err)
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "connected", health.Services["database"])
	})

	t.Run("error envelope surfaces as an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, NewErrorResponse(http.StatusInternalServerError, "database down", nil))
		})

		_, err := client.Health(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database down")
	})
}
