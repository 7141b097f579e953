package portalapi_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/schoolportal/internal/adapter/driven/portalapi"
)

func TestPendingRequest_RetryAdvancesAttemptOnCopy(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://portal.test/api/attendance/save/", strings.NewReader(`{"date":"2025-06-02"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	original, err := portalapi.NewPendingRequest(req)
	require.NoError(t, err)
	retry := original.Retry()

	assert.Equal(t, 0, original.Attempt)
	assert.True(t, original.CanRetry())
	assert.Equal(t, 1, retry.Attempt)
	assert.False(t, retry.CanRetry())
	assert.Equal(t, original.ID, retry.ID)
	assert.NotEmpty(t, original.ID)

	retry.Header.Set("X-Test", "retry")
	assert.Empty(t, original.Header.Get("X-Test"), "retry must not share headers with the original")
}

func TestPendingRequest_RequestReplaysBody(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://portal.test/api/admission/", strings.NewReader("payload"))
	require.NoError(t, err)

	pending, err := portalapi.NewPendingRequest(req)
	require.NoError(t, err)

	for range 2 {
		out, err := pending.Request(context.Background())
		require.NoError(t, err)
		body, err := io.ReadAll(out.Body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(body))
		assert.Equal(t, int64(len("payload")), out.ContentLength)
		assert.Equal(t, pending.ID, out.Header.Get("X-Request-ID"))
	}
}

func TestPendingRequest_KeepsCallerRequestID(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://portal.test/api/admin-dashboard/", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	pending, err := portalapi.NewPendingRequest(req)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", pending.ID)
	assert.Nil(t, pending.Body)
}
