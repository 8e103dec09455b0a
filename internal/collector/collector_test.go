package collector_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/wattmon/internal/collector"
	"codeberg.org/mutker/wattmon/internal/errors"
	"codeberg.org/mutker/wattmon/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBody(t *testing.T) {
	const payload = `kepler_node_package_joules_total 1024.5
`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	source, err := collector.NewHTTPSource(collector.Config{
		Endpoint: server.URL + "/metrics",
		Timeout:  5 * time.Second,
	}, logger.Default())
	require.NoError(t, err)

	text, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, text)
}

func TestFetchSelfSignedTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("m 1\n"))
	}))
	defer server.Close()

	source, err := collector.NewHTTPSource(collector.Config{
		Endpoint:           server.URL,
		Timeout:            5 * time.Second,
		InsecureSkipVerify: true,
	}, logger.Default())
	require.NoError(t, err)

	text, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "m 1\n", text)
}

func TestFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source, err := collector.NewHTTPSource(collector.Config{
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	}, logger.Default())
	require.NoError(t, err)

	_, err = source.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, collector.ErrUnexpectedStatus, errors.CodeOf(err))
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	source, err := collector.NewHTTPSource(collector.Config{
		Endpoint: server.URL,
		Timeout:  30 * time.Second,
	}, logger.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = source.Fetch(ctx)
	require.Error(t, err)
	assert.Equal(t, collector.ErrRequestFailed, errors.CodeOf(err))
}

func TestNewHTTPSourceRejectsEmptyEndpoint(t *testing.T) {
	_, err := collector.NewHTTPSource(collector.Config{Timeout: time.Second}, logger.Default())
	require.Error(t, err)
}
