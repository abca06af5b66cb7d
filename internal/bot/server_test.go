package bot

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	b := testBot(&fakeTasks{}, &fakeNotifier{}, true)
	server := httptest.NewServer(NewServer(b, 0).Handler())
	t.Cleanup(server.Close)
	return server
}

func TestHealthEndpoint(t *testing.T) {
	server := testServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEventsURLVerificationEchoesChallenge(t *testing.T) {
	server := testServer(t)

	resp, err := http.Post(server.URL+"/slack/events", "application/json",
		strings.NewReader(`{"type":"url_verification","challenge":"ch4llenge","token":"tok"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := make([]byte, 32)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "ch4llenge", string(body[:n]))
}

func TestEventsRejectsGarbage(t *testing.T) {
	server := testServer(t)

	resp, err := http.Post(server.URL+"/slack/events", "application/json",
		strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInteractionsRejectsGarbage(t *testing.T) {
	server := testServer(t)

	resp, err := http.PostForm(server.URL+"/slack/interactions",
		url.Values{"payload": {"not json"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
