package relay_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogscope/relay"
)

func TestFetchFallsBackInOrder(t *testing.T) {
	var order []string

	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "A")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "B")
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srvB.Close()
	srvC := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "C")
		w.Write([]byte("payload from C"))
	}))
	defer srvC.Close()

	client := relay.New(relay.Config{
		Endpoints: []string{srvA.URL + "/?u=", srvB.URL + "/?u=", srvC.URL + "/?u="},
		Timeout:   2 * time.Second,
	})

	body, err := client.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "payload from C", string(body))
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

func TestFetchStopsAtFirstSuccess(t *testing.T) {
	var hitB bool

	srvA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("from A"))
	}))
	defer srvA.Close()
	srvB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitB = true
		w.Write([]byte("from B"))
	}))
	defer srvB.Close()

	client := relay.New(relay.Config{
		Endpoints: []string{srvA.URL + "/?u=", srvB.URL + "/?u="},
		Timeout:   2 * time.Second,
	})

	body, err := client.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "from A", string(body))
	assert.False(t, hitB)
}

func TestFetchExhaustedCarriesGuidance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := relay.New(relay.Config{
		Endpoints: []string{srv.URL + "/?u="},
		Timeout:   time.Second,
	})

	_, err := client.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	var exhausted *relay.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Contains(t, exhausted.Error(), "all relays failed")
	assert.Contains(t, exhausted.Error(), "ad-blockers")

	// No captured cause at all: generic connectivity guidance.
	empty := &relay.ExhaustedError{Target: "https://example.com"}
	assert.Contains(t, empty.Error(), "ad-blockers")
}

func TestFetchAppendsCacheBuster(t *testing.T) {
	var gotTarget string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("u")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := relay.New(relay.Config{
		Endpoints: []string{srv.URL + "/?u="},
		Timeout:   time.Second,
	})

	_, err := client.Fetch(context.Background(), "https://example.com/feed?alt=json")
	require.NoError(t, err)

	target, err := url.Parse(gotTarget)
	require.NoError(t, err)
	assert.Equal(t, "json", target.Query().Get("alt"))
	assert.NotEmpty(t, target.Query().Get("t"), "cache-busting timestamp should be appended")
}
