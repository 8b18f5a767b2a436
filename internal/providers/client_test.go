package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
)

type memoryCache struct {
	mu    sync.Mutex
	pages map[string]string
}

func (c *memoryCache) GetPage(_ context.Context, url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.pages[url]
	return body, ok
}

func (c *memoryCache) SetPage(_ context.Context, url, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pages == nil {
		c.pages = map[string]string{}
	}
	c.pages[url] = body
	return nil
}

func newStatsServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/players/j/jamesle01/gamelog/2024", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "lineup-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(gameLogPage(uniformGames(3, line(20, 5, 5, 1, 1, 2)))))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchPage(t *testing.T) {
	var hits int32
	server := newStatsServer(t, &hits)
	client := NewBasketballReferenceClient(ClientOptions{UserAgent: "lineup-test", FetchTimeout: time.Second}, testLogger())

	body, err := client.Fetch(context.Background(), server.URL+"/players/j/jamesle01/gamelog/2024")
	require.NoError(t, err)
	assert.Contains(t, body, "pgl_basic")
}

func TestClient_StatusErrors(t *testing.T) {
	var hits int32
	server := newStatsServer(t, &hits)
	client := NewBasketballReferenceClient(ClientOptions{UserAgent: "lineup-test"}, testLogger())

	_, err := client.Fetch(context.Background(), server.URL+"/players/x/nobody01/gamelog/2024")
	require.Error(t, err)
	assert.ErrorIs(t, err, dfs.ErrNetwork)
	assert.True(t, IsMissing(err))

	_, err = client.Fetch(context.Background(), server.URL+"/broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, dfs.ErrNetwork)
	assert.False(t, IsMissing(err))
}

func TestClient_CacheSkipsNetwork(t *testing.T) {
	var hits int32
	server := newStatsServer(t, &hits)
	cache := &memoryCache{}
	client := NewBasketballReferenceClient(ClientOptions{UserAgent: "lineup-test", Cache: cache}, testLogger())
	url := server.URL + "/players/j/jamesle01/gamelog/2024"

	first, err := client.Fetch(context.Background(), url)
	require.NoError(t, err)
	second, err := client.Fetch(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_MissingPagesDoNotTripBreaker(t *testing.T) {
	var hits int32
	server := newStatsServer(t, &hits)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "test",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
		Timeout: time.Minute,
	})
	client := NewBasketballReferenceClient(ClientOptions{UserAgent: "lineup-test", Breaker: breaker}, testLogger())

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), server.URL+"/players/x/nobody01/gamelog/2024")
		assert.True(t, IsMissing(err))
	}
	assert.Equal(t, gobreaker.StateClosed, breaker.State())

	for i := 0; i < 2; i++ {
		_, _ = client.Fetch(context.Background(), server.URL+"/broken")
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	before := atomic.LoadInt32(&hits)
	_, err := client.Fetch(context.Background(), server.URL+"/players/j/jamesle01/gamelog/2024")
	assert.ErrorIs(t, err, dfs.ErrNetwork)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, atomic.LoadInt32(&hits), "open breaker short-circuits")
}

func TestClient_RequestDelaySpacesFetches(t *testing.T) {
	var hits int32
	server := newStatsServer(t, &hits)
	client := NewBasketballReferenceClient(ClientOptions{UserAgent: "lineup-test", RequestDelay: 50 * time.Millisecond}, testLogger())
	url := server.URL + "/players/j/jamesle01/gamelog/2024"

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), url)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestNewRequestLimiter(t *testing.T) {
	unlimited := NewRequestLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.Allow())
	}

	limited := NewRequestLimiter(time.Hour)
	assert.True(t, limited.Allow(), "first request is not delayed")
	assert.False(t, limited.Allow())
}
