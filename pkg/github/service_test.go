package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techtrack/techtrack/internal/utils"
)

var ctx = context.Background()
var clientStub = NewClientStub()

var goRepositories = RepositorySearch{
	TotalCount: 45678,
	Items: []Repository{
		{Name: "go", FullName: "golang/go", Stars: 120000},
		{Name: "hugo", FullName: "gohugoio/hugo", Stars: 75000},
		{Name: "kubernetes", FullName: "kubernetes/kubernetes", Stars: 110000},
		{Name: "moby", FullName: "moby/moby", Stars: 68000},
		{Name: "gin", FullName: "gin-gonic/gin", Stars: 77000},
	},
}

func setup(t *testing.T) (*ServiceImpl, *utils.MockClock, func()) {
	clock := utils.NewMockClock(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC))
	service := NewService(clientStub, NewMemoryCache(clock), 15*time.Minute)
	return service, clock, func() {
		t.Log("Teardown after test")
		clientStub.Reset()
	}
}

func TestServiceImpl_Lookup(t *testing.T) {
	t.Run("should build popularity from repositories and topics", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// given
		clientStub.SetRepositories("Go", goRepositories)
		clientStub.SetTopics("Go", []Topic{{Name: "go", DisplayName: "Go"}})

		// when
		popularity, err := service.Lookup(ctx, "  Go ")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Go", popularity.Name)
		assert.Equal(t, 45678, popularity.RepositoryCount)
		assert.Len(t, popularity.TopRepositories, 3)
		assert.Equal(t, "golang/go", popularity.TopRepositories[0].FullName)
		assert.Equal(t, []Topic{{Name: "go", DisplayName: "Go"}}, popularity.Topics)
		assert.Equal(t, 46, popularity.PopularityScore)
		assert.Equal(t, 59, popularity.APIInfo.Remaining)
	})

	t.Run("should reject blank name", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Lookup(ctx, "   ")

		// then
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("should report unavailable API when probe fails", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// given
		clientStub.rateLimitErr = errors.New("connection refused")

		// when
		_, err := service.Lookup(ctx, "Go")

		// then
		assert.ErrorIs(t, err, ErrAPIUnavailable)
		assert.Equal(t, 0, clientStub.RepositoryCalls())
	})

	t.Run("should pass rate limit error through", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// given
		clientStub.searchRepositoriesErr = ErrRateLimited

		// when
		_, err := service.Lookup(ctx, "Go")

		// then
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("should tolerate failing topic search", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// given
		clientStub.SetRepositories("Go", goRepositories)
		clientStub.searchTopicsErr = errors.New("boom")

		// when
		popularity, err := service.Lookup(ctx, "Go")

		// then
		require.NoError(t, err)
		assert.Equal(t, []Topic{}, popularity.Topics)
		assert.Equal(t, 45678, popularity.RepositoryCount)
	})

	t.Run("should serve repeated lookups from cache until expiry", func(t *testing.T) {
		service, clock, teardown := setup(t)
		defer teardown()

		// given
		clientStub.SetRepositories("Go", goRepositories)
		_, err := service.Lookup(ctx, "Go")
		require.NoError(t, err)

		// when
		_, err = service.Lookup(ctx, "go")
		require.NoError(t, err)
		callsBeforeExpiry := clientStub.RepositoryCalls()
		clock.Advance(16 * time.Minute)
		_, err = service.Lookup(ctx, "Go")
		require.NoError(t, err)

		// then
		assert.Equal(t, 1, callsBeforeExpiry)
		assert.Equal(t, 2, clientStub.RepositoryCalls())
	})

	t.Run("should share one upstream call between concurrent lookups", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// given
		clientStub.SetRepositories("Go", goRepositories)
		block := make(chan struct{})
		clientStub.mu.Lock()
		clientStub.block = block
		clientStub.mu.Unlock()

		// when
		var wg sync.WaitGroup
		results := make([]Popularity, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = service.Lookup(ctx, "Go")
			}(i)
		}
		require.Eventually(t, func() bool { return clientStub.RepositoryCalls() == 1 }, time.Second, time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		close(block)
		wg.Wait()

		// then
		assert.Equal(t, 1, clientStub.RepositoryCalls())
		for _, result := range results {
			assert.Equal(t, 45678, result.RepositoryCount)
		}
	})
}

func TestServiceImpl_Lookup_CallerCancellation(t *testing.T) {
	// given
	var rateLimitCalls atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rate_limit":
			rateLimitCalls.Add(1)
			started <- struct{}{}
			<-release
			_, _ = w.Write([]byte(`{"resources":{"core":{"limit":60,"remaining":58,"reset":1710064800}}}`))
		case "/search/repositories":
			_, _ = w.Write([]byte(`{"total_count": 2500, "items": [{"name": "go", "full_name": "golang/go", "stargazers_count": 120000}]}`))
		default:
			_, _ = w.Write([]byte(`{"total_count": 0, "items": []}`))
		}
	}))
	t.Cleanup(server.Close)
	clock := utils.NewMockClock(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC))
	service := NewService(NewClient(server.URL, "", 5*time.Second), NewMemoryCache(clock), 15*time.Minute)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := service.Lookup(firstCtx, "Go")
		firstErr <- err
	}()
	<-started

	second := make(chan Popularity, 1)
	secondErr := make(chan error, 1)
	go func() {
		popularity, err := service.Lookup(context.Background(), "Go")
		second <- popularity
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	// when
	cancelFirst()

	// then
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	// when
	close(release)

	// then
	require.NoError(t, <-secondErr)
	popularity := <-second
	assert.Equal(t, 2500, popularity.RepositoryCount)
	assert.Equal(t, 58, popularity.APIInfo.Remaining)
	assert.Equal(t, int32(1), rateLimitCalls.Load())

	cached, found, err := service.cache.Get(context.Background(), "go")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2500, cached.RepositoryCount)
}

func TestServiceImpl_Status(t *testing.T) {
	t.Run("should report available API with quota", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// when
		status := service.Status(ctx)

		// then
		assert.True(t, status.Available)
		require.NotNil(t, status.RateLimit)
		assert.Equal(t, 60, status.RateLimit.Limit)
	})

	t.Run("should report unavailable API", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// given
		clientStub.rateLimitErr = errors.New("timeout")

		// when
		status := service.Status(ctx)

		// then
		assert.Equal(t, APIStatus{Available: false}, status)
	})
}

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 0},
		{499, 0},
		{500, 1},
		{45678, 46},
		{100000, 100},
		{100001, 100},
		{5000000, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PopularityScore(tt.count), "count %d", tt.count)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{45678, "45.7k"},
		{1000000, "1.0M"},
		{2345678, "2.3M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.count))
	}
}
