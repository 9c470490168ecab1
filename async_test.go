package nslsolver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveTurnstileAsync(t *testing.T) {
	server := jsonServer(t, nil, http.StatusOK, `{"token":"abc","type":"turnstile","success":true}`)
	c, _ := newTestClient(t, server.URL)

	f := c.SolveTurnstileAsync(context.Background(), TurnstileParams{SiteKey: "key", URL: "https://example.com"})
	res, err := f.Wait()
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done should be closed after Wait returns")
	}
}

func TestSolveChallengeAsyncError(t *testing.T) {
	server := jsonServer(t, nil, http.StatusPaymentRequired, `{"error":"no funds"}`)
	c, _ := newTestClient(t, server.URL)

	res, err := c.SolveChallengeAsync(context.Background(), ChallengeParams{URL: "https://e.com", Proxy: "http://p:1"}).Wait()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestGetBalanceAsyncConcurrent(t *testing.T) {
	server := jsonServer(t, nil, http.StatusOK, `{"balance":3,"max_threads":2,"allowed_types":["turnstile"]}`)
	c, _ := newTestClient(t, server.URL)

	futures := make([]*Future[*BalanceResult], 8)
	for i := range futures {
		futures[i] = c.GetBalanceAsync(context.Background())
	}
	for _, f := range futures {
		res, err := f.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3.0, res.Balance)
	}
}

func TestFutureAwaitContextDone(t *testing.T) {
	release := make(chan struct{})
	f := runAsync(func() (int, error) {
		<-release
		return 1, nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	v, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, v)
}
