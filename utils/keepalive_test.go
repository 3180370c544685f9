package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartKeepAlive_PingsUntilCancelled(t *testing.T) {
	var pings int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&pings, 1)
		w.Write([]byte("Awaking Server"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	StartKeepAlive(ctx, server.URL, 10*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&pings) < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 pings, got %d", atomic.LoadInt64(&pings))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := atomic.LoadInt64(&pings)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt64(&pings), "pings must stop after cancel")
}
