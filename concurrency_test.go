package v2ex

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdxj/v2ex-api/pkg/ratelimit"
)

// TestConcurrentCallsShareOneTracker issues many calls from many goroutines
// against a shared client and checks that the tracker always holds a value
// some response actually carried. Run with -race.
func TestConcurrentCallsShareOneTracker(t *testing.T) {
	var served atomic.Int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := served.Add(1)
		w.Header().Set(ratelimit.HeaderLimit, "600")
		w.Header().Set(ratelimit.HeaderRemaining, strconv.FormatInt(600-n%600, 10))
		w.Header().Set(ratelimit.HeaderReset, "3600")
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	})

	const goroutines = 16
	const callsEach = 25

	ctx := context.Background()
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < callsEach; i++ {
				_, err := client.GetNotifications(ctx, i)
				assert.NoError(t, err)

				// Tracker reads never block on in-flight calls.
				snap := client.RateLimit().Snapshot()
				assert.Equal(t, uint16(600), snap.Limit)
				assert.LessOrEqual(t, snap.Remaining, uint16(600))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(goroutines*callsEach), served.Load())
	assert.Equal(t, int64(3600), client.RateLimit().Reset())
}

// TestAbandonedCallDoesNotAffectOthers cancels one call mid-flight and
// checks that concurrent calls complete and keep updating the tracker.
func TestAbandonedCallDoesNotAffectOthers(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") == "99" {
			<-release
			return
		}
		w.Header().Set(ratelimit.HeaderLimit, "600")
		w.Header().Set(ratelimit.HeaderRemaining, "500")
		w.Header().Set(ratelimit.HeaderReset, "1800")
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.GetNotifications(ctx, 99)
		done <- err
	}()

	cancel()
	require.Error(t, <-done)

	// Other calls proceed normally on the same client.
	resp, err := client.GetNotifications(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, uint16(500), client.RateLimit().Remaining())
}
