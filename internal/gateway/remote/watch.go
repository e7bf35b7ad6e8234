package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/five82/siswa/internal/api"
	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/siswa"
)

const (
	maxBackoff = 30 * time.Second
	// minPollGap keeps a server that ignores wait_ms from being hammered.
	minPollGap = 500 * time.Millisecond
)

// SubscribeAll fetches the collection once, failing fast when the server is
// unreachable, then long-polls for changes until ctx is cancelled.
//
// Snapshot versions are local to the subscription: they count deliveries, so
// a server restart that resets its change counter still yields increasing
// versions.
func (c *Client) SubscribeAll(ctx context.Context) (<-chan gateway.Snapshot, error) {
	first, err := c.fetchList(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	out := make(chan gateway.Snapshot, 1)
	out <- gateway.Snapshot{Version: 1, Records: first.Items}

	go func() {
		defer close(out)
		c.follow(ctx, first.Version, out)
	}()
	return out, nil
}

func (c *Client) follow(ctx context.Context, cursor uint64, out chan<- gateway.Snapshot) {
	var seq uint64 = 1
	failures := 0

	for {
		started := time.Now()
		resp, err := c.fetchList(ctx, cursor, c.longPoll)
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			failures++
			c.log.Warn("subscription poll failed", "err", err, "failures", failures)
			if !send(ctx, out, gateway.Snapshot{Version: seq, Err: err}) {
				return
			}
			if !sleep(ctx, calculateBackoff(failures-1, c.retryBase)) {
				return
			}
			continue
		}

		recovered := failures > 0
		failures = 0
		if resp.Version == cursor && !recovered {
			// Long poll expired without a change.
			if elapsed := time.Since(started); elapsed < minPollGap {
				if !sleep(ctx, minPollGap-elapsed) {
					return
				}
			}
			continue
		}

		cursor = resp.Version
		seq++
		if !send(ctx, out, gateway.Snapshot{Version: seq, Records: resp.Items}) {
			return
		}
	}
}

func (c *Client) fetchList(ctx context.Context, since uint64, wait time.Duration) (api.ListResponse, error) {
	values := url.Values{}
	if since > 0 {
		values.Set(api.ParamSince, strconv.FormatUint(since, 10))
	}
	if wait > 0 {
		values.Set(api.ParamWaitMS, strconv.FormatInt(wait.Milliseconds(), 10))
	}
	rel := &url.URL{Path: api.CollectionPath, RawQuery: values.Encode()}

	reqCtx, cancel := context.WithTimeout(ctx, wait+requestTimeout)
	defer cancel()

	var payload api.ListResponse
	if err := c.doURL(reqCtx, http.MethodGet, rel, nil, &payload); err != nil {
		return api.ListResponse{}, err
	}
	if payload.Items == nil {
		payload.Items = []siswa.Record{}
	}
	return payload, nil
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func send(ctx context.Context, out chan<- gateway.Snapshot, snap gateway.Snapshot) bool {
	select {
	case out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
