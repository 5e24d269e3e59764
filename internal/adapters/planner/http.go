package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// statusError is a planner reply outside 2xx. Body is a trimmed excerpt.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("planner replied %d", e.Code)
	}
	return fmt.Sprintf("planner replied %d: %s", e.Code, e.Body)
}

// transient reports whether another attempt may succeed: the planner was
// unreachable, timed out, throttled us or failed on its side.
func transient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests ||
			se.Code == http.StatusInternalServerError ||
			se.Code == http.StatusBadGateway ||
			se.Code == http.StatusServiceUnavailable ||
			se.Code == http.StatusGatewayTimeout
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// delay is the pause before the given retry (1-based): backoff doubled per retry.
func (p *HTTPPlanner) delay(retry int) time.Duration {
	return p.backoff << (retry - 1)
}

// Budget is the longest a Plan call can take: every attempt running to the
// client timeout plus every backoff pause in between.
func (p *HTTPPlanner) Budget() time.Duration {
	total := time.Duration(p.maxAttempts) * p.session.Timeout
	for retry := 1; retry < p.maxAttempts; retry++ {
		total += p.delay(retry)
	}
	return total
}

// post sends payload once. The caller owns the returned body.
func (p *HTTPPlanner) post(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}
	return resp, nil
}

// postWithRetry repeats post on transient failures until the attempt
// budget is spent or ctx is done.
func (p *HTTPPlanner) postWithRetry(ctx context.Context, payload []byte) (*http.Response, error) {
	var err error
	for attempt := 1; ; attempt++ {
		var resp *http.Response
		if resp, err = p.post(ctx, payload); err == nil {
			return resp, nil
		}
		if attempt >= p.maxAttempts || !transient(err) || ctx.Err() != nil {
			return nil, err
		}

		wait := p.delay(attempt)
		log.Printf("planner: attempt=%d failed, retrying in %s: %v", attempt, wait, err)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, errors.Join(err, ctx.Err())
		case <-t.C:
		}
	}
}
