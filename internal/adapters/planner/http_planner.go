package planner

import (
	"context"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/platform/obs"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 8 << 20

// HTTPPlanner implements ports.Planner against a remote optimization
// endpoint. It is safe for concurrent use.
type HTTPPlanner struct {
	session     *http.Client
	endpoint    string
	dialect     Dialect
	maxAttempts int
	backoff     time.Duration
}

type Option func(*HTTPPlanner)

// WithHTTPClient replaces the default client, e.g. to share a transport.
func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPPlanner) { p.session = c }
}

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(p *HTTPPlanner) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			p.backoff = backoff
		}
	}
}

func NewHTTPPlanner(endpoint string, dialect Dialect, timeout time.Duration, opts ...Option) (*HTTPPlanner, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("planner endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	p := &HTTPPlanner{
		session:     &http.Client{Timeout: timeout},
		endpoint:    endpoint,
		dialect:     dialect,
		maxAttempts: 3,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *HTTPPlanner) Dialect() Dialect { return p.dialect }

func (p *HTTPPlanner) Plan(ctx context.Context, req domain.PlanningRequest) (_ domain.PlanningResult, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	payload, err := p.dialect.EncodeRequest(req)
	if err != nil {
		return domain.PlanningResult{}, fmt.Errorf("plan: %w", err)
	}

	resp, err := p.postWithRetry(ctx, payload)
	if err != nil {
		te := &domain.TransportError{Op: "POST " + p.endpoint, Err: err}
		var se *statusError
		if errors.As(err, &se) {
			te.StatusCode = se.Code
		}
		return domain.PlanningResult{}, te
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.PlanningResult{}, &domain.TransportError{Op: "read body", StatusCode: resp.StatusCode, Err: err}
	}

	result, err := p.dialect.DecodeResult(req, body)
	if err != nil {
		log.Printf("planner: rejected response dialect=%s bytes=%d err=%v", p.dialect.Name, len(body), err)
		return domain.PlanningResult{}, err
	}

	return result, nil
}
