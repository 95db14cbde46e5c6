// Package gateway sends every console call to the remote Skill Tracker API.
//
// The gateway owns the base endpoint and the credential header: before each
// request it reads the workspace's session.Store and, when a record with an
// access token exists, sets "Authorization: Bearer <token>". Responses are
// never reinterpreted here; non-2xx answers come back as
// *xerrors.ResponseError and transport failures as *xerrors.NetworkError.
// There are no retries.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xerrors "skilltracker-console/internal/pkg/errors"
	"skilltracker-console/internal/pkg/session"

	"go.uber.org/zap"
)

const maxResponseBytes = 4 << 20

// Requester is the verb-shaped surface the remote repositories depend on.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, query url.Values, body, out any) error
	Put(ctx context.Context, path string, query url.Values, body, out any) error
	Delete(ctx context.Context, path string, query url.Values, out any) error
}

type Gateway struct {
	base    *url.URL
	client  *http.Client
	store   session.Store
	metrics *Metrics
	logger  *zap.Logger
}

// New builds a gateway bound to one workspace's store. metrics may be nil.
func New(base *url.URL, client *http.Client, store session.Store, metrics *Metrics, logger *zap.Logger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		base:    base,
		client:  client,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// ParseBaseURL validates the configured API endpoint.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: missing host", raw)
	}
	return u, nil
}

func (g *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodGet, path, query, nil, out)
}

func (g *Gateway) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return g.do(ctx, http.MethodPost, path, query, body, out)
}

func (g *Gateway) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return g.do(ctx, http.MethodPut, path, query, body, out)
}

func (g *Gateway) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodDelete, path, query, nil, out)
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := g.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.metrics.observe(method, path, "error", time.Since(start))
		g.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return &xerrors.NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	g.metrics.observe(method, path, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return &xerrors.NetworkError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &xerrors.ResponseError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   data,
		}
	}

	return decodeBody(data, out)
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := g.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec, err := g.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session for %s %s: %w", method, path, err)
	}
	if rec.HasCredential() {
		req.Header.Set("Authorization", "Bearer "+rec.AccessToken)
	}

	return req, nil
}

// decodeBody fills out from a 2xx body. *string receives the raw text, any
// other pointer is JSON-decoded; an empty body leaves out untouched.
func decodeBody(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(data)
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
