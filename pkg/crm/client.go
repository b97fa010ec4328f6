package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Gobusters/ectologger"

	cloverErrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB).
	MaxResponseSize = 10 * 1024 * 1024
)

// ClientConfig holds HTTP store configuration.
type ClientConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxAttempts     int
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultClientConfig returns default HTTP store configuration.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:         baseURL,
		Timeout:         DefaultTimeout,
		MaxAttempts:     4,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
}

// Client is the HTTP implementation of Store. Transient failures (network
// errors and 5xx responses) are retried with fibonacci backoff; every store
// write is idempotent on the remote side so retries are safe.
type Client struct {
	cfg    ClientConfig
	schema *fields.Config
	client *http.Client
	logger ectologger.Logger
}

var _ Store = (*Client)(nil)

// NewClient creates an HTTP store client.
func NewClient(cfg ClientConfig, schema *fields.Config, logger ectologger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	transport := &http.Transport{
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}
	return &Client{
		cfg:    cfg,
		schema: schema,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) Get(ctx context.Context, id string) (*models.Member, error) {
	ctx, span := tracing.StartSpan(ctx, "crm.Get")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, "/members/"+url.PathEscape(id), nil, "member", id)
	if err != nil {
		return nil, err
	}
	return DecodeMember(body, c.schema)
}

func (c *Client) Find(ctx context.Context, q Query) ([]*models.Member, error) {
	ctx, span := tracing.StartSpan(ctx, "crm.Find")
	defer span.End()

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/members/query", payload, "member", "")
	if err != nil {
		if cloverErrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var docs []memberDocument
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode query results: %w", err)
	}
	members := make([]*models.Member, 0, len(docs))
	for _, doc := range docs {
		m, err := docToMember(doc, c.schema)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func (c *Client) Save(ctx context.Context, m *models.Member) (*models.Member, error) {
	ctx, span := tracing.StartSpan(ctx, "crm.Save")
	defer span.End()

	payload, err := EncodeMember(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode member: %w", err)
	}

	method, path := http.MethodPost, "/members"
	if m.ID != "" {
		method, path = http.MethodPut, "/members/"+url.PathEscape(m.ID)
	}
	body, err := c.do(ctx, method, path, payload, "member", m.ID)
	if err != nil {
		return nil, err
	}
	return DecodeMember(body, c.schema)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "crm.Delete")
	defer span.End()

	_, err := c.do(ctx, http.MethodDelete, "/members/"+url.PathEscape(id), nil, "member", id)
	return err
}

func (c *Client) GetDebtor(ctx context.Context, id string) (*models.Debtor, error) {
	ctx, span := tracing.StartSpan(ctx, "crm.GetDebtor")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, "/debtors/"+url.PathEscape(id), nil, "debtor", id)
	if err != nil {
		return nil, err
	}
	var d models.Debtor
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("failed to decode debtor: %w", err)
	}
	return &d, nil
}

func (c *Client) PutDebtor(ctx context.Context, d *models.Debtor) error {
	ctx, span := tracing.StartSpan(ctx, "crm.PutDebtor")
	defer span.End()

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode debtor: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, "/debtors/"+url.PathEscape(d.ID), payload, "debtor", d.ID)
	return err
}

func (c *Client) GroupSubtree(ctx context.Context, id string) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "crm.GroupSubtree")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, "/groups/"+url.PathEscape(id)+"/subtree", nil, "group", id)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode group subtree: %w", err)
	}
	return ids, nil
}

// do executes one request with retries and maps status codes onto the error
// taxonomy.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, kind, id string) ([]byte, error) {
	op := method + " " + path
	var lastErr error

	// Fibonacci backoff sequence
	a, b := 1, 1
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		body, retryable, err := c.doOnce(ctx, method, path, payload, kind, id)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if attempt == c.cfg.MaxAttempts {
			break
		}
		waitTime := time.Duration(a) * time.Second
		c.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"operation": op,
			"attempt":   attempt,
		}).Warnf("CRM request failed, retrying in %s", waitTime)

		select {
		case <-ctx.Done():
			return nil, cloverErrors.NewTransport(op, ctx.Err())
		case <-time.After(waitTime):
		}
		a, b = b, a+b
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, kind, id string) (body []byte, retryable bool, err error) {
	op := method + " " + path

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, false, cloverErrors.NewTransport(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, cloverErrors.NewTransport(op, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, true, cloverErrors.NewTransport(op, err)
	}
	if len(body) > MaxResponseSize {
		return nil, false, cloverErrors.NewTransport(op, fmt.Errorf("response too large: max %d bytes", MaxResponseSize))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, false, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, cloverErrors.NewNotFound(kind, id)
	case resp.StatusCode == http.StatusLocked:
		return nil, false, cloverErrors.NewDebtorNotWritable(id)
	case resp.StatusCode >= 500:
		return nil, true, cloverErrors.NewTransport(op, fmt.Errorf("store returned status %d", resp.StatusCode))
	default:
		return nil, false, cloverErrors.NewTransport(op, fmt.Errorf("store returned status %d: %s", resp.StatusCode, truncate(body, 200)))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
