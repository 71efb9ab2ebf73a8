// Package api is a typed client for the remote talent-acquisition REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/metrics"
	"github.com/jonathan/careers-portal/internal/schemas"
	"github.com/jonathan/careers-portal/internal/types"
)

const (
	defaultTimeout = 100 * time.Second
	maxBodyBytes   = 8 << 20
)

// Remote endpoints, relative to the base URL.
const (
	PathJobList           = "talent-acquisition/job-requisition/get-all"
	PathApplicationCreate = "talent-acquisition/application/create"
	PathCandidateCreate   = "talent-acquisition/candidate/create"
	PathCandidateLogin    = "talent-acquisition/candidate/login"
	PathCandidateGet      = "talent-acquisition/candidate/get"
	PathCandidateUpdate   = "talent-acquisition/candidate/update"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	AuthScheme string // "" sends the raw token
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client calls the talent-acquisition API.
type Client struct {
	baseURL    string
	authScheme string
	httpClient *http.Client
	log        *logging.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		authScheme: cfg.AuthScheme,
		httpClient: httpClient,
		log:        log.With("component", "api"),
	}, nil
}

// request describes one remote call.
type request struct {
	op          string
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
	envelope    schemas.Envelope
}

func (c *Client) authorization(token string) string {
	if c.authScheme == "" {
		return token
	}
	return c.authScheme + " " + token
}

// do performs the call and returns the envelope-checked body.
func (c *Client) do(ctx context.Context, r request) (body []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(r.op).Observe(time.Since(start).Seconds())
		metrics.APIRequests.WithLabelValues(r.op, outcome(err)).Inc()
		if err != nil {
			c.log.Warn("api call failed", "op", r.op, "error", err, "duration", time.Since(start))
		} else {
			c.log.Debug("api call", "op", r.op, "duration", time.Since(start))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+"/"+r.path, r.body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: r.op, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", c.authorization(r.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: r.op, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: r.op, Status: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:    KindTransport,
			Op:      r.op,
			Status:  resp.StatusCode,
			Message: errorMessage(body),
		}
	}

	if err := schemas.ValidateEnvelope(r.envelope, body); err != nil {
		return nil, &Error{Kind: KindDecode, Op: r.op, Status: resp.StatusCode, Cause: err}
	}

	var env types.StatusResponse
	if err := decodeJSON(body, &env); err != nil {
		return nil, &Error{Kind: KindDecode, Op: r.op, Status: resp.StatusCode, Cause: err}
	}
	if env.Failed() {
		return nil, businessError(r.op, env)
	}
	return body, nil
}

func (c *Client) doJSON(ctx context.Context, r request, in, out any) error {
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api %s: encode request: %w", r.op, err)
		}
		r.body = bytes.NewReader(payload)
		r.contentType = "application/json"
	}

	body, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if err := decodeJSON(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: r.op, Cause: err}
	}
	return nil
}

// file is a multipart file part.
type file struct {
	field  string
	upload *types.Upload
}

func (c *Client) doMultipart(ctx context.Context, r request, fields [][2]string, files []file, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return fmt.Errorf("api %s: write field %s: %w", r.op, kv[0], err)
		}
	}
	for _, f := range files {
		if f.upload == nil {
			continue
		}
		part, err := mw.CreateFormFile(f.field, f.upload.Filename)
		if err != nil {
			return fmt.Errorf("api %s: create file part %s: %w", r.op, f.field, err)
		}
		if _, err := part.Write(f.upload.Data); err != nil {
			return fmt.Errorf("api %s: write file part %s: %w", r.op, f.field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("api %s: close multipart body: %w", r.op, err)
	}

	r.body = &buf
	r.contentType = mw.FormDataContentType()

	body, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if err := decodeJSON(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: r.op, Cause: err}
	}
	return nil
}

func decodeJSON(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(body, out)
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return metrics.OutcomeTransport
	}
	switch apiErr.Kind {
	case KindBusiness:
		return metrics.OutcomeBusiness
	case KindDecode:
		return metrics.OutcomeDecode
	default:
		return metrics.OutcomeTransport
	}
}
