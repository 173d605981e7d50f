// Package gateway translates roster operations into requests against the
// student collection endpoint and maps every failure onto the error types in
// pkg/errors. Each call is exactly one request: no retries, caching or batching.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/student"
	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

// CollectionPath is the student resource path on the configured host.
const CollectionPath = "/api/v1/students"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxBodyBytes = 8 << 20

// Gateway is the set of remote operations the roster needs.
type Gateway interface {
	List(ctx context.Context) ([]student.Record, error)
	Create(ctx context.Context, draft student.Draft) (student.Record, error)
	Update(ctx context.Context, id string, draft student.Draft) (student.Record, error)
	Remove(ctx context.Context, id string) error
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Client implements Gateway over HTTP.
type Client struct {
	collection string
	http       *http.Client
	log        *logger.Logger
	newID      func() string
}

var _ Gateway = (*Client)(nil)

// New creates a Client for the host in opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		collection: strings.TrimRight(base.String(), "/") + CollectionPath,
		http:       httpClient,
		log:        opts.Logger,
		newID:      uuid.NewString,
	}, nil
}

// CollectionURL returns the absolute URL of the student collection.
func (c *Client) CollectionURL() string {
	return c.collection
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]student.Record, error) {
	const op = "list students"

	body, err := c.send(ctx, op, http.MethodGet, c.collection, nil, "")
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, rostererrors.NewDecodeError(op, errors.New("expected a JSON array of students"))
	}

	var records []student.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, rostererrors.NewDecodeError(op, err)
	}
	for i, r := range records {
		if err := student.ValidateRecord(r); err != nil {
			return nil, rostererrors.NewDecodeError(op, fmt.Errorf("element %d: %w", i, err))
		}
	}
	if records == nil {
		records = []student.Record{}
	}
	return records, nil
}

// Create posts a new record. The draft must already be validated.
func (c *Client) Create(ctx context.Context, draft student.Draft) (student.Record, error) {
	const op = "create student"

	body, err := c.send(ctx, op, http.MethodPost, c.collection, toWire(draft), "")
	if err != nil {
		return student.Record{}, err
	}
	return decodeRecord(op, body)
}

// Update replaces the fields of record id.
func (c *Client) Update(ctx context.Context, id string, draft student.Draft) (student.Record, error) {
	const op = "update student"

	if strings.TrimSpace(id) == "" {
		return student.Record{}, rostererrors.NewValidationError("id", "is required", nil)
	}

	body, err := c.send(ctx, op, http.MethodPut, c.itemURL(id), toWire(draft), id)
	if err != nil {
		return student.Record{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		// Some servers answer 204 to a PUT; the stored values are the ones sent.
		d := draft.Normalized()
		return student.Record{ID: id, Name: d.Name, Major: d.Major, EnrollmentYear: d.EnrollmentYear}, nil
	}
	return decodeRecord(op, body)
}

// Remove deletes record id. A missing record yields a *errors.NotFoundError.
func (c *Client) Remove(ctx context.Context, id string) error {
	const op = "delete student"

	if strings.TrimSpace(id) == "" {
		return rostererrors.NewValidationError("id", "is required", nil)
	}

	_, err := c.send(ctx, op, http.MethodDelete, c.itemURL(id), nil, id)
	return err
}

func (c *Client) itemURL(id string) string {
	return c.collection + "/" + url.PathEscape(id)
}

// send performs one request and returns the body of a 2xx response. target
// names the record for 404 mapping; it is empty for collection requests.
func (c *Client) send(ctx context.Context, op, method, endpoint string, payload any, target string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.With("request_id", requestID).Error(err, op+" failed")
		return nil, rostererrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.log.Request(method, req.URL.Path, resp.StatusCode, time.Since(started), requestID)
	if err != nil {
		return nil, rostererrors.NewNetworkError(op, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, classify(op, resp.StatusCode, body, target, payload != nil)
}

func classify(op string, status int, body []byte, target string, mutation bool) error {
	message := serverMessage(body)
	switch {
	case status == http.StatusNotFound && target != "":
		return rostererrors.NewNotFoundError(target)
	case mutation && (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity):
		if message == "" {
			message = http.StatusText(status)
		}
		return rostererrors.NewValidationError("", message, rostererrors.NewHTTPError(op, status, message))
	default:
		return rostererrors.NewHTTPError(op, status, message)
	}
}

// errorEnvelope matches the {"status":"error","error":"..."} body the
// student service returns, plus the common {"message":"..."} variant.
type errorEnvelope struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func serverMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

type wireDraft struct {
	Name           string `json:"name"`
	Major          string `json:"major"`
	EnrollmentYear int    `json:"enrollment_year"`
}

func toWire(d student.Draft) wireDraft {
	d = d.Normalized()
	return wireDraft{Name: d.Name, Major: d.Major, EnrollmentYear: d.EnrollmentYear}
}

func decodeRecord(op string, body []byte) (student.Record, error) {
	var record student.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return student.Record{}, rostererrors.NewDecodeError(op, err)
	}
	if err := student.ValidateRecord(record); err != nil {
		return student.Record{}, rostererrors.NewDecodeError(op, err)
	}
	return record, nil
}
