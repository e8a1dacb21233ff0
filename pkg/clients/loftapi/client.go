// Package loftapi is a Go client for the loft management HTTP API.
package loftapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// ErrUnauthorized is returned when the API answers 401.
var ErrUnauthorized = errors.New("loftapi: unauthorized")

const (
	// DefaultRetries is how many times a failed GET is retried.
	DefaultRetries = 2
	// DefaultRetryDelay is the fixed pause between GET attempts.
	DefaultRetryDelay = 500 * time.Millisecond
)

// APIError is a non-2xx answer other than 401.
type APIError struct {
	Status  int
	Message string `json:"error"`
	Fields  []struct {
		Field      string `json:"field"`
		Constraint string `json:"constraint"`
	} `json:"fields"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("loftapi: %d %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+":"+f.Constraint)
	}
	return fmt.Sprintf("loftapi: %d %s (%s)", e.Status, e.Message, strings.Join(parts, ", "))
}

// Option tunes a Client.
type Option func(*resty.Client)

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryWaitTime(d).SetRetryMaxWaitTime(d)
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// Client talks to the API with a bearer token.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for baseURL. token may be empty until Login.
func NewClient(baseURL, token string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(15*time.Second).
		SetRetryCount(DefaultRetries).
		SetRetryWaitTime(DefaultRetryDelay).
		SetRetryMaxWaitTime(DefaultRetryDelay).
		AddRetryCondition(retryable)
	if token != "" {
		rc.SetAuthToken(token)
	}
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

// retryable allows retries on GET only, after a network error or a 5xx.
func retryable(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || r.StatusCode() >= http.StatusInternalServerError
}

func (c *Client) do(req *resty.Request, method, path string) error {
	apiErr := new(APIError)
	resp, err := req.SetError(apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("loftapi: %s %s: %w", method, path, err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.IsError():
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}

// Session is the login answer.
type Session struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// Login exchanges credentials for a token and uses it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	out := new(Session)
	req := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(out)
	if err := c.do(req, http.MethodPost, "/auth/login"); err != nil {
		return nil, err
	}
	c.http.SetAuthToken(out.AccessToken)
	return out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	out := new(models.User)
	if err := c.do(c.http.R().SetContext(ctx).SetResult(out), http.MethodGet, "/auth/profile"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Lofts(ctx context.Context) ([]models.Loft, error) {
	var out []models.Loft
	if err := c.do(c.http.R().SetContext(ctx).SetResult(&out), http.MethodGet, "/lofts"); err != nil {
		return nil, err
	}
	return out, nil
}

// BirdQuery filters a bird listing. Zero values are omitted.
type BirdQuery struct {
	LoftID   string
	Status   string
	Sex      string
	Search   string
	Page     int
	PageSize int
}

func (q BirdQuery) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("loftId", q.LoftID)
	set("status", q.Status)
	set("sex", q.Sex)
	set("search", q.Search)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

func (c *Client) Birds(ctx context.Context, q BirdQuery) (*models.Page[models.Bird], error) {
	out := new(models.Page[models.Bird])
	req := c.http.R().SetContext(ctx).SetQueryParamsFromValues(q.values()).SetResult(out)
	if err := c.do(req, http.MethodGet, "/birds"); err != nil {
		return nil, err
	}
	return out, nil
}

// Occurrences lists task occurrences between from and to. Empty bounds take
// the server default of the current week.
func (c *Client) Occurrences(ctx context.Context, from, to string) ([]models.Occurrence, error) {
	var out []models.Occurrence
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if from != "" {
		req.SetQueryParam("from", from)
	}
	if to != "" {
		req.SetQueryParam("to", to)
	}
	if err := c.do(req, http.MethodGet, "/tasks"); err != nil {
		return nil, err
	}
	return out, nil
}

// Complete marks the occurrence of taskID on date as done.
func (c *Client) Complete(ctx context.Context, taskID, date, notes string) (*models.TaskCompletion, error) {
	out := new(models.TaskCompletion)
	req := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"taskId": taskID, "date": date, "notes": notes}).
		SetResult(out)
	if err := c.do(req, http.MethodPost, "/tasks/complete"); err != nil {
		return nil, err
	}
	return out, nil
}

// Uncomplete removes the completion of taskID on date.
func (c *Client) Uncomplete(ctx context.Context, taskID, date string) error {
	req := c.http.R().SetContext(ctx).SetQueryParams(map[string]string{"taskId": taskID, "date": date})
	return c.do(req, http.MethodDelete, "/tasks/complete")
}
