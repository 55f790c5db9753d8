// Package resumeclient talks to the resume API over HTTP. It is the Store an
// editor.Session uses when it runs outside the server process. The server
// binary does not import it; editing front ends and integration tests do.
package resumeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/resume"
)

// TokenSource returns the bearer credential for the next request.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken always returns tok.
func StaticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

type Client struct {
	base  string
	http  *http.Client
	token TokenSource
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		http:  &http.Client{Timeout: 15 * time.Second},
		token: token,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type envelope struct {
	Message string           `json:"message"`
	Resume  *resume.Document `json:"resume"`
}

func (c *Client) List(ctx context.Context) ([]resume.Summary, error) {
	var out []resume.Summary
	_, err := c.do(ctx, http.MethodGet, "/api/resumes", "", nil, nil, &out)
	return out, err
}

// Create stores a resume, or replaces the content of the caller's resume with
// the same title. created reports which happened.
func (c *Client) Create(ctx context.Context, title string, content *resume.Template) (doc *resume.Document, created bool, err error) {
	var env envelope
	body := map[string]any{"title": title, "resumeData": content}
	status, err := c.do(ctx, http.MethodPost, "/api/resumes", "", body, nil, &env)
	if err != nil {
		return nil, false, err
	}
	return env.Resume, status == http.StatusCreated, nil
}

func (c *Client) Get(ctx context.Context, id string) (*resume.Document, error) {
	var doc resume.Document
	if _, err := c.do(ctx, http.MethodGet, "/api/resumes/"+url.PathEscape(id), id, nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Update replaces the content wholesale; the server orders it after any
// save already in flight.
func (c *Client) Update(ctx context.Context, id string, content *resume.Template) (*resume.Document, error) {
	return c.update(ctx, id, content, nil)
}

// UpdateIfMatch fails with *apperr.ConflictError unless the stored version is
// still version.
func (c *Client) UpdateIfMatch(ctx context.Context, id string, content *resume.Template, version int64) (*resume.Document, error) {
	h := http.Header{}
	h.Set("If-Match", strconv.Quote(strconv.FormatInt(version, 10)))
	doc, err := c.update(ctx, id, content, h)
	var ce *apperr.ConflictError
	if errors.As(err, &ce) {
		ce.Expected = version
	}
	return doc, err
}

func (c *Client) update(ctx context.Context, id string, content *resume.Template, h http.Header) (*resume.Document, error) {
	var env envelope
	body := map[string]any{"resumeData": content}
	if _, err := c.do(ctx, http.MethodPut, "/api/resumes/"+url.PathEscape(id), id, body, h, &env); err != nil {
		return nil, err
	}
	return env.Resume, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/resumes/"+url.PathEscape(id), id, nil, nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path, id string, in any, h http.Header, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, err
	}
	for k, v := range h {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return 0, &apperr.AuthError{Reason: err.Error()}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperr.Upstream("resume-api", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp.StatusCode, decodeError(resp, id)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, apperr.Upstream("resume-api", fmt.Errorf("decode %s %s: %w", method, path, err))
		}
	}
	return resp.StatusCode, nil
}

// decodeError maps a response status back onto the error taxonomy.
func decodeError(resp *http.Response, id string) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperr.Invalid("", body.Message)
	case http.StatusUnauthorized:
		return &apperr.AuthError{}
	case http.StatusNotFound:
		return &apperr.NotFoundError{Resource: "resume", ID: id}
	case http.StatusConflict:
		actual, _ := strconv.ParseInt(strings.Trim(strings.TrimPrefix(resp.Header.Get("ETag"), "W/"), `"`), 10, 64)
		return &apperr.ConflictError{ID: id, Actual: actual}
	}
	return apperr.Upstream("resume-api", fmt.Errorf("%s: %s", resp.Status, body.Message))
}
