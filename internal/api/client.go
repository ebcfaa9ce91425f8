// Package api is the thin HTTP wrapper around the kanban backend's REST contract.
package api

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

	"kanban-cli/internal/model"

	"github.com/charmbracelet/log"
)

// Client talks to the backend rooted at BaseURL (e.g. http://localhost:5001/api).
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *log.Logger
}

type Options struct {
	BaseURL string
	// Timeout of zero means requests wait indefinitely.
	Timeout time.Duration
	Logger  *log.Logger
}

func New(opts Options) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		HTTP:    &http.Client{Timeout: opts.Timeout},
		Logger:  opts.Logger,
	}
}

func (c *Client) ListCards(ctx context.Context, projectID model.ProjectID) ([]model.Card, error) {
	var cards []model.Card
	if err := c.do(ctx, http.MethodGet, "/cards", projectID, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, projectID model.ProjectID, id int64) (model.Card, error) {
	var card model.Card
	err := c.do(ctx, http.MethodGet, cardPath(id), projectID, nil, &card)
	return card, err
}

func (c *Client) CreateCard(ctx context.Context, projectID model.ProjectID, f model.CardFields) (model.Card, error) {
	if f.ProjectID == "" {
		f.ProjectID = projectID
	}
	var card model.Card
	err := c.do(ctx, http.MethodPost, "/cards", projectID, f, &card)
	return card, err
}

func (c *Client) UpdateCard(ctx context.Context, projectID model.ProjectID, id int64, p model.CardPatch) (model.Card, error) {
	var card model.Card
	err := c.do(ctx, http.MethodPatch, cardPath(id), projectID, p, &card)
	return card, err
}

func (c *Client) ArchiveCard(ctx context.Context, projectID model.ProjectID, id int64) error {
	return c.do(ctx, http.MethodPost, cardPath(id)+"/archive", projectID, nil, nil)
}

func (c *Client) RestoreCard(ctx context.Context, projectID model.ProjectID, id int64) error {
	return c.do(ctx, http.MethodPost, cardPath(id)+"/restore", projectID, nil, nil)
}

func (c *Client) DeleteCard(ctx context.Context, projectID model.ProjectID, id int64) error {
	return c.do(ctx, http.MethodDelete, cardPath(id), projectID, nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var ps []model.Project
	if err := c.do(ctx, http.MethodGet, "/projects", "", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

type verifyRequest struct {
	ProjectID model.ProjectID `json:"project_id"`
	PIN       string          `json:"pin"`
}

type verifyResponse struct {
	Project *model.Project `json:"project"`
}

// VerifyProject posts the PIN. Any non-OK response is returned as *Error; callers decide
// how much to reveal.
func (c *Client) VerifyProject(ctx context.Context, projectID model.ProjectID, pin string) (model.Project, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodPost, "/projects/verify", "", verifyRequest{ProjectID: projectID, PIN: pin}, &resp); err != nil {
		return model.Project{}, err
	}
	if resp.Project == nil {
		return model.Project{}, fmt.Errorf("verify project: response missing project")
	}
	return *resp.Project, nil
}

func cardPath(id int64) string {
	return "/cards/" + strconv.FormatInt(id, 10)
}

// URL builds the request URL, appending project_id when a project is active.
func (c *Client) URL(path string, projectID model.ProjectID) string {
	u := c.BaseURL + path
	if projectID == "" {
		return u
	}
	q := url.Values{}
	q.Set("project_id", projectID.String())
	return u + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, projectID model.ProjectID, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, projectID), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logf(log.ErrorLevel, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.logf(log.DebugLevel, "request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(raw)}
		c.logf(log.WarnLevel, "request rejected", "method", method, "path", path, "status", resp.StatusCode, "msg", apiErr.Message)
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage pulls {"error": "..."} out of a response body when present.
func errorMessage(raw []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		return env.Error
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func (c *Client) logf(level log.Level, msg string, kv ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Log(level, msg, kv...)
}
