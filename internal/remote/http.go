package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

// Client talks to the mirror service over HTTP/JSON.
//
// There is deliberately no retry, backoff or internal timeout; cancellation
// rides the caller's context.
type Client struct {
	base string
	hc   *http.Client
}

// New returns a Mirror for the given base URL, or Disabled when baseURL is
// empty so absent configuration degrades to a no-op instead of an error.
func New(baseURL string, hc *http.Client) Mirror {
	if baseURL == "" {
		return Disabled{}
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// do sends body (if non-nil) as JSON and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return errs.ErrAlreadyExists
	case resp.StatusCode == http.StatusNotFound:
		return errs.ErrNotFound
	case resp.StatusCode >= 300:
		return fmt.Errorf("remote: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) SaveUser(ctx context.Context, u model.User) error {
	if u.Username == "" {
		return errs.ErrValidation
	}
	path := "/api/users/" + url.PathEscape(u.Username)
	return c.do(ctx, http.MethodPut, path, u, nil)
}

func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SaveProduct(ctx context.Context, p model.Product) error {
	return c.do(ctx, http.MethodPut, "/api/products/"+strconv.Itoa(p.ID), p, nil)
}

func (c *Client) SetPresence(ctx context.Context, username string) error {
	if username == "" {
		return errs.ErrValidation
	}
	path := "/api/presence/" + url.PathEscape(username)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/register", body, nil)
}

func (c *Client) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	body := map[string]string{"identifier": identifier, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	if res.Token == "" {
		return LoginResult{}, errs.ErrUnauthorized
	}
	return res, nil
}

func (c *Client) SendOTP(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "otp": code}
	return c.do(ctx, http.MethodPost, "/api/send-otp", body, nil)
}

func (c *Client) QueryAI(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply  string `json:"reply"`
		Answer string `json:"answer"`
		Text   string `json:"text"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ai", map[string]string{"message": message}, &out); err != nil {
		return "", err
	}
	// Accept {reply} as well as the looser {answer}/{text} shapes.
	switch {
	case out.Reply != "":
		return out.Reply, nil
	case out.Answer != "":
		return out.Answer, nil
	default:
		return out.Text, nil
	}
}
