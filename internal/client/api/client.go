package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/mindeducation/internal/client/models"
	"github.com/dmitrijs2005/mindeducation/internal/common"
	"github.com/dmitrijs2005/mindeducation/internal/logging"
	"github.com/google/uuid"
)

const maxResponseBody = 1 << 20

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the bearer token to attach to a request.
type TokenSource interface {
	Token() string
}

type Client struct {
	client  httpClient
	baseURL *url.URL
	tokens  TokenSource
	logger  logging.Logger
}

func NewClient(baseURL string, client httpClient, tokens TokenSource, logger logging.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{client: client, baseURL: u, tokens: tokens, logger: logger}, nil
}

type LoginRequest struct {
	EmailOrCpf string `json:"emailOrCpf"`
	Password   string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Cpf      string `json:"cpf"`
	Password string `json:"password"`
}

// UpdateRequest is the body of PUT /user/update/:id. Password is left out of
// the JSON when empty so the server keeps the current one.
type UpdateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Cpf      string `json:"cpf"`
	Password string `json:"password,omitempty"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, req, &resp, "user", "login"); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login: %w: empty access token", ErrMalformedResponse)
	}
	return resp.AccessToken, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, http.MethodPost, req, nil, "user", "signup")
}

// GetUser fetches the profile of the user the current token belongs to.
func (c *Client) GetUser(ctx context.Context) (*models.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, nil, &resp, "user", "getUser"); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("get user: %w: no user in response", ErrMalformedResponse)
	}
	return resp.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, id models.UserID, req UpdateRequest) error {
	if id == "" {
		return fmt.Errorf("update user: empty user id")
	}
	return c.do(ctx, http.MethodPut, req, nil, "user", "update", string(id))
}

func (c *Client) do(ctx context.Context, method string, body any, out any, path ...string) error {
	endpoint := c.baseURL.JoinPath(path...)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set(common.AuthorizationHeaderName, token)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "api request failed",
			"request_id", requestID, "method", method, "path", endpoint.Path, "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, endpoint.Path, ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w: %w", method, endpoint.Path, ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "api request",
		"request_id", requestID, "method", method, "path", endpoint.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Status: resp.StatusCode, Message: remoteMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, endpoint.Path, ErrMalformedResponse, err)
	}
	return nil
}

func remoteMessage(data []byte) string {
	var e errorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
