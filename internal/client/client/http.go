package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/jsonx"
	"github.com/dmitrijs2005/brainswap/internal/logging"
)

const (
	DefaultTimeout = 5 * time.Second

	maxErrorBody = 64 << 10
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger

	mu            sync.RWMutex
	tokenSource   func() string
	onUnavailable func(message string)
}

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTokenSource installs the function that yields the bearer token for
// authenticated requests. An empty token sends no Authorization header.
func (c *HTTPClient) SetTokenSource(fn func() string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = fn
}

// SetOnUnavailable installs the hook invoked once per request that got no
// response from the server.
func (c *HTTPClient) SetOnUnavailable(fn func(message string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnavailable = fn
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokenSource == nil {
		return ""
	}
	return c.tokenSource()
}

func (c *HTTPClient) unavailable(ctx context.Context, method, path string, cause error) error {
	c.log.Warn(ctx, "server unreachable", "method", method, "path", path, "error", cause)

	c.mu.RLock()
	hook := c.onUnavailable
	c.mu.RUnlock()
	if hook != nil {
		hook(UnavailableMessage)
	}
	return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, cause)
}

// do sends one request. body is JSON-encoded when non-nil; out receives the
// decoded response when non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, authenticated bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := jsonx.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// a caller-side cancellation is not a connectivity problem
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		return c.unavailable(ctx, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug(ctx, "api request",
		"method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := jsonx.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// readMessage extracts the `message` field of a JSON object body, or the
// trimmed raw body when it is not such an object.
func readMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	if b[0] == '{' {
		var payload struct {
			Message string `json:"message"`
		}
		if err := jsonx.Unmarshal(b, &payload); err == nil {
			return strings.TrimSpace(payload.Message)
		}
	}
	return string(b)
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	if req.Skills == nil {
		req.Skills = []models.SkillRef{}
	}
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", false, req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, idPath("/users/", id), true, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if req.Skills == nil {
		req.Skills = []models.SkillRef{}
	}
	var u models.User
	if err := c.do(ctx, http.MethodPut, idPath("/users/", id), true, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) AddBalance(ctx context.Context, req models.AddBalanceRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/users/add-balance", true, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := c.do(ctx, http.MethodGet, "/skills/public", false, nil, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", true, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodGet, idPath("/posts/", id), true, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListUserPosts(ctx context.Context, userID int64) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, idPath("/posts/user/id/", userID), true, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	var p models.Post
	if err := c.do(ctx, http.MethodPost, "/posts", true, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/posts/", id), true, nil, nil)
}

func (c *HTTPClient) CreateCall(ctx context.Context, req models.CreateCallRequest) (*models.Call, error) {
	var call models.Call
	if err := c.do(ctx, http.MethodPost, "/calls", true, req, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

func (c *HTTPClient) ScheduleCall(ctx context.Context, req models.ScheduleCallRequest) (*models.Call, error) {
	var call models.Call
	if err := c.do(ctx, http.MethodPost, "/calls/schedule", true, req, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

var _ Client = (*HTTPClient)(nil)
