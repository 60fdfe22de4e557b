// Package remote is the client side of the mentorflow API: cookie based sessions, row
// operations on projects and profiles, and realtime change subscriptions.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// ErrNotConfigured is returned by every call of a client built without a base URL.
var ErrNotConfigured = errors.New("remote store is not configured")

// APIError is a request the API answered but refused.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote: %s (status %d)", e.Message, e.Status)
}

// AuthListener is called after a successful sign-in, sign-out or metadata update. user is
// nil for SIGNED_OUT.
type AuthListener func(event domain.AuthEvent, user *domain.User)

type Client struct {
	baseURL string
	http    *http.Client
	// stream shares the cookie jar but has no timeout, realtime responses never end
	stream *http.Client

	mu         sync.Mutex
	listeners  map[int]AuthListener
	nextListen int
}

// NewClient returns a client for the API at baseURL. An empty baseURL is allowed; the
// client then fails every call with ErrNotConfigured instead of refusing to start.
func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil) // never fails without options

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Jar: jar, Timeout: timeout},
		stream:    &http.Client{Jar: jar},
		listeners: make(map[int]AuthListener),
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// OnAuthStateChange registers listener and returns a function removing it again.
func (c *Client) OnAuthStateChange(listener AuthListener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListen
	c.nextListen++
	c.listeners[id] = listener

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) emit(event domain.AuthEvent, user *domain.User) {
	c.mu.Lock()
	listeners := make([]AuthListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(event, user)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the data field of the response envelope into out,
// which may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *http.Response, out any) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if !env.Success || resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
