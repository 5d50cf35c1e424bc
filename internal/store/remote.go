package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 30 * time.Second

	// MaxDocumentSize bounds a stored string read from a server
	MaxDocumentSize = 16 << 20
)

// Remote stores a document on a boxes-server under a handle.
type Remote struct {
	// BaseURL is the server root (e.g., "http://192.168.1.20:8420")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Dialer opens watch connections
	Dialer *websocket.Dialer

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff enables exponential backoff for retries
	UseExponentialBackoff bool

	handle string
}

// NewRemote returns a client for handle on the server at baseURL.
func NewRemote(baseURL, handle string) (*Remote, error) {
	if err := CheckHandle(handle); err != nil {
		return nil, err
	}
	return &Remote{
		BaseURL:               strings.TrimRight(baseURL, "/"),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		Dialer:                websocket.DefaultDialer,
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		handle:                handle,
	}, nil
}

// SetRetry configures retry behavior
func (r *Remote) SetRetry(maxRetries int, retryDelay time.Duration) {
	r.MaxRetries = maxRetries
	r.RetryDelay = retryDelay
}

// Handle implements Store.
func (r *Remote) Handle() string {
	return r.handle
}

func (r *Remote) docURL() string {
	return r.BaseURL + "/api/docs/" + url.PathEscape(r.handle)
}

// retry runs attempt until it succeeds, fails with a non-retryable error or
// runs out of attempts.
func (r *Remote) retry(ctx context.Context, op string, attempt func() error) error {
	var lastErr error
	currentDelay := r.RetryDelay

	for n := 0; n <= r.MaxRetries; n++ {
		if n > 0 {
			logging.Debug("Retrying store request",
				zap.String("op", op),
				zap.String("handle", r.handle),
				zap.Int("attempt", n),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(currentDelay):
			}

			if r.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > r.MaxRetryDelay {
					currentDelay = r.MaxRetryDelay
				}
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// Load implements Store. A 404 reports an absent document.
func (r *Remote) Load(ctx context.Context) (string, bool, error) {
	var stored string
	err := r.retry(ctx, "load", func() error {
		var err error
		stored, err = r.loadAttempt(ctx)
		return err
	})
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return stored, true, nil
}

func (r *Remote) loadAttempt(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.docURL(), nil)
	if err != nil {
		return "", NewNetworkError("failed to create GET request", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", NewNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize))
	if err != nil {
		return "", NewNetworkError("failed to read response body", err)
	}
	return string(body), nil
}

// Save implements Store.
func (r *Remote) Save(ctx context.Context, stored string) error {
	return r.retry(ctx, "save", func() error {
		return r.saveAttempt(ctx, stored)
	})
}

func (r *Remote) saveAttempt(ctx context.Context, stored string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.docURL(), strings.NewReader(stored))
	if err != nil {
		return NewNetworkError("failed to create PUT request", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("PUT request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("save failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}

// ListHandles returns the handles hosted by the server at baseURL.
func ListHandles(ctx context.Context, client *http.Client, baseURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/api/docs", nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := client.Do(req)
	if err != nil {
		return nil, NewNetworkError("GET request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	var list struct {
		Handles []string `json:"handles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, NewDecodeError("failed to parse handle list", err)
	}
	return list.Handles, nil
}

func (r *Remote) watchURL() (string, error) {
	u, err := url.Parse(r.docURL() + "/watch")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String(), nil
}

// Watch implements Watcher over the server's watch websocket. Each text
// message is a new stored string.
func (r *Remote) Watch(ctx context.Context, changed func(string)) error {
	wsURL, err := r.watchURL()
	if err != nil {
		return NewNetworkError("invalid server URL", err)
	}
	conn, resp, err := r.Dialer.DialContext(ctx, wsURL, http.Header{"User-Agent": {version.UserAgent()}})
	if err != nil {
		if resp != nil {
			return NewHTTPError(resp.StatusCode, "watch handshake failed")
		}
		return NewNetworkError("watch connection failed", err)
	}
	defer conn.Close()
	logging.LogWatchEvent(r.handle, "watch connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return NewNetworkError("watch connection lost", err)
		}
		logging.LogWebSocketMessage(conn.RemoteAddr().String(), "recv", msgType, data)
		if msgType != websocket.TextMessage {
			continue
		}
		changed(string(data))
	}
}
