package grid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/logging"
	"github.com/concave-dev/gfnprobe/internal/netutil"
	"github.com/concave-dev/gfnprobe/internal/version"
	"github.com/go-resty/resty/v2"
)

// ErrAlreadyFinished is returned when the coordinator has already recorded a
// finish for the session.
var ErrAlreadyFinished = errors.New("session already finished")

// apiResponse is the coordinator's response envelope.
type apiResponse[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

type sessionRequest struct {
	Host string `json:"host"`
}

type sessionResponse struct {
	ID         string             `json:"id"`
	Standalone bool               `json:"standalone"`
	Assignment *device.Assignment `json:"assignment,omitempty"`
}

type finishRequest struct {
	Status int `json:"status"`
}

// HTTPClient talks to a coordinator over its REST API.
type HTTPClient struct {
	client  *resty.Client
	baseURL string
	session *sessionResponse
}

// NewHTTPClient creates a client for the coordinator at baseURL (for example
// "http://127.0.0.1:8008"). Connection errors are retried; HTTP errors are not.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	apiURL := strings.TrimRight(baseURL, "/") + "/api/v1"

	client := resty.New()
	client.SetLogger(logging.RestyLogger{})
	client.
		SetTimeout(timeout).
		SetBaseURL(apiURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("%s/%s", version.Name, version.Version))

	client.
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Coordinator request: %s %s", req.Method, req.URL)
		return nil
	})
	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("Coordinator response: %d (took %v)", resp.StatusCode(), resp.Time())
		return nil
	})

	return &HTTPClient{client: client, baseURL: apiURL}
}

// connErr turns a transport failure into a readable error.
func (c *HTTPClient) connErr(err error) error {
	if netutil.IsConnectionRefusedError(err) {
		return fmt.Errorf("coordinator at %s refused the connection", c.baseURL)
	}
	return fmt.Errorf("failed to reach coordinator at %s: %w", c.baseURL, err)
}

// Init opens a session on the coordinator.
func (c *HTTPClient) Init(ctx context.Context) error {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	var out apiResponse[sessionResponse]
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sessionRequest{Host: host}).
		SetResult(&out).
		SetError(&out).
		Post("/sessions")
	if err != nil {
		return c.connErr(err)
	}
	if resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("session request failed with status %d: %s", resp.StatusCode(), out.Message)
	}
	if out.Data.ID == "" {
		return errors.New("coordinator returned a session without an id")
	}

	c.session = &out.Data
	logging.Debug("Coordinator session %s (standalone=%v)", out.Data.ID, out.Data.Standalone)
	return nil
}

func (c *HTTPClient) IsStandalone() bool {
	return c.session == nil || c.session.Standalone
}

// AssignedDevice returns the assignment carried by the session. A session
// without one yields an invalid assignment.
func (c *HTTPClient) AssignedDevice(ctx context.Context) (device.Assignment, error) {
	if c.session == nil {
		return device.Assignment{}, errors.New("no coordinator session")
	}
	if c.session.Assignment == nil {
		return device.Assignment{DeviceID: -1}, nil
	}
	return *c.session.Assignment, nil
}

// Finish records status on the coordinator.
func (c *HTTPClient) Finish(ctx context.Context, status int) error {
	if c.session == nil {
		return errors.New("no coordinator session")
	}

	var out apiResponse[struct{}]
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", c.session.ID).
		SetBody(finishRequest{Status: status}).
		SetError(&out).
		Post("/sessions/{id}/finish")
	if err != nil {
		return c.connErr(err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		return ErrAlreadyFinished
	default:
		return fmt.Errorf("finish request failed with status %d: %s", resp.StatusCode(), out.Message)
	}
}

