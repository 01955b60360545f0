package dashboard

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

	"pctracer-svc/src/internal/activity"
	"pctracer-svc/src/internal/user"

	"github.com/sirupsen/logrus"
)

var ErrUnauthorized = errors.New("not logged in or session expired")

// Client talks to the dashboard HTTP API.
type Client struct {
	baseURL    string
	cookieName string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, cookieName, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: cookieName,
		token:      token,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Login exchanges credentials for the session cookie value and keeps it for
// later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call dashboard: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.cookieName && cookie.Value != "" {
			c.token = cookie.Value
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("dashboard did not set the %s cookie", c.cookieName)
}

func (c *Client) Users(ctx context.Context) ([]user.NameView, error) {
	var users []user.NameView
	if err := c.get(ctx, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Times returns the raw activity records, optionally for a single user.
func (c *Client) Times(ctx context.Context, name string) ([]activity.Record, error) {
	var records []activity.Record
	if err := c.get(ctx, "/times", userQuery(name), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Chart returns the JSON rows of a chart endpoint such as "pie-app-time".
func (c *Client) Chart(ctx context.Context, chart, name string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/chart/"+url.PathEscape(chart), userQuery(name), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func userQuery(name string) url.Values {
	if name == "" {
		return nil
	}
	return url.Values{"user": {name}}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.token})
	}

	logrus.WithField("url", endpoint).Debug("Calling dashboard")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call dashboard: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, errorMessage(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dashboard returned status %d: %s", resp.StatusCode, errorMessage(resp))
	}
	return nil
}

func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return http.StatusText(resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return http.StatusText(resp.StatusCode)
}
