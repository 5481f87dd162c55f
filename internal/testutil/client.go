// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
)

// Client is a browser-like HTTP client for testing HTML form endpoints.
// It keeps cookies between requests and does not follow redirects, so
// tests can assert the status and Location of each response.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new test client with an empty cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// LoginAs submits the login form and fails the test unless it redirects to the listing.
func (c *Client) LoginAs(t *testing.T, username, password string) {
	t.Helper()

	resp, err := c.PostForm("/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("login failed: status=%d location=%q body=%s",
			resp.StatusCode, resp.Header.Get("Location"), body)
	}
}

// ClearCookies drops every stored cookie.
func (c *Client) ClearCookies() {
	jar, _ := cookiejar.New(nil)
	c.HTTPClient.Jar = jar
}

// Cookie returns the stored cookie with the given name, or nil.
func (c *Client) Cookie(name string) *http.Cookie {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil
	}
	for _, cookie := range c.HTTPClient.Jar.Cookies(u) {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// GET performs a GET request.
func (c *Client) GET(path string) (*http.Response, error) {
	return c.do(http.MethodGet, path, nil, "")
}

// PostForm performs a POST request with a URL-encoded form body.
func (c *Client) PostForm(path string, form url.Values) (*http.Response, error) {
	return c.do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) do(method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.HTTPClient.Do(req)
}

// ReadBody reads and returns response body as string.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

// RandomName returns prefix followed by a random suffix.
func RandomName(prefix string) string {
	return fmt.Sprintf("%s-%06d", prefix, rand.IntN(1_000_000))
}
