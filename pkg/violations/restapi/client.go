// Package restapi provides a violations.Client implementation over the
// backend's REST endpoints. All bodies are JSON except plate recognition,
// which posts multipart form data to a separate recognizer service.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
	"patrol/pkg/transport"
	"patrol/pkg/violations"
)

// Client talks to the traffic-violation backend and fulfills the
// violations.Client interface. It is safe for concurrent use. Authentication
// is handled by the http.Client's transport, which injects the session token
// per request.
type Client struct {
	httpClient *http.Client
	// baseURL is the backend API root, e.g. "https://host/api".
	baseURL string
	// recognizerURL is the full endpoint of the standalone plate-recognition
	// service. Recognition requests are anonymous.
	recognizerURL string
}

// New constructs a Client over the given http.Client and endpoints.
func New(httpClient *http.Client, baseURL, recognizerURL string) *Client {
	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		recognizerURL: recognizerURL,
	}
}

// Ensure Client conforms to the violations.Client interface at compile time.
var _ violations.Client = (*Client)(nil)

// apiError is the union of the backend's failure shapes. Different endpoints
// use different field names for the same thing.
type apiError struct {
	ErrorMsg string `json:"error"`
	Message  string `json:"message"`
	Detail   string `json:"detail"`
}

// text returns the first server-supplied message, or fallback when the body
// carried none.
func (e apiError) text(fallback string) string {
	for _, s := range []string{e.ErrorMsg, e.Message, e.Detail} {
		if s != "" {
			return s
		}
	}

	return fallback
}

// remoteMessage decodes the failure body and extracts its message.
func remoteMessage(body []byte, fallback string) string {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err != nil {
		return fallback
	}

	return ae.text(fallback)
}

// statusError maps a non-success response to a semantic error carrying the
// server-supplied message.
func statusError(statusCode int, body []byte, fallback string) error {
	msg := remoteMessage(body, fallback)

	switch statusCode {
	case http.StatusUnauthorized:
		return serrors.With(serrors.ErrSessionExpired, "%s", msg)
	case http.StatusForbidden:
		return serrors.With(serrors.ErrForbidden, "%s", msg)
	case http.StatusNotFound:
		return serrors.With(serrors.ErrNotFound, "%s", msg)
	case http.StatusConflict:
		return serrors.With(serrors.ErrConflict, "%s", msg)
	case http.StatusBadRequest:
		return serrors.With(serrors.ErrBadRequest, "%s", msg)
	default:
		return serrors.With(serrors.ErrRemote, "%s", msg)
	}
}

// do sends the request and returns the response status and full body.
// Transport failures map to ErrNetwork.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, serrors.Wrap(serrors.ErrNetwork, err, "could not reach backend")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, serrors.Wrap(serrors.ErrNetwork, err, "could not read response body")
	}

	return resp.StatusCode, b, nil
}

// postJSON builds and sends a JSON POST/PUT request against a backend path.
func (c *Client) sendJSON(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// get sends a GET request against a backend path.
func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func success(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Login exchanges credentials for a session token. Credential shape is
// checked locally before the request goes out.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", serrors.With(serrors.ErrValidation, "username and password are both required")
	}
	if len(password) < 6 {
		return "", serrors.With(serrors.ErrValidation, "password must be at least 6 characters long")
	}

	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	status, body, err := c.sendJSON(transport.Anonymous(ctx), http.MethodPost, "/auth/login", payload)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", statusError(status, body, "login failed")
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}
	if resp.Token == "" {
		return "", serrors.With(serrors.ErrRemote, "login response carried no token")
	}

	return resp.Token, nil
}

// Register creates a new account. Field shapes are checked locally first.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (string, error) {
	if reg.Username == "" || reg.Password == "" || reg.FirstName == "" ||
		reg.LastName == "" || reg.NationalID == "" || reg.Phone == "" {
		return "", serrors.With(serrors.ErrValidation, "all fields are required")
	}
	if len(reg.NationalID) != 10 || !allDigits(reg.NationalID) {
		return "", serrors.With(serrors.ErrValidation, "national id must be 10 digits")
	}
	if len(reg.Phone) != 11 || !allDigits(reg.Phone) {
		return "", serrors.With(serrors.ErrValidation, "phone number must be 11 digits")
	}
	if len(reg.Password) < 6 {
		return "", serrors.With(serrors.ErrValidation, "password must be at least 6 characters long")
	}

	status, body, err := c.sendJSON(transport.Anonymous(ctx), http.MethodPost, "/auth/register", reg)
	if err != nil {
		return "", err
	}
	if !success(status) {
		return "", statusError(status, body, "registration failed")
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("could not decode response: %w", err)
	}

	return resp.Token, nil
}

// VerifyToken asks the backend whether the current session token is still
// valid. Any failure, local or remote, is reported as an expired session so
// the caller purges state and re-authenticates.
func (c *Client) VerifyToken(ctx context.Context) error {
	status, body, err := c.get(ctx, "/auth/verify")
	if err != nil {
		return err
	}
	if !success(status) {
		return serrors.With(serrors.ErrSessionExpired, "%s", remoteMessage(body, "token verification failed"))
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	if !resp.Success {
		return serrors.With(serrors.ErrSessionExpired, "token is no longer valid")
	}

	return nil
}

// UserInfo fetches the authenticated account.
func (c *Client) UserInfo(ctx context.Context) (*domain.User, error) {
	status, body, err := c.get(ctx, "/users/me")
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, statusError(status, body, "failed fetching user info")
	}

	var user domain.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &user, nil
}
