package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Session holds the credentials of one authenticated dashboard session.
// It is an explicit object rather than package state so multiple sessions
// can coexist in tests.
type Session struct {
	BaseURL string
	Token   string
}

// LoginError is returned when the server rejects the credentials. Its message
// is what the dashboard shows the user.
type LoginError struct {
	Detail string
}

func (e *LoginError) Error() string {
	return "Login failed: " + e.Detail
}

// Login exchanges form-encoded credentials for an access token at the
// server's /token endpoint. A non-200 response yields a *LoginError carrying
// the server-provided detail; the caller decides whether to retry.
func Login(ctx context.Context, httpClient *http.Client, baseURL, username, password string) (*Session, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Detail == "" {
			body.Detail = resp.Status
		}
		return nil, &LoginError{Detail: body.Detail}
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed token response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &Session{BaseURL: baseURL, Token: body.AccessToken}, nil
}
