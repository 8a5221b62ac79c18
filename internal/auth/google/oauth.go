// Package google implements the Google OAuth 2.0 authorization-code handshake.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	scopes = "email profile"
)

// ErrNotConfigured is returned when client credentials are missing.
var ErrNotConfigured = errors.New("google oauth is not configured")

// Profile is the subset of Google's userinfo the app relies on.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Endpoints overrides Google's URLs, mostly for tests.
type Endpoints struct {
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// Client talks to Google's OAuth endpoints.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	endpoints    Endpoints
	httpClient   *http.Client
}

// NewClient creates a client. Zero endpoint fields fall back to Google's.
func NewClient(clientID, clientSecret, redirectURI string, endpoints Endpoints) *Client {
	if endpoints.AuthURL == "" {
		endpoints.AuthURL = defaultAuthURL
	}
	if endpoints.TokenURL == "" {
		endpoints.TokenURL = defaultTokenURL
	}
	if endpoints.UserInfoURL == "" {
		endpoints.UserInfoURL = defaultUserInfoURL
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		endpoints:    endpoints,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != "" && c.redirectURI != ""
}

// AuthorizationURL builds the consent screen URL carrying state.
func (c *Client) AuthorizationURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", c.redirectURI)
	params.Set("scope", scopes)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("prompt", "select_account")
	return c.endpoints.AuthURL + "?" + params.Encode()
}

// Exchange trades an authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := c.doJSON(req, &token); err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("token exchange: empty access token")
	}
	return token.AccessToken, nil
}

// UserInfo fetches the profile behind accessToken.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var profile Profile
	if err := c.doJSON(req, &profile); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	return &profile, nil
}

func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
