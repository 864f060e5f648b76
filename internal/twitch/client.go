// Package twitch contains a minimal Helix client: a client-credentials app
// token fetched once at startup and user lookup by login name.
package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aou-community/aubot/internal/domain"
)

const (
	DefaultTokenURL = "https://id.twitch.tv/oauth2/token"
	DefaultAPIURL   = "https://api.twitch.tv/helix"

	cacheSize = 256
	cacheTTL  = 15 * time.Minute
)

// channelURL matches a twitch.tv channel URL and captures the login name.
var channelURL = regexp.MustCompile(`^(?:https?://)?(?:www\.)?twitch\.tv/([^/\s]+)/?$`)

// User is the subset of Helix user data the bot cares about.
type User struct {
	ID              int64
	Login           string
	DisplayName     string
	ProfileImageURL string
}

// ChannelURL returns the public URL of the user's channel.
func (u User) ChannelURL() string {
	return "https://www.twitch.tv/" + u.Login
}

// Client talks to the Twitch Helix API using an app access token.
// The token is fetched once by Authenticate and never refreshed; staleness is
// tolerated on the assumption of frequent process restarts.
type Client struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokenURL     string
	apiURL       string
	token        string
	cache        *expirable.LRU[string, User]
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEndpoints overrides the token and API base URLs.
func WithEndpoints(tokenURL, apiURL string) Option {
	return func(c *Client) {
		c.tokenURL = tokenURL
		c.apiURL = apiURL
	}
}

// NewClient creates a Helix client. Call Authenticate before any lookup.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   http.DefaultClient,
		tokenURL:     DefaultTokenURL,
		apiURL:       DefaultAPIURL,
		cache:        expirable.NewLRU[string, User](cacheSize, nil, cacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate fetches an app access token via the client-credentials grant.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.clientID == "" || c.clientSecret == "" {
		return errors.New("missing twitch client id or secret")
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twitch token fetch failed: %s: %s", resp.Status, string(b))
	}

	var res struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return err
	}
	if res.AccessToken == "" {
		return errors.New("twitch token fetch returned empty token")
	}

	c.token = res.AccessToken
	return nil
}

// UserByLogin resolves a login name to the user record.
// Returns domain.ErrTwitchUserNotFound when the login does not exist; any other
// error is a transport or API failure.
func (c *Client) UserByLogin(ctx context.Context, login string) (*User, error) {
	login = NormalizeLogin(login)
	if login == "" {
		return nil, fmt.Errorf("%w: empty login", domain.ErrTwitchUserNotFound)
	}

	if u, ok := c.cache.Get(login); ok {
		return &u, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("login", login)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Data []struct {
			ID              string `json:"id"`
			Login           string `json:"login"`
			DisplayName     string `json:"display_name"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("twitch user lookup failed: %s: %s", body.Error, body.Message)
	}
	if len(body.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrTwitchUserNotFound, login)
	}

	id, err := strconv.ParseInt(body.Data[0].ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("twitch returned non-numeric user id %q: %w", body.Data[0].ID, err)
	}

	user := User{
		ID:              id,
		Login:           strings.ToLower(body.Data[0].Login),
		DisplayName:     body.Data[0].DisplayName,
		ProfileImageURL: body.Data[0].ProfileImageURL,
	}
	c.cache.Add(login, user)
	return &user, nil
}

// NormalizeLogin lowercases a login and unwraps twitch.tv channel URLs, so
// users can paste their channel link instead of the bare name.
func NormalizeLogin(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := channelURL.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	return strings.ToLower(raw)
}
