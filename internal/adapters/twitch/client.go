package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/domain"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

const (
	defaultAPIBase  = "https://api.twitch.tv/helix"
	defaultAuthBase = "https://id.twitch.tv/oauth2"

	callTimeout = 30 * time.Second
)

// Client wraps the Helix read queries the processor needs plus token
// acquisition. Every call is bounded by the client timeout and never retried:
// a transient failure surfaces and the operator re-runs.
type Client struct {
	apiBase  string
	authBase string
	clientID string
	token    string
	http     *http.Client
}

func New(clientID string) *Client {
	return &Client{
		apiBase:  defaultAPIBase,
		authBase: defaultAuthBase,
		clientID: clientID,
		http: &http.Client{
			Timeout: callTimeout,
		},
	}
}

func (c *Client) WithAPIBase(base string) *Client {
	if strings.TrimSpace(base) != "" {
		c.apiBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return c
}

func (c *Client) WithAuthBase(base string) *Client {
	if strings.TrimSpace(base) != "" {
		c.authBase = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return c
}

// UseToken installs a pre-obtained user access token. A user token always
// wins over the client-credentials app token.
func (c *Client) UseToken(token string) {
	c.token = strings.TrimSpace(token)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Authenticate obtains a client-credentials app token. No-op when a user
// token is already installed.
func (c *Client) Authenticate(ctx context.Context, clientSecret string) error {
	if c.token != "" {
		return nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &ports.TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("twitch token endpoint: %s: %w", resp.Status, ports.ErrAuth)
	case resp.StatusCode >= 300:
		return &ports.TransportError{Status: resp.StatusCode}
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("twitch token endpoint: empty access token: %w", ports.ErrAuth)
	}
	c.token = tok.AccessToken
	return nil
}

type userList struct {
	Data []struct {
		ID    string `json:"id"`
		Login string `json:"login"`
	} `json:"data"`
}

// ResolveChannelID maps a login to the Helix user id.
func (c *Client) ResolveChannelID(ctx context.Context, login string) (string, error) {
	var out userList
	if err := c.get(ctx, "/users", url.Values{"login": {login}}, &out); err != nil {
		return "", err
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("no twitch user for login %q: %w", login, ports.ErrNotFound)
	}
	return out.Data[0].ID, nil
}

type streamList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// IsLive reports whether Helix currently lists an active stream for the user.
func (c *Client) IsLive(ctx context.Context, userID string) (bool, error) {
	var out streamList
	if err := c.get(ctx, "/streams", url.Values{"user_id": {userID}}, &out); err != nil {
		return false, err
	}
	return len(out.Data) > 0, nil
}

type videoList struct {
	Data []struct {
		ID          string `json:"id"`
		UserID      string `json:"user_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"published_at"`
	} `json:"data"`
}

// LatestArchivedVOD returns the newest archived video for the user, or nil
// when the channel has no archives. "Latest" relies on Helix time sort, so
// callers get a monotonic answer across runs.
func (c *Client) LatestArchivedVOD(ctx context.Context, userID string) (*domain.VOD, error) {
	params := url.Values{
		"user_id": {userID},
		"first":   {"1"},
		"type":    {"archive"},
		"sort":    {"time"},
	}
	var out videoList
	if err := c.get(ctx, "/videos", params, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}

	v := out.Data[0]
	publishedAt, err := time.Parse(time.RFC3339, v.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("twitch video %s: bad published_at %q: %w", v.ID, v.PublishedAt, err)
	}
	return &domain.VOD{
		ID:          v.ID,
		UserID:      v.UserID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		PublishedAt: publishedAt,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.apiBase + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &ports.TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("twitch api: %s: %w", resp.Status, ports.ErrAuth)
	case resp.StatusCode >= 300:
		return &ports.TransportError{Status: resp.StatusCode}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
