package twitch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/ports"
)

const deviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"

type DeviceAuthorization struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type UserToken struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Scope        []string `json:"scope,omitempty"`
	TokenType    string   `json:"token_type,omitempty"`
	ExpiresIn    int      `json:"expires_in,omitempty"`
}

// RequestDeviceAuthorization starts the OAuth2 device-code grant. The caller
// shows VerificationURI + UserCode to the user, then polls with
// PollDeviceToken.
func (c *Client) RequestDeviceAuthorization(ctx context.Context, scopes string) (DeviceAuthorization, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("scopes", scopes)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/device", strings.NewReader(form.Encode()))
	if err != nil {
		return DeviceAuthorization{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return DeviceAuthorization{}, &ports.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return DeviceAuthorization{}, &ports.TransportError{Status: resp.StatusCode}
	}

	var auth DeviceAuthorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return DeviceAuthorization{}, err
	}
	return auth, nil
}

// PollDeviceToken polls the token endpoint at the server-suggested interval
// until the user approves. 400/428/429 mean "pending/slow down" and keep the
// loop going; any other non-200 status is fatal.
func (c *Client) PollDeviceToken(ctx context.Context, deviceCode string, interval time.Duration) (UserToken, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("device_code", deviceCode)
	form.Set("grant_type", deviceGrantType)
	body := form.Encode()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return UserToken{}, ctx.Err()
		case <-ticker.C:
		}

		tok, done, err := c.pollOnce(ctx, body)
		if err != nil {
			return UserToken{}, err
		}
		if done {
			return tok, nil
		}
	}
}

func (c *Client) pollOnce(ctx context.Context, body string) (UserToken, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authBase+"/token", strings.NewReader(body))
	if err != nil {
		return UserToken{}, false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return UserToken{}, false, &ports.TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var tok UserToken
		if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
			return UserToken{}, false, err
		}
		return tok, true, nil
	case http.StatusBadRequest, http.StatusPreconditionRequired, http.StatusTooManyRequests:
		// authorization_pending ou slow_down: on continue de poller.
		return UserToken{}, false, nil
	default:
		return UserToken{}, false, &ports.TransportError{Status: resp.StatusCode}
	}
}
