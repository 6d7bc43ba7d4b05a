package shopware

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	tokenPath = "/api/oauth/token"

	// oauthClientID is the fixed client the admin API issues password and
	// refresh-token grants for.
	oauthClientID = "administration"

	// refreshSafetyMargin is subtracted from the server-reported token
	// lifetime so the refresh fires before the token actually expires.
	refreshSafetyMargin = 10 * time.Second
)

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	GrantType    string `json:"grant_type"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type tokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Auth authenticates with the password grant. Failure here is fatal to the
// run; there is no retry.
func (c *Client) Auth(ctx context.Context) error {
	tok, err := c.grantToken(ctx, tokenRequest{
		ClientID:  oauthClientID,
		GrantType: "password",
		Username:  c.cfg.Username,
		Password:  c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("shopware auth: %w", err)
	}
	c.storeToken(tok)
	return nil
}

// refresh exchanges the refresh token for a new access token.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.RLock()
	refreshToken := c.refreshToken
	c.mu.RUnlock()

	tok, err := c.grantToken(ctx, tokenRequest{
		ClientID:     oauthClientID,
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return fmt.Errorf("shopware refresh: %w", err)
	}
	c.storeToken(tok)
	return nil
}

func (c *Client) grantToken(ctx context.Context, req tokenRequest) (tokenResponse, error) {
	var tok tokenResponse
	status, raw, err := c.doJSON(ctx, http.MethodPost, tokenPath, req, &tok)
	if err != nil {
		return tok, err
	}
	if status != http.StatusOK {
		c.log.Errorw("token endpoint returned an error",
			"grant_type", req.GrantType, "status", status, "response", string(raw))
		return tok, fmt.Errorf("unexpected status %d", status)
	}
	return tok, nil
}

func (c *Client) storeToken(tok tokenResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenType = tok.TokenType
	c.accessToken = tok.AccessToken
	c.refreshToken = tok.RefreshToken
	c.refreshAfter = time.Duration(tok.ExpiresIn)*time.Second - refreshSafetyMargin
	if c.refreshAfter < 0 {
		c.refreshAfter = 0
	}
}

func (c *Client) authHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken == "" {
		return ""
	}
	return c.tokenType + " " + c.accessToken
}

// refreshLoop re-authenticates shortly before every token expiry. It runs
// until the context is cancelled (a clean exit) or a refresh fails, which is
// fatal: the caller surfaces the error once the product loop is done.
func (c *Client) refreshLoop(ctx context.Context) error {
	for {
		c.mu.RLock()
		wait := c.refreshAfter
		c.mu.RUnlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if err := c.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				// Cancelled mid-request; nothing depends on the outcome.
				return nil
			}
			return err
		}
		c.log.Debugw("access token refreshed")
	}
}
